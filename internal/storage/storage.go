// Package storage hands out presigned URLs for progress photos. Clients
// upload and fetch photos directly against the bucket; only the object
// keys land in the photo JSON on the profile row.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// PhotoStorage defines the interface for progress-photo object storage.
type PhotoStorage interface {
	// PresignUpload creates a temporary URL allowing a PUT of one photo.
	// The client must send the same content type it presigned with.
	PresignUpload(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// PresignDownload creates a temporary URL allowing a GET of one photo.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeletePhoto removes a photo object.
	DeletePhoto(ctx context.Context, objectKey string) error
}

// PhotoKey builds the object key for a user's progress photo. Keys group
// by user so a user wipe can list one prefix.
func PhotoKey(userID, date, contentType string) string {
	ext := "jpg"
	if idx := strings.LastIndex(contentType, "/"); idx != -1 && idx < len(contentType)-1 {
		ext = contentType[idx+1:]
	}
	return fmt.Sprintf("photos/%s/%s-%s.%s", userID, date, uuid.New().String()[:8], ext)
}
