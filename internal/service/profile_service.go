package service

import (
	"context"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// --- Service Interface ---
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update domain.Profile) (*domain.Profile, error)
}

type profileService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewProfileService(tables *repository.Tables) ProfileService {
	return &profileService{tables: tables, now: time.Now}
}

// GetProfile returns the stored profile, or an empty one when the user has
// never filled it in.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profiles, err := s.tables.Profiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].UserID == userID {
			return &profiles[i], nil
		}
	}
	empty := domain.EmptyProfile(userID, s.now())
	return &empty, nil
}

// UpdateProfile merges non-empty fields of the update into the stored row.
// Measurements arrive as free-text cells, so empty means "leave as is".
func (s *profileService) UpdateProfile(ctx context.Context, userID string, update domain.Profile) (*domain.Profile, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := *current
	mergeCell(&merged.Weight, update.Weight)
	mergeCell(&merged.Height, update.Height)
	mergeCell(&merged.Age, update.Age)
	mergeCell(&merged.Chest, update.Chest)
	mergeCell(&merged.Waist, update.Waist)
	mergeCell(&merged.Biceps, update.Biceps)
	mergeCell(&merged.DietPref, update.DietPref)
	mergeCell(&merged.Allergies, update.Allergies)
	mergeCell(&merged.LifestyleJSON, update.LifestyleJSON)
	mergeCell(&merged.TrainingDays, update.TrainingDays)
	mergeCell(&merged.PhotosURLsJSON, update.PhotosURLsJSON)
	merged.UserID = userID
	merged.UpdatedAt = s.now()

	if err := s.tables.UpsertProfile(ctx, merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

func mergeCell(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
