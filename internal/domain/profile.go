package domain

import "time"

// Profile holds a trainee's intake data, keyed by user. Measurement cells
// stay free-form strings since trainers enter them with units.
type Profile struct {
	UserID         string    `json:"userId"`
	Weight         string    `json:"weight"`
	Height         string    `json:"height"`
	Age            string    `json:"age"`
	Chest          string    `json:"chest"`
	Waist          string    `json:"waist"`
	Biceps         string    `json:"biceps"`
	DietPref       string    `json:"dietPref"`
	Allergies      string    `json:"allergies"`
	LifestyleJSON  string    `json:"lifestyleJson"`
	TrainingDays   string    `json:"trainingDays"`
	PhotosURLsJSON string    `json:"photosUrlsJson"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EmptyProfile returns the blank profile written when a user is provisioned.
func EmptyProfile(userID string, now time.Time) Profile {
	return Profile{
		UserID:         userID,
		LifestyleJSON:  "{}",
		PhotosURLsJSON: "{}",
		UpdatedAt:      now,
	}
}
