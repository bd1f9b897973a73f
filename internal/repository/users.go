package repository

import (
	"context"

	"formbae/coach-app/internal/domain"
)

func userFromRow(row []string) domain.User {
	return domain.User{
		UserID:        row[0],
		Role:          domain.Role(row[1]),
		Name:          row[2],
		Mobile:        row[3],
		CreatedAt:     cellTime(row[4]),
		TrainerID: row[5],
		// Hand-edited sheets hold arbitrary casing; fold to canonical.
		AllowlistFlag: domain.NormalizeEnabledFlag(row[6]),
		SecretHash:    row[7],
	}
}

func userToRow(u domain.User) []string {
	return []string{
		u.UserID, string(u.Role), u.Name, u.Mobile,
		fmtTime(u.CreatedAt), u.TrainerID, u.AllowlistFlag, u.SecretHash,
	}
}

func (t *Tables) Users(ctx context.Context) ([]domain.User, error) {
	body, err := t.readBody(ctx, TableUsers)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, len(body))
	for i, row := range body {
		users[i] = userFromRow(row)
	}
	return users, nil
}

func (t *Tables) AppendUser(ctx context.Context, u domain.User) error {
	return t.append(ctx, TableUsers, userToRow(u))
}

func (t *Tables) UpsertUser(ctx context.Context, u domain.User) error {
	return t.upsertByKey(ctx, TableUsers, 0, userToRow(u))
}

// ReplaceUsers overwrites the whole Users table with the given rows.
func (t *Tables) ReplaceUsers(ctx context.Context, users []domain.User) error {
	body := make([][]string, len(users))
	for i, u := range users {
		body[i] = userToRow(u)
	}
	return t.overwriteBody(ctx, TableUsers, body)
}

// --- Profiles ---

func profileFromRow(row []string) domain.Profile {
	return domain.Profile{
		UserID:         row[0],
		Weight:         row[1],
		Height:         row[2],
		Age:            row[3],
		Chest:          row[4],
		Waist:          row[5],
		Biceps:         row[6],
		DietPref:       row[7],
		Allergies:      row[8],
		LifestyleJSON:  row[9],
		TrainingDays:   row[10],
		PhotosURLsJSON: row[11],
		UpdatedAt:      cellTime(row[12]),
	}
}

func profileToRow(p domain.Profile) []string {
	return []string{
		p.UserID, p.Weight, p.Height, p.Age, p.Chest, p.Waist, p.Biceps,
		p.DietPref, p.Allergies, p.LifestyleJSON, p.TrainingDays,
		p.PhotosURLsJSON, fmtTime(p.UpdatedAt),
	}
}

func (t *Tables) Profiles(ctx context.Context) ([]domain.Profile, error) {
	body, err := t.readBody(ctx, TableProfiles)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.Profile, len(body))
	for i, row := range body {
		profiles[i] = profileFromRow(row)
	}
	return profiles, nil
}

func (t *Tables) UpsertProfile(ctx context.Context, p domain.Profile) error {
	return t.upsertByKey(ctx, TableProfiles, 0, profileToRow(p))
}

func (t *Tables) ReplaceProfiles(ctx context.Context, profiles []domain.Profile) error {
	body := make([][]string, len(profiles))
	for i, p := range profiles {
		body[i] = profileToRow(p)
	}
	return t.overwriteBody(ctx, TableProfiles, body)
}

// --- Requests ---

func requestFromRow(row []string) domain.AccessRequest {
	return domain.AccessRequest{
		RequestID: row[0],
		Mobile:    row[1],
		Name:      row[2],
		Notes:     row[3],
		CreatedAt: cellTime(row[4]),
		Status:    domain.RequestStatus(row[5]),
		TrainerID: row[6],
	}
}

func requestToRow(r domain.AccessRequest) []string {
	return []string{
		r.RequestID, r.Mobile, r.Name, r.Notes,
		fmtTime(r.CreatedAt), string(r.Status), r.TrainerID,
	}
}

func (t *Tables) Requests(ctx context.Context) ([]domain.AccessRequest, error) {
	body, err := t.readBody(ctx, TableRequests)
	if err != nil {
		return nil, err
	}
	requests := make([]domain.AccessRequest, len(body))
	for i, row := range body {
		requests[i] = requestFromRow(row)
	}
	return requests, nil
}

func (t *Tables) AppendRequest(ctx context.Context, r domain.AccessRequest) error {
	return t.append(ctx, TableRequests, requestToRow(r))
}

func (t *Tables) UpsertRequest(ctx context.Context, r domain.AccessRequest) error {
	return t.upsertByKey(ctx, TableRequests, 0, requestToRow(r))
}

func (t *Tables) ReplaceRequests(ctx context.Context, requests []domain.AccessRequest) error {
	body := make([][]string, len(requests))
	for i, r := range requests {
		body[i] = requestToRow(r)
	}
	return t.overwriteBody(ctx, TableRequests, body)
}
