package repository

import (
	"context"

	"formbae/coach-app/internal/domain"
)

func planFromRow(row []string) domain.Plan {
	return domain.Plan{
		PlanID:        row[0],
		UserID:        row[1],
		TrainerID:     row[2],
		Title:         row[3],
		WeekStartDate: row[4],
		Status:        domain.PlanStatus(row[5]),
		OverallNotes:  row[6],
		CreatedAt:     cellTime(row[7]),
	}
}

func planToRow(p domain.Plan) []string {
	return []string{
		p.PlanID, p.UserID, p.TrainerID, p.Title, p.WeekStartDate,
		string(p.Status), p.OverallNotes, fmtTime(p.CreatedAt),
	}
}

func (t *Tables) Plans(ctx context.Context) ([]domain.Plan, error) {
	body, err := t.readBody(ctx, TablePlans)
	if err != nil {
		return nil, err
	}
	plans := make([]domain.Plan, len(body))
	for i, row := range body {
		plans[i] = planFromRow(row)
	}
	return plans, nil
}

func (t *Tables) UpsertPlan(ctx context.Context, p domain.Plan) error {
	return t.upsertByKey(ctx, TablePlans, 0, planToRow(p))
}

func (t *Tables) ReplacePlans(ctx context.Context, plans []domain.Plan) error {
	body := make([][]string, len(plans))
	for i, p := range plans {
		body[i] = planToRow(p)
	}
	return t.overwriteBody(ctx, TablePlans, body)
}

// --- PlanDays ---

func planDayFromRow(row []string) domain.PlanDay {
	return domain.PlanDay{
		PlanDayID: row[0],
		PlanID:    row[1],
		DayNumber: cellInt(row[2]),
		Focus:     row[3],
		Notes:     row[4],
	}
}

func planDayToRow(d domain.PlanDay) []string {
	return []string{d.PlanDayID, d.PlanID, fmtInt(d.DayNumber), d.Focus, d.Notes}
}

func (t *Tables) PlanDays(ctx context.Context) ([]domain.PlanDay, error) {
	body, err := t.readBody(ctx, TablePlanDays)
	if err != nil {
		return nil, err
	}
	days := make([]domain.PlanDay, len(body))
	for i, row := range body {
		days[i] = planDayFromRow(row)
	}
	return days, nil
}

func (t *Tables) ReplacePlanDays(ctx context.Context, days []domain.PlanDay) error {
	body := make([][]string, len(days))
	for i, d := range days {
		body[i] = planDayToRow(d)
	}
	return t.overwriteBody(ctx, TablePlanDays, body)
}

// --- PlanDayExercises ---

func planDayExerciseFromRow(row []string) domain.PlanDayExercise {
	return domain.PlanDayExercise{
		PlanDayID:  row[0],
		ExerciseID: row[1],
		Order:      cellInt(row[2]),
		Sets:       cellInt(row[3]),
		Reps:       row[4],
		RestSec:    cellInt(row[5]),
		Notes:      row[6],
		VideoID:    row[7],
		VideoURL:   row[8],
	}
}

func planDayExerciseToRow(e domain.PlanDayExercise) []string {
	return []string{
		e.PlanDayID, e.ExerciseID, fmtInt(e.Order), fmtInt(e.Sets),
		e.Reps, fmtInt(e.RestSec), e.Notes, e.VideoID, e.VideoURL,
	}
}

func (t *Tables) PlanDayExercises(ctx context.Context) ([]domain.PlanDayExercise, error) {
	body, err := t.readBody(ctx, TablePlanDayExercises)
	if err != nil {
		return nil, err
	}
	links := make([]domain.PlanDayExercise, len(body))
	for i, row := range body {
		links[i] = planDayExerciseFromRow(row)
	}
	return links, nil
}

func (t *Tables) ReplacePlanDayExercises(ctx context.Context, links []domain.PlanDayExercise) error {
	body := make([][]string, len(links))
	for i, e := range links {
		body[i] = planDayExerciseToRow(e)
	}
	return t.overwriteBody(ctx, TablePlanDayExercises, body)
}

// --- Exercises ---

func exerciseFromRow(row []string) domain.Exercise {
	return domain.Exercise{
		ExerciseID:      row[0],
		Name:            row[1],
		PrimaryMuscle:   row[2],
		Equipment:       row[3],
		DefaultCuesJSON: row[4],
	}
}

func exerciseToRow(e domain.Exercise) []string {
	return []string{e.ExerciseID, e.Name, e.PrimaryMuscle, e.Equipment, e.DefaultCuesJSON}
}

func (t *Tables) Exercises(ctx context.Context) ([]domain.Exercise, error) {
	body, err := t.readBody(ctx, TableExercises)
	if err != nil {
		return nil, err
	}
	exercises := make([]domain.Exercise, len(body))
	for i, row := range body {
		exercises[i] = exerciseFromRow(row)
	}
	return exercises, nil
}

func (t *Tables) AppendExercises(ctx context.Context, exercises []domain.Exercise) error {
	rows := make([][]string, len(exercises))
	for i, e := range exercises {
		rows[i] = exerciseToRow(e)
	}
	return t.append(ctx, TableExercises, rows...)
}

func (t *Tables) UpsertExercise(ctx context.Context, e domain.Exercise) error {
	return t.upsertByKey(ctx, TableExercises, 0, exerciseToRow(e))
}

// --- Videos ---

func videoFromRow(row []string) domain.Video {
	return domain.Video{
		VideoID:     row[0],
		ExerciseID:  row[1],
		URL:         row[2],
		Title:       row[3],
		Channel:     row[4],
		Thumbnail:   row[5],
		Source:      domain.VideoSource(row[6]),
		FetchedAt:   cellTime(row[7]),
		Score:       cellFloat(row[8]),
		SearchQuery: row[9],
	}
}

func videoToRow(v domain.Video) []string {
	return []string{
		v.VideoID, v.ExerciseID, v.URL, v.Title, v.Channel, v.Thumbnail,
		string(v.Source), fmtTime(v.FetchedAt), fmtFloat(v.Score), v.SearchQuery,
	}
}

func (t *Tables) Videos(ctx context.Context) ([]domain.Video, error) {
	body, err := t.readBody(ctx, TableVideos)
	if err != nil {
		return nil, err
	}
	videos := make([]domain.Video, len(body))
	for i, row := range body {
		videos[i] = videoFromRow(row)
	}
	return videos, nil
}

func (t *Tables) AppendVideos(ctx context.Context, videos []domain.Video) error {
	rows := make([][]string, len(videos))
	for i, v := range videos {
		rows[i] = videoToRow(v)
	}
	return t.append(ctx, TableVideos, rows...)
}

func (t *Tables) UpsertVideo(ctx context.Context, v domain.Video) error {
	return t.upsertByKey(ctx, TableVideos, 0, videoToRow(v))
}
