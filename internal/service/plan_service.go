package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPlanValidation   = errors.New("plan requires a title and at least one day")
	ErrPlanFieldsNeeded = errors.New("user and week start date are required")
	ErrPlanInputNeeded  = errors.New("provide plan text or a day-wise plan")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanUserMismatch = errors.New("plan does not belong to that user")
	ErrPlanForbidden    = errors.New("access denied to this plan")
	ErrUserNotAssigned  = errors.New("you can only create plans for your assigned users")
)

// PlanDayInput is one day of a plan submission. Exercises carry either an
// explicit ExerciseID or a free-text ExerciseName; the resolver fills the
// rest in.
type PlanDayInput struct {
	PlanDayID string              `json:"planDayId,omitempty"`
	DayNumber int                 `json:"dayNumber"`
	Focus     string              `json:"focus"`
	Notes     string              `json:"notes"`
	Exercises []PlanExerciseInput `json:"exercises"`
}

type PlanExerciseInput struct {
	ExerciseID   string `json:"exerciseId,omitempty"`
	ExerciseName string `json:"exerciseName,omitempty"`
	Order        int    `json:"order"`
	Sets         int    `json:"sets"`
	Reps         string `json:"reps"`
	RestSec      int    `json:"restSec"`
	Notes        string `json:"notes,omitempty"`
	VideoID      string `json:"videoId,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
}

// SavePlanInput is a full plan submission. Days may be given directly
// (day-wise editing) or left empty with Text carrying free-form plan text
// for the parser.
type SavePlanInput struct {
	PlanID        string
	UserID        string
	Title         string
	WeekStartDate string
	Status        domain.PlanStatus
	OverallNotes  string
	Days          []PlanDayInput
	Text          string
}

// ExerciseRef identifies an exercise for background video enrichment.
type ExerciseRef struct {
	ExerciseID   string
	ExerciseName string
}

// SavedPlan reports the persisted plan plus the refs the video backfill
// worker should look at.
type SavedPlan struct {
	Plan         domain.Plan
	Days         []PlanDayInput
	BackfillRefs []ExerciseRef
}

// PlanExerciseView is a day link joined with its catalog entry and best
// video for display.
type PlanExerciseView struct {
	domain.PlanDayExercise
	ExerciseName string         `json:"exerciseName"`
	CuePack      domain.CuePack `json:"cuePack"`
}

type PlanDayView struct {
	domain.PlanDay
	Exercises []PlanExerciseView `json:"exercises"`
}

type PlanView struct {
	domain.Plan
	Days []PlanDayView `json:"days"`
}

// --- Service Interface ---
type PlanService interface {
	SavePlan(ctx context.Context, actorID string, actorRole domain.Role, input SavePlanInput) (*SavedPlan, error)
	SetActivePlan(ctx context.Context, actorID string, actorRole domain.Role, userID, planID string) error
	DeletePlan(ctx context.Context, actorID string, actorRole domain.Role, userID, planID string) error
	GetActivePlanForUser(ctx context.Context, userID string) (*PlanView, error)
	ListPlansForUser(ctx context.Context, userID string) ([]domain.Plan, error)
}

type planService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewPlanService(tables *repository.Tables) PlanService {
	return &planService{tables: tables, now: time.Now}
}

// SavePlan upserts the plan header, enforces single-active-plan-per-user,
// and replaces all day/exercise child rows. Validation and ownership checks
// happen before any write.
func (s *planService) SavePlan(ctx context.Context, actorID string, actorRole domain.Role, input SavePlanInput) (*SavedPlan, error) {
	if input.UserID == "" || input.WeekStartDate == "" {
		return nil, ErrPlanFieldsNeeded
	}

	if actorRole == domain.RoleTrainer {
		users, err := s.tables.Users(ctx)
		if err != nil {
			return nil, err
		}
		assigned := false
		for _, u := range users {
			if u.UserID == input.UserID && u.Role == domain.RoleUser && u.TrainerID == actorID {
				assigned = true
				break
			}
		}
		if !assigned {
			return nil, ErrUserNotAssigned
		}
	}

	title := strings.TrimSpace(input.Title)
	overallNotes := strings.TrimSpace(input.OverallNotes)
	days := normalizeDays(input.Days)

	if len(days) == 0 && strings.TrimSpace(input.Text) != "" {
		parsed := ParseWorkoutPlanText(input.Text)
		if title == "" {
			title = parsed.Title
		}
		if overallNotes == "" && len(parsed.GlobalNotes) > 0 {
			overallNotes = strings.Join(parsed.GlobalNotes, "\n")
		}
		days = daysFromParsed(parsed.Days)
	}

	if len(days) == 0 {
		return nil, ErrPlanInputNeeded
	}
	if title == "" {
		return nil, ErrPlanValidation
	}

	// Days are sorted by day number before IDs are assigned, regardless of
	// submission order.
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })

	resolved, refs, err := s.resolveExerciseReferences(ctx, days)
	if err != nil {
		return nil, err
	}

	planID := input.PlanID
	if planID == "" {
		planID = repository.NewID("plan")
	}
	status := input.Status
	if status == "" {
		status = domain.PlanActive
	}
	plan := domain.Plan{
		PlanID:        planID,
		UserID:        input.UserID,
		TrainerID:     actorID,
		Title:         title,
		WeekStartDate: input.WeekStartDate,
		Status:        status,
		OverallNotes:  overallNotes,
		CreatedAt:     s.now(),
	}
	if err := s.tables.UpsertPlan(ctx, plan); err != nil {
		return nil, err
	}

	if status == domain.PlanActive {
		if err := s.ensureSingleActivePlan(ctx, input.UserID, planID); err != nil {
			return nil, err
		}
	}

	withIDs, err := s.replacePlanRows(ctx, planID, resolved)
	if err != nil {
		return nil, err
	}

	return &SavedPlan{Plan: plan, Days: withIDs, BackfillRefs: refs}, nil
}

// normalizeDays applies the boundary coercions a day-wise submission needs:
// 1-based order fallback, rest default, "as prescribed" reps dropped.
func normalizeDays(days []PlanDayInput) []PlanDayInput {
	out := make([]PlanDayInput, len(days))
	for i, day := range days {
		exercises := make([]PlanExerciseInput, len(day.Exercises))
		for j, ex := range day.Exercises {
			if ex.Order == 0 {
				ex.Order = j + 1
			}
			if ex.RestSec == 0 {
				ex.RestSec = 60
			}
			ex.Reps = sanitizeReps(ex.Reps)
			exercises[j] = ex
		}
		day.Exercises = exercises
		out[i] = day
	}
	return out
}

func daysFromParsed(parsed []ParsedDay) []PlanDayInput {
	days := make([]PlanDayInput, len(parsed))
	for i, d := range parsed {
		exercises := make([]PlanExerciseInput, len(d.Exercises))
		for j, ex := range d.Exercises {
			exercises[j] = PlanExerciseInput{
				ExerciseName: ex.ExerciseName,
				Order:        j + 1,
				Sets:         ex.Sets,
				Reps:         sanitizeReps(ex.Reps),
				RestSec:      ex.RestSec,
				Notes:        ex.Notes,
			}
		}
		days[i] = PlanDayInput{
			DayNumber: d.DayNumber,
			Focus:     d.Focus,
			Notes:     d.Notes,
			Exercises: exercises,
		}
	}
	return days
}

func sanitizeReps(reps string) string {
	reps = strings.TrimSpace(reps)
	if strings.EqualFold(reps, "as prescribed") {
		return ""
	}
	return reps
}

// resolveExerciseReferences resolves every exercise mention against the
// catalog: explicit IDs get placeholder entries when unknown, names dedupe
// case/space-insensitively against existing entries and against other new
// names in the same submission, and anything left mints a fresh entry. All
// queued catalog rows are appended in one batch at the end; existing
// entries are never mutated.
func (s *planService) resolveExerciseReferences(ctx context.Context, days []PlanDayInput) ([]PlanDayInput, []ExerciseRef, error) {
	exercises, err := s.tables.Exercises(ctx)
	if err != nil {
		return nil, nil, err
	}
	videos, err := s.tables.Videos(ctx)
	if err != nil {
		return nil, nil, err
	}

	byNormName := make(map[string]*domain.Exercise, len(exercises))
	knownIDs := make(map[string]bool, len(exercises))
	for i := range exercises {
		knownIDs[exercises[i].ExerciseID] = true
		byNormName[domain.NormalizeExerciseName(exercises[i].Name)] = &exercises[i]
	}

	var pending []domain.Exercise
	pendingByName := make(map[string]string)

	queueExercise := func(exerciseID, name string) {
		id := strings.TrimSpace(exerciseID)
		if id == "" || knownIDs[id] {
			return
		}
		resolvedName := strings.TrimSpace(name)
		if resolvedName == "" {
			resolvedName = "Unspecified Exercise"
		}
		pending = append(pending, domain.Exercise{
			ExerciseID:      id,
			Name:            resolvedName,
			PrimaryMuscle:   "General",
			Equipment:       "Mixed",
			DefaultCuesJSON: "{}",
		})
		knownIDs[id] = true
		// Queued names join the lookup so a later mention of the same
		// name in this submission reuses the row instead of minting one.
		norm := domain.NormalizeExerciseName(resolvedName)
		if _, exists := byNormName[norm]; !exists {
			if _, queued := pendingByName[norm]; !queued {
				pendingByName[norm] = id
			}
		}
	}

	videoFor := func(exerciseID string) (string, string) {
		for _, v := range videos {
			if v.ExerciseID == exerciseID {
				return v.VideoID, v.URL
			}
		}
		return "", ""
	}

	ensure := func(name, explicitID string) (string, string, string) {
		if explicitID != "" {
			id := strings.TrimSpace(explicitID)
			if id != "" && !knownIDs[id] {
				queueExercise(id, name)
			}
			vid, url := videoFor(id)
			return id, vid, url
		}

		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			id := repository.NewID("ex")
			queueExercise(id, "Unspecified Exercise")
			return id, "", ""
		}

		norm := domain.NormalizeExerciseName(trimmed)
		if existing, ok := byNormName[norm]; ok {
			vid, url := videoFor(existing.ExerciseID)
			return existing.ExerciseID, vid, url
		}
		if queuedID, ok := pendingByName[norm]; ok {
			return queuedID, "", ""
		}

		id := repository.NewID("ex")
		queueExercise(id, trimmed)
		return id, "", ""
	}

	resolved := make([]PlanDayInput, len(days))
	var refs []ExerciseRef
	for i, day := range days {
		out := day
		out.Exercises = make([]PlanExerciseInput, len(day.Exercises))
		for j, ex := range day.Exercises {
			id, vid, url := ensure(ex.ExerciseName, ex.ExerciseID)
			ex.ExerciseID = id
			if ex.VideoID == "" {
				ex.VideoID = vid
			}
			if ex.VideoURL == "" {
				ex.VideoURL = url
			}
			out.Exercises[j] = ex
			refs = append(refs, ExerciseRef{ExerciseID: id, ExerciseName: ex.ExerciseName})
		}
		resolved[i] = out
	}

	if len(pending) > 0 {
		if err := s.tables.AppendExercises(ctx, pending); err != nil {
			return nil, nil, err
		}
	}

	return resolved, refs, nil
}

// ensureSingleActivePlan activates the target plan and demotes every other
// plan of the same user whose status reads "active" (case-insensitively) to
// "draft". Other users' rows are untouched.
func (s *planService) ensureSingleActivePlan(ctx context.Context, userID, activePlanID string) error {
	plans, err := s.tables.Plans(ctx)
	if err != nil {
		return err
	}
	for i := range plans {
		if plans[i].UserID != userID {
			continue
		}
		if plans[i].PlanID == activePlanID {
			plans[i].Status = domain.PlanActive
		} else if strings.EqualFold(string(plans[i].Status), string(domain.PlanActive)) {
			plans[i].Status = domain.PlanDraft
		}
	}
	return s.tables.ReplacePlans(ctx, plans)
}

// replacePlanRows removes all existing child rows of the plan and inserts
// the freshly resolved ones, preserving submitted order. A supplied
// planDayId is kept, otherwise a new one is minted per day.
func (s *planService) replacePlanRows(ctx context.Context, planID string, days []PlanDayInput) ([]PlanDayInput, error) {
	allDays, err := s.tables.PlanDays(ctx)
	if err != nil {
		return nil, err
	}
	removedDayIDs := make(map[string]bool)
	keptDays := allDays[:0]
	for _, d := range allDays {
		if d.PlanID == planID {
			removedDayIDs[d.PlanDayID] = true
			continue
		}
		keptDays = append(keptDays, d)
	}

	allLinks, err := s.tables.PlanDayExercises(ctx)
	if err != nil {
		return nil, err
	}
	keptLinks := allLinks[:0]
	for _, l := range allLinks {
		if removedDayIDs[l.PlanDayID] {
			continue
		}
		keptLinks = append(keptLinks, l)
	}

	out := make([]PlanDayInput, len(days))
	for i, day := range days {
		planDayID := day.PlanDayID
		if planDayID == "" {
			planDayID = repository.NewID("pday")
		}
		day.PlanDayID = planDayID
		out[i] = day

		keptDays = append(keptDays, domain.PlanDay{
			PlanDayID: planDayID,
			PlanID:    planID,
			DayNumber: day.DayNumber,
			Focus:     day.Focus,
			Notes:     day.Notes,
		})
		for _, ex := range day.Exercises {
			sets := ex.Sets
			if sets == 0 {
				sets = 3
			}
			keptLinks = append(keptLinks, domain.PlanDayExercise{
				PlanDayID:  planDayID,
				ExerciseID: ex.ExerciseID,
				Order:      ex.Order,
				Sets:       sets,
				Reps:       sanitizeReps(ex.Reps),
				RestSec:    ex.RestSec,
				Notes:      ex.Notes,
				VideoID:    ex.VideoID,
				VideoURL:   ex.VideoURL,
			})
		}
	}

	if err := s.tables.ReplacePlanDays(ctx, keptDays); err != nil {
		return nil, err
	}
	if err := s.tables.ReplacePlanDayExercises(ctx, keptLinks); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActivePlan flips the active plan for a user after re-validating
// ownership. No writes happen when a check fails.
func (s *planService) SetActivePlan(ctx context.Context, actorID string, actorRole domain.Role, userID, planID string) error {
	if userID == "" || planID == "" {
		return ErrPlanFieldsNeeded
	}
	plans, err := s.tables.Plans(ctx)
	if err != nil {
		return err
	}
	target, err := findPlan(plans, planID)
	if err != nil {
		return err
	}
	if target.UserID != userID {
		return ErrPlanUserMismatch
	}
	if actorRole == domain.RoleTrainer && target.TrainerID != actorID {
		return ErrPlanForbidden
	}
	return s.ensureSingleActivePlan(ctx, userID, planID)
}

// DeletePlan cascades over days, exercise links, workout logs, set logs and
// messages for one plan. All ownership checks complete before the first
// overwrite.
func (s *planService) DeletePlan(ctx context.Context, actorID string, actorRole domain.Role, userID, planID string) error {
	if userID == "" || planID == "" {
		return ErrPlanFieldsNeeded
	}
	plans, err := s.tables.Plans(ctx)
	if err != nil {
		return err
	}
	target, err := findPlan(plans, planID)
	if err != nil {
		return err
	}
	if target.UserID != userID {
		return ErrPlanUserMismatch
	}
	if actorRole == domain.RoleTrainer && target.TrainerID != actorID {
		return ErrPlanForbidden
	}

	days, err := s.tables.PlanDays(ctx)
	if err != nil {
		return err
	}
	links, err := s.tables.PlanDayExercises(ctx)
	if err != nil {
		return err
	}
	workoutLogs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return err
	}
	setLogs, err := s.tables.SetLogs(ctx)
	if err != nil {
		return err
	}
	messages, err := s.tables.Messages(ctx)
	if err != nil {
		return err
	}

	removedDayIDs := make(map[string]bool)
	keptDays := days[:0]
	for _, d := range days {
		if d.PlanID == planID {
			removedDayIDs[d.PlanDayID] = true
			continue
		}
		keptDays = append(keptDays, d)
	}

	keptLinks := links[:0]
	for _, l := range links {
		if removedDayIDs[l.PlanDayID] {
			continue
		}
		keptLinks = append(keptLinks, l)
	}

	removedLogIDs := make(map[string]bool)
	keptLogs := workoutLogs[:0]
	for _, l := range workoutLogs {
		if l.PlanID == planID {
			removedLogIDs[l.LogID] = true
			continue
		}
		keptLogs = append(keptLogs, l)
	}

	keptSets := setLogs[:0]
	for _, sl := range setLogs {
		if removedLogIDs[sl.LogID] {
			continue
		}
		keptSets = append(keptSets, sl)
	}

	keptPlans := plans[:0]
	for _, p := range plans {
		if p.PlanID == planID {
			continue
		}
		keptPlans = append(keptPlans, p)
	}

	keptMessages := messages[:0]
	for _, m := range messages {
		if m.PlanID == planID {
			continue
		}
		keptMessages = append(keptMessages, m)
	}

	if err := s.tables.ReplacePlans(ctx, keptPlans); err != nil {
		return err
	}
	if err := s.tables.ReplacePlanDays(ctx, keptDays); err != nil {
		return err
	}
	if err := s.tables.ReplacePlanDayExercises(ctx, keptLinks); err != nil {
		return err
	}
	if err := s.tables.ReplaceWorkoutLogs(ctx, keptLogs); err != nil {
		return err
	}
	if err := s.tables.ReplaceSetLogs(ctx, keptSets); err != nil {
		return err
	}
	return s.tables.ReplaceMessages(ctx, keptMessages)
}

// GetActivePlanForUser assembles the user's active plan with its days,
// ordered exercise links, catalog names, cue packs and best video URLs.
func (s *planService) GetActivePlanForUser(ctx context.Context, userID string) (*PlanView, error) {
	plans, err := s.tables.Plans(ctx)
	if err != nil {
		return nil, err
	}
	var active *domain.Plan
	for i := range plans {
		p := &plans[i]
		if p.UserID != userID || p.Status != domain.PlanActive {
			continue
		}
		if active == nil || p.WeekStartDate > active.WeekStartDate {
			active = p
		}
	}
	if active == nil {
		return nil, ErrPlanNotFound
	}

	days, err := s.tables.PlanDays(ctx)
	if err != nil {
		return nil, err
	}
	links, err := s.tables.PlanDayExercises(ctx)
	if err != nil {
		return nil, err
	}
	exercises, err := s.tables.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	videos, err := s.tables.Videos(ctx)
	if err != nil {
		return nil, err
	}

	exByID := make(map[string]domain.Exercise, len(exercises))
	for _, e := range exercises {
		exByID[e.ExerciseID] = e
	}
	videoByID := make(map[string]domain.Video, len(videos))
	for _, v := range videos {
		videoByID[v.VideoID] = v
	}

	var planDays []domain.PlanDay
	for _, d := range days {
		if d.PlanID == active.PlanID {
			planDays = append(planDays, d)
		}
	}
	sort.Slice(planDays, func(i, j int) bool { return planDays[i].DayNumber < planDays[j].DayNumber })

	view := &PlanView{Plan: *active}
	for _, d := range planDays {
		var dayLinks []domain.PlanDayExercise
		for _, l := range links {
			if l.PlanDayID == d.PlanDayID {
				dayLinks = append(dayLinks, l)
			}
		}
		sort.Slice(dayLinks, func(i, j int) bool { return dayLinks[i].Order < dayLinks[j].Order })

		dayView := PlanDayView{PlanDay: d}
		for _, l := range dayLinks {
			exView := PlanExerciseView{PlanDayExercise: l, ExerciseName: "Unknown", CuePack: domain.DefaultCuePack()}
			if ex, ok := exByID[l.ExerciseID]; ok {
				exView.ExerciseName = ex.Name
				exView.CuePack = domain.ParseCuePack(ex.DefaultCuesJSON)
			}
			if exView.VideoURL == "" {
				if v, ok := videoByID[l.VideoID]; ok && v.URL != "" {
					exView.VideoURL = v.URL
				} else if best := domain.BestVideoFor(videos, l.ExerciseID); best != nil {
					exView.VideoURL = best.URL
				}
			}
			dayView.Exercises = append(dayView.Exercises, exView)
		}
		view.Days = append(view.Days, dayView)
	}
	return view, nil
}

func (s *planService) ListPlansForUser(ctx context.Context, userID string) ([]domain.Plan, error) {
	plans, err := s.tables.Plans(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Plan
	for _, p := range plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStartDate > out[j].WeekStartDate })
	return out, nil
}

func findPlan(plans []domain.Plan, planID string) (*domain.Plan, error) {
	for i := range plans {
		if plans[i].PlanID == planID {
			return &plans[i], nil
		}
	}
	return nil, ErrPlanNotFound
}
