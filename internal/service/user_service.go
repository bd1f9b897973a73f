package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidMobile     = errors.New("enter a valid mobile number")
	ErrMobileTaken       = errors.New("a user with this mobile number already exists")
	ErrSelfDisable       = errors.New("you cannot disable your own account")
	ErrSelfDelete        = errors.New("you cannot delete your own account")
	ErrNameRequired      = errors.New("name is required")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrPasswordForbidden = errors.New("passwords are only set for admin accounts")
)

type CreateUserInput struct {
	Name      string
	Mobile    string
	Role      domain.Role
	TrainerID string
	Password  string
}

type UpdateUserInput struct {
	UserID    string
	Name      string
	Mobile    string
	Role      domain.Role
	TrainerID string
	Password  string
}

// --- Service Interface ---
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, actorID string, input UpdateUserInput) (*domain.User, error)
	SetAllowlist(ctx context.Context, actorID, userID string, enabled bool) error
	DeleteUser(ctx context.Context, actorID, userID string) error
	AssignedUsers(ctx context.Context, trainerID string) ([]domain.User, error)
}

type userService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewUserService(tables *repository.Tables) UserService {
	return &userService{tables: tables, now: time.Now}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	mobile := domain.NormalizeMobile(input.Mobile)
	if !domain.IsValidMobile(mobile) {
		return nil, ErrInvalidMobile
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	secretHash, err := hashPassword(role, input.Password)
	if err != nil {
		return nil, err
	}

	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if domain.SameMobileLoose(u.Mobile, mobile) {
			return nil, ErrMobileTaken
		}
	}

	user := domain.User{
		UserID:        repository.NewID("usr"),
		Role:          role,
		Name:          name,
		Mobile:        mobile,
		CreatedAt:     s.now(),
		TrainerID:     strings.TrimSpace(input.TrainerID),
		AllowlistFlag: domain.AllowlistEnabled,
		SecretHash:    secretHash,
	}
	if err := s.tables.AppendUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.tables.UpsertProfile(ctx, domain.EmptyProfile(user.UserID, s.now())); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID string, input UpdateUserInput) (*domain.User, error) {
	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}
	var target *domain.User
	for i := range users {
		if users[i].UserID == input.UserID {
			target = &users[i]
			break
		}
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		target.Name = name
	}
	if input.Mobile != "" {
		mobile := domain.NormalizeMobile(input.Mobile)
		if !domain.IsValidMobile(mobile) {
			return nil, ErrInvalidMobile
		}
		for _, u := range users {
			if u.UserID != target.UserID && domain.SameMobileLoose(u.Mobile, mobile) {
				return nil, ErrMobileTaken
			}
		}
		target.Mobile = mobile
	}
	if input.Role != "" {
		if target.UserID == actorID && target.Role == domain.RoleAdmin && input.Role != domain.RoleAdmin {
			return nil, ErrSelfDisable
		}
		target.Role = input.Role
	}
	target.TrainerID = strings.TrimSpace(input.TrainerID)
	if input.Password != "" {
		hash, err := hashPassword(target.Role, input.Password)
		if err != nil {
			return nil, err
		}
		target.SecretHash = hash
	}

	if err := s.tables.ReplaceUsers(ctx, users); err != nil {
		return nil, err
	}
	return target, nil
}

// SetAllowlist toggles whether a user may sign in. Admins cannot disable
// themselves.
func (s *userService) SetAllowlist(ctx context.Context, actorID, userID string, enabled bool) error {
	if userID == actorID && !enabled {
		return ErrSelfDisable
	}
	users, err := s.tables.Users(ctx)
	if err != nil {
		return err
	}
	flag := domain.AllowlistDisabled
	if enabled {
		flag = domain.AllowlistEnabled
	}
	found := false
	for i := range users {
		if users[i].UserID == userID {
			users[i].AllowlistFlag = flag
			found = true
			break
		}
	}
	if !found {
		return ErrUserNotFound
	}
	return s.tables.ReplaceUsers(ctx, users)
}

// DeleteUser removes the account and every row referencing it. Trainee
// deletion also takes out allowlist-disabled duplicates sharing the same
// mobile and any approved access requests for that number, so the person
// cannot silently reappear on next login. Trainer deletion clears the
// trainer backreference on users, plans and requests instead of cascading
// into their trainees' data.
func (s *userService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if userID == actorID {
		return ErrSelfDelete
	}
	users, err := s.tables.Users(ctx)
	if err != nil {
		return err
	}
	var target domain.User
	found := false
	for _, u := range users {
		if u.UserID == userID {
			target = u
			found = true
			break
		}
	}
	if !found {
		return ErrUserNotFound
	}

	removedUserIDs := map[string]bool{userID: true}
	if target.Role == domain.RoleUser {
		for _, u := range users {
			if u.UserID == userID || u.Role != domain.RoleUser {
				continue
			}
			if domain.SameMobileLoose(u.Mobile, target.Mobile) {
				removedUserIDs[u.UserID] = true
			}
		}
	}

	keptUsers := users[:0]
	for _, u := range users {
		if removedUserIDs[u.UserID] {
			continue
		}
		if target.IsTrainer() && u.TrainerID == userID {
			u.TrainerID = ""
		}
		keptUsers = append(keptUsers, u)
	}
	if err := s.tables.ReplaceUsers(ctx, keptUsers); err != nil {
		return err
	}

	profiles, err := s.tables.Profiles(ctx)
	if err != nil {
		return err
	}
	keptProfiles := profiles[:0]
	for _, p := range profiles {
		if removedUserIDs[p.UserID] {
			continue
		}
		keptProfiles = append(keptProfiles, p)
	}
	if err := s.tables.ReplaceProfiles(ctx, keptProfiles); err != nil {
		return err
	}

	bodyLogs, err := s.tables.BodyLogs(ctx)
	if err != nil {
		return err
	}
	keptBody := bodyLogs[:0]
	for _, b := range bodyLogs {
		if removedUserIDs[b.UserID] {
			continue
		}
		keptBody = append(keptBody, b)
	}
	if err := s.tables.ReplaceBodyLogs(ctx, keptBody); err != nil {
		return err
	}

	messages, err := s.tables.Messages(ctx)
	if err != nil {
		return err
	}
	keptMessages := messages[:0]
	for _, m := range messages {
		if removedUserIDs[m.UserID] {
			continue
		}
		keptMessages = append(keptMessages, m)
	}
	if err := s.tables.ReplaceMessages(ctx, keptMessages); err != nil {
		return err
	}

	requests, err := s.tables.Requests(ctx)
	if err != nil {
		return err
	}
	keptRequests := requests[:0]
	for _, r := range requests {
		if target.Role == domain.RoleUser && r.Status == domain.RequestApproved && domain.SameMobileLoose(r.Mobile, target.Mobile) {
			continue
		}
		if target.IsTrainer() && r.TrainerID == userID {
			r.TrainerID = ""
		}
		keptRequests = append(keptRequests, r)
	}
	if err := s.tables.ReplaceRequests(ctx, keptRequests); err != nil {
		return err
	}

	plans, err := s.tables.Plans(ctx)
	if err != nil {
		return err
	}
	removedPlanIDs := make(map[string]bool)
	keptPlans := plans[:0]
	for _, p := range plans {
		if removedUserIDs[p.UserID] {
			removedPlanIDs[p.PlanID] = true
			continue
		}
		if target.IsTrainer() && p.TrainerID == userID {
			p.TrainerID = ""
		}
		keptPlans = append(keptPlans, p)
	}
	if err := s.tables.ReplacePlans(ctx, keptPlans); err != nil {
		return err
	}

	days, err := s.tables.PlanDays(ctx)
	if err != nil {
		return err
	}
	removedDayIDs := make(map[string]bool)
	keptDays := days[:0]
	for _, d := range days {
		if removedPlanIDs[d.PlanID] {
			removedDayIDs[d.PlanDayID] = true
			continue
		}
		keptDays = append(keptDays, d)
	}
	if err := s.tables.ReplacePlanDays(ctx, keptDays); err != nil {
		return err
	}

	links, err := s.tables.PlanDayExercises(ctx)
	if err != nil {
		return err
	}
	keptLinks := links[:0]
	for _, l := range links {
		if removedDayIDs[l.PlanDayID] {
			continue
		}
		keptLinks = append(keptLinks, l)
	}
	if err := s.tables.ReplacePlanDayExercises(ctx, keptLinks); err != nil {
		return err
	}

	workoutLogs, err := s.tables.WorkoutLogs(ctx)
	if err != nil {
		return err
	}
	removedLogIDs := make(map[string]bool)
	keptLogs := workoutLogs[:0]
	for _, l := range workoutLogs {
		if removedUserIDs[l.UserID] {
			removedLogIDs[l.LogID] = true
			continue
		}
		keptLogs = append(keptLogs, l)
	}
	if err := s.tables.ReplaceWorkoutLogs(ctx, keptLogs); err != nil {
		return err
	}

	setLogs, err := s.tables.SetLogs(ctx)
	if err != nil {
		return err
	}
	keptSets := setLogs[:0]
	for _, sl := range setLogs {
		if removedLogIDs[sl.LogID] {
			continue
		}
		keptSets = append(keptSets, sl)
	}
	return s.tables.ReplaceSetLogs(ctx, keptSets)
}

func (s *userService) AssignedUsers(ctx context.Context, trainerID string) ([]domain.User, error) {
	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.User
	for _, u := range users {
		if u.Role == domain.RoleUser && u.TrainerID == trainerID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func hashPassword(role domain.Role, password string) (string, error) {
	if password == "" {
		return "", nil
	}
	if role != domain.RoleAdmin {
		return "", ErrPasswordForbidden
	}
	if len(password) < 8 {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
