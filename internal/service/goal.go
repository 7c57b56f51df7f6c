package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/myprogress/internal/metrics"
	"github.com/templui/myprogress/internal/model"
	"github.com/templui/myprogress/internal/progress"
	"github.com/templui/myprogress/internal/repository"
	"github.com/templui/myprogress/internal/validation"
)

// GoalView is a goal as handed to callers, with its derived progress.
// Progress is computed on the way out and never stored.
type GoalView struct {
	*model.Goal
	Progress       int `json:"progress"`
	CompletedSteps int `json:"completedSteps"`
	TotalSteps     int `json:"totalSteps"`
}

func NewGoalView(goal *model.Goal) *GoalView {
	sum := progress.Summarize(goal.Steps)
	return &GoalView{
		Goal:           goal,
		Progress:       sum.Percent,
		CompletedSteps: sum.Completed,
		TotalSteps:     sum.Total,
	}
}

// GoalInput holds the fields accepted when creating a goal.
type GoalInput struct {
	Title       string
	Description string
	Category    model.Category
	Color       string
	StartDate   *time.Time
	TargetDate  *time.Time
	Steps       []model.StepDraft
}

// GoalPatch holds the fields an update may change. Nil leaves a field as is.
type GoalPatch struct {
	Title           *string
	Description     *string
	Category        *model.Category
	Color           *string
	TargetDate      *time.Time
	ClearTargetDate bool
}

type GoalService struct {
	repo repository.GoalRepository
	now  func() time.Time
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *GoalService) List(ctx context.Context, user *model.User) ([]*GoalView, error) {
	goals, err := s.repo.ForOwner(user.ID).Goals(ctx)
	if err != nil {
		return nil, observe("list", storeError("list goals", err))
	}

	views := make([]*GoalView, 0, len(goals))
	for _, goal := range goals {
		views = append(views, NewGoalView(goal))
	}

	return views, observe("list", nil)
}

func (s *GoalService) Get(ctx context.Context, user *model.User, goalID string) (*GoalView, error) {
	goal, err := s.repo.ForOwner(user.ID).ByID(ctx, goalID)
	if err != nil {
		return nil, observe("get", storeError("get goal", err))
	}

	return NewGoalView(goal), observe("get", nil)
}

func (s *GoalService) Create(ctx context.Context, user *model.User, in GoalInput) (*GoalView, error) {
	goal, err := s.buildGoal(in)
	if err != nil {
		return nil, observe("create", err)
	}

	err = s.repo.ForOwner(user.ID).Create(ctx, goal)
	if err != nil {
		return nil, observe("create", storeError("create goal", err))
	}

	slog.Info("goal created", "goal_id", goal.ID, "user_id", user.ID, "steps", len(goal.Steps))
	return NewGoalView(goal), observe("create", nil)
}

func (s *GoalService) Update(ctx context.Context, user *model.User, goalID string, patch GoalPatch) (*GoalView, error) {
	changes, err := validatePatch(patch)
	if err != nil {
		return nil, observe("update", err)
	}

	goal, err := s.repo.ForOwner(user.ID).Update(ctx, goalID, changes)
	if err != nil {
		return nil, observe("update", storeError("update goal", err))
	}

	return NewGoalView(goal), observe("update", nil)
}

// ToggleStep flips the completed flag of one step. The store applies the flip
// and the completion recount atomically, so concurrent toggles never lose
// each other's effect.
func (s *GoalService) ToggleStep(ctx context.Context, user *model.User, goalID, stepID string) (*GoalView, error) {
	goal, err := s.repo.ForOwner(user.ID).ToggleStep(ctx, goalID, stepID)
	if err != nil {
		return nil, observe("toggle_step", storeError("toggle step", err))
	}

	if goal.IsCompleted {
		slog.Info("goal completed", "goal_id", goal.ID, "user_id", user.ID)
	}
	return NewGoalView(goal), observe("toggle_step", nil)
}

func (s *GoalService) Delete(ctx context.Context, user *model.User, goalID string) error {
	err := s.repo.ForOwner(user.ID).Delete(ctx, goalID)
	if err != nil {
		return observe("delete", storeError("delete goal", err))
	}

	slog.Info("goal deleted", "goal_id", goalID, "user_id", user.ID)
	return observe("delete", nil)
}

func (s *GoalService) buildGoal(in GoalInput) (*model.Goal, error) {
	title, err := validation.Required(in.Title, model.MaxTitleLength)
	if err != nil {
		return nil, invalid("title", err)
	}

	description, err := validation.Optional(in.Description, model.MaxDescriptionLength)
	if err != nil {
		return nil, invalid("description", err)
	}

	category := in.Category
	if category == "" {
		category = model.DefaultCategory
	}
	if !category.Valid() {
		return nil, &ValidationError{Field: "category", Message: "must be one of the known categories"}
	}

	color := validation.Normalize(in.Color)
	if color == "" {
		color = model.DefaultColor
	}

	drafts := make([]model.StepDraft, len(in.Steps))
	for i, d := range in.Steps {
		stepTitle, err := validation.Optional(d.Title, model.MaxTitleLength)
		if err != nil {
			return nil, invalid("step title", err)
		}
		drafts[i] = model.StepDraft{Title: stepTitle, Completed: d.Completed}
	}

	now := s.now()
	start := now
	if in.StartDate != nil {
		start = in.StartDate.UTC()
	}

	goal := &model.Goal{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Category:    category,
		Color:       color,
		StartDate:   start,
		TargetDate:  utcPtr(in.TargetDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	goal.Steps = model.BuildSteps(goal.ID, drafts)

	return goal, nil
}

func validatePatch(p GoalPatch) (repository.GoalChanges, error) {
	changes := repository.GoalChanges{
		Category:        p.Category,
		TargetDate:      utcPtr(p.TargetDate),
		ClearTargetDate: p.ClearTargetDate,
	}

	if p.Title != nil {
		title, err := validation.Required(*p.Title, model.MaxTitleLength)
		if err != nil {
			return changes, invalid("title", err)
		}
		changes.Title = &title
	}

	if p.Description != nil {
		description, err := validation.Optional(*p.Description, model.MaxDescriptionLength)
		if err != nil {
			return changes, invalid("description", err)
		}
		changes.Description = &description
	}

	if p.Category != nil && !p.Category.Valid() {
		return changes, &ValidationError{Field: "category", Message: "must be one of the known categories"}
	}

	if p.Color != nil {
		color := validation.Normalize(*p.Color)
		if color == "" {
			color = model.DefaultColor
		}
		changes.Color = &color
	}

	return changes, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func observe(op string, err error) error {
	metrics.ObserveGoalOperation(op, outcome(err))
	return err
}
