package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/myprogress/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrStepNotFound = errors.New("step not found")
)

// GoalRepository hands out goal stores bound to a single owner. There is no
// unscoped access: every query a ScopedGoals runs carries the owner predicate.
type GoalRepository interface {
	ForOwner(ownerID string) ScopedGoals
}

type ScopedGoals interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	Goals(ctx context.Context) ([]*model.Goal, error)
	Update(ctx context.Context, goalID string, changes GoalChanges) (*model.Goal, error)
	ToggleStep(ctx context.Context, goalID, stepID string) (*model.Goal, error)
	Delete(ctx context.Context, goalID string) error
}

// GoalChanges lists the goal fields an update may touch. Nil means unchanged.
// Steps are deliberately absent.
type GoalChanges struct {
	Title           *string
	Description     *string
	Category        *model.Category
	Color           *string
	TargetDate      *time.Time
	ClearTargetDate bool
}

// Empty reports whether c changes nothing.
func (c GoalChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Category == nil &&
		c.Color == nil && c.TargetDate == nil && !c.ClearTargetDate
}

type goalRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *goalRepository) ForOwner(ownerID string) ScopedGoals {
	return &scopedGoals{goalRepository: r, ownerID: ownerID}
}

type scopedGoals struct {
	*goalRepository
	ownerID string
}

func (s *scopedGoals) Create(ctx context.Context, goal *model.Goal) error {
	goal.OwnerID = s.ownerID
	goal.RefreshCompletion()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO goals (id, owner_id, title, description, category, color, start_date, target_date, is_completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.ExecContext(ctx, query,
		goal.ID,
		goal.OwnerID,
		goal.Title,
		goal.Description,
		string(goal.Category),
		goal.Color,
		goal.StartDate,
		goal.TargetDate,
		goal.IsCompleted,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	stepQuery := `INSERT INTO goal_steps (id, goal_id, title, completed, position) VALUES ($1, $2, $3, $4, $5)`
	for _, step := range goal.Steps {
		_, err = tx.ExecContext(ctx, stepQuery, step.ID, goal.ID, step.Title, step.Completed, step.Order)
		if err != nil {
			return fmt.Errorf("failed to insert step %d: %w", step.Order, err)
		}
	}

	return tx.Commit()
}

func (s *scopedGoals) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	return s.load(ctx, s.db, goalID)
}

func (s *scopedGoals) Goals(ctx context.Context) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	err := s.db.SelectContext(ctx, &goals, query, s.ownerID)
	if err != nil {
		return nil, err
	}

	var steps []model.Step
	stepQuery := `SELECT s.* FROM goal_steps s
	              JOIN goals g ON g.id = s.goal_id
	              WHERE g.owner_id = $1
	              ORDER BY s.goal_id, s.position`

	err = s.db.SelectContext(ctx, &steps, stepQuery, s.ownerID)
	if err != nil {
		return nil, err
	}

	byGoal := make(map[string][]model.Step, len(goals))
	for _, step := range steps {
		byGoal[step.GoalID] = append(byGoal[step.GoalID], step)
	}
	for _, goal := range goals {
		goal.Steps = byGoal[goal.ID]
		if goal.Steps == nil {
			goal.Steps = []model.Step{}
		}
	}

	return goals, nil
}

func (s *scopedGoals) Update(ctx context.Context, goalID string, changes GoalChanges) (*model.Goal, error) {
	if changes.Empty() {
		return s.ByID(ctx, goalID)
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if changes.Title != nil {
		set("title", *changes.Title)
	}
	if changes.Description != nil {
		set("description", *changes.Description)
	}
	if changes.Category != nil {
		set("category", string(*changes.Category))
	}
	if changes.Color != nil {
		set("color", *changes.Color)
	}
	if changes.TargetDate != nil {
		set("target_date", *changes.TargetDate)
	} else if changes.ClearTargetDate {
		set("target_date", nil)
	}
	set("updated_at", s.now())

	args = append(args, goalID, s.ownerID)
	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = $%d AND owner_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = execOne(ctx, tx, ErrGoalNotFound, query, args...)
	if err != nil {
		return nil, err
	}

	goal, err := s.syncCompletion(ctx, tx, goalID)
	if err != nil {
		return nil, err
	}

	return goal, tx.Commit()
}

// ToggleStep flips one step inside a single transaction. The goal row is
// written first so concurrent toggles on the same goal queue behind each other,
// then the completion flag is recomputed from the steps as committed.
func (s *scopedGoals) ToggleStep(ctx context.Context, goalID, stepID string) (*model.Goal, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = execOne(ctx, tx, ErrGoalNotFound,
		`UPDATE goals SET updated_at = $1 WHERE id = $2 AND owner_id = $3`,
		s.now(), goalID, s.ownerID)
	if err != nil {
		return nil, err
	}

	err = execOne(ctx, tx, ErrStepNotFound,
		`UPDATE goal_steps SET completed = NOT completed WHERE id = $1 AND goal_id = $2`,
		stepID, goalID)
	if err != nil {
		return nil, err
	}

	goal, err := s.syncCompletion(ctx, tx, goalID)
	if err != nil {
		return nil, err
	}

	return goal, tx.Commit()
}

func (s *scopedGoals) Delete(ctx context.Context, goalID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = execOne(ctx, tx, ErrGoalNotFound,
		`DELETE FROM goals WHERE id = $1 AND owner_id = $2`, goalID, s.ownerID)
	if err != nil {
		return err
	}

	// Covers SQLite connections opened without foreign_keys enabled.
	_, err = tx.ExecContext(ctx, `DELETE FROM goal_steps WHERE goal_id = $1`, goalID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// syncCompletion reloads the goal within q and persists the completion flag
// derived from its steps.
func (s *scopedGoals) syncCompletion(ctx context.Context, q sqlx.ExtContext, goalID string) (*model.Goal, error) {
	goal, err := s.load(ctx, q, goalID)
	if err != nil {
		return nil, err
	}

	stored := goal.IsCompleted
	goal.RefreshCompletion()
	if goal.IsCompleted == stored {
		return goal, nil
	}

	_, err = q.ExecContext(ctx, `UPDATE goals SET is_completed = $1 WHERE id = $2 AND owner_id = $3`,
		goal.IsCompleted, goalID, s.ownerID)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *scopedGoals) load(ctx context.Context, q sqlx.QueryerContext, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND owner_id = $2`

	err := sqlx.GetContext(ctx, q, goal, query, goalID, s.ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	goal.Steps = []model.Step{}
	err = sqlx.SelectContext(ctx, q, &goal.Steps,
		`SELECT * FROM goal_steps WHERE goal_id = $1 ORDER BY position`, goalID)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// execOne runs a statement that must touch exactly one row and returns
// notFound when it touches none.
func execOne(ctx context.Context, q sqlx.ExecerContext, notFound error, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
