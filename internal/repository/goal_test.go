package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/myprogress/internal/db/dbtest"
	"github.com/templui/myprogress/internal/model"
)

func newUser(t *testing.T, users UserRepository, email string) *model.User {
	t.Helper()
	u := &model.User{
		ID:        uuid.New().String(),
		Username:  email,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func newGoal(title string, steps ...string) *model.Goal {
	now := time.Now().UTC()
	g := &model.Goal{
		ID:        uuid.New().String(),
		Title:     title,
		Category:  model.DefaultCategory,
		Color:     model.DefaultColor,
		StartDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	drafts := make([]model.StepDraft, len(steps))
	for i, s := range steps {
		drafts[i] = model.StepDraft{Title: s}
	}
	g.Steps = model.BuildSteps(g.ID, drafts)
	return g
}

func setup(t *testing.T) (*sqlx.DB, GoalRepository, *model.User, *model.User) {
	database := dbtest.New(t)
	users := NewUserRepository(database)
	return database, NewGoalRepository(database), newUser(t, users, "ana@example.com"), newUser(t, users, "bo@example.com")
}

func TestGoalCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	_, repo, ana, _ := setup(t)

	g := newGoal("Learn guitar", "Buy a guitar", "Learn chords")
	g.OwnerID = "someone-else"
	require.NoError(t, repo.ForOwner(ana.ID).Create(ctx, g))
	assert.Equal(t, ana.ID, g.OwnerID, "owner comes from the scope, not the caller")

	got, err := repo.ForOwner(ana.ID).ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learn guitar", got.Title)
	assert.Equal(t, ana.ID, got.OwnerID)
	assert.False(t, got.IsCompleted)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, "Buy a guitar", got.Steps[0].Title)
	assert.Equal(t, 0, got.Steps[0].Order)
	assert.Equal(t, "Learn chords", got.Steps[1].Title)
	assert.Equal(t, 1, got.Steps[1].Order)
	assert.Nil(t, got.TargetDate)
}

func TestGoalsAreScopedAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	_, repo, ana, bo := setup(t)

	older := newGoal("older", "x")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newGoal("newer")
	foreign := newGoal("foreign", "y")

	require.NoError(t, repo.ForOwner(ana.ID).Create(ctx, older))
	require.NoError(t, repo.ForOwner(ana.ID).Create(ctx, newer))
	require.NoError(t, repo.ForOwner(bo.ID).Create(ctx, foreign))

	goals, err := repo.ForOwner(ana.ID).Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "newer", goals[0].Title)
	assert.Empty(t, goals[0].Steps)
	assert.NotNil(t, goals[0].Steps)
	assert.Equal(t, "older", goals[1].Title)
	require.Len(t, goals[1].Steps, 1)

	_, err = repo.ForOwner(bo.ID).ByID(ctx, older.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalToggleStepDerivesCompletion(t *testing.T) {
	ctx := context.Background()
	_, repo, ana, _ := setup(t)
	goals := repo.ForOwner(ana.ID)

	g := newGoal("g", "one", "two")
	require.NoError(t, goals.Create(ctx, g))

	got, err := goals.ToggleStep(ctx, g.ID, g.Steps[0].ID)
	require.NoError(t, err)
	assert.True(t, got.Steps[0].Completed)
	assert.False(t, got.IsCompleted)

	got, err = goals.ToggleStep(ctx, g.ID, g.Steps[1].ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	stored, err := goals.ByID(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted, "completion flag must be persisted")

	got, err = goals.ToggleStep(ctx, g.ID, g.Steps[1].ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)

	_, err = goals.ToggleStep(ctx, g.ID, "missing")
	assert.ErrorIs(t, err, ErrStepNotFound)

	_, err = goals.ToggleStep(ctx, "missing", g.Steps[0].ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalToggleStepConcurrent(t *testing.T) {
	ctx := context.Background()
	_, repo, ana, _ := setup(t)

	g := newGoal("g", "only")
	require.NoError(t, repo.ForOwner(ana.ID).Create(ctx, g))

	const toggles = 9
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ForOwner(ana.ID).ToggleStep(ctx, g.ID, g.Steps[0].ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.ForOwner(ana.ID).ByID(ctx, g.ID)
	require.NoError(t, err)
	// An odd number of flips applied one after another leaves the step done.
	assert.True(t, got.Steps[0].Completed)
	assert.True(t, got.IsCompleted)
}

func TestGoalUpdateTouchesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	_, repo, ana, bo := setup(t)
	goals := repo.ForOwner(ana.ID)

	g := newGoal("before", "step")
	g.Description = "keep me"
	require.NoError(t, goals.Create(ctx, g))

	title := "after"
	category := model.CategoryWork
	target := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	got, err := goals.Update(ctx, g.ID, GoalChanges{Title: &title, Category: &category, TargetDate: &target})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, model.CategoryWork, got.Category)
	require.NotNil(t, got.TargetDate)
	assert.True(t, target.Equal(*got.TargetDate))
	require.Len(t, got.Steps, 1)

	got, err = goals.Update(ctx, g.ID, GoalChanges{ClearTargetDate: true})
	require.NoError(t, err)
	assert.Nil(t, got.TargetDate)

	_, err = repo.ForOwner(bo.ID).Update(ctx, g.ID, GoalChanges{Title: &title})
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalDelete(t *testing.T) {
	ctx := context.Background()
	database, repo, ana, bo := setup(t)

	g := newGoal("g", "one", "two")
	require.NoError(t, repo.ForOwner(ana.ID).Create(ctx, g))

	err := repo.ForOwner(bo.ID).Delete(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)

	require.NoError(t, repo.ForOwner(ana.ID).Delete(ctx, g.ID))

	_, err = repo.ForOwner(ana.ID).ByID(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)

	var orphans int
	require.NoError(t, database.Get(&orphans, `SELECT COUNT(*) FROM goal_steps WHERE goal_id = $1`, g.ID))
	assert.Zero(t, orphans)

	err = repo.ForOwner(ana.ID).Delete(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	users := NewUserRepository(database)

	u := newUser(t, users, "ana@example.com")

	dup := &model.User{ID: uuid.New().String(), Username: "x", Email: "ana@example.com", CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, users.Create(ctx, dup), ErrDuplicateEmail)

	got, err := users.ByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.ByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, users.Delete(ctx, u.ID), ErrUserNotFound)
}

func TestGoalUpdateWithNoChangesWritesNothing(t *testing.T) {
	ctx := context.Background()
	_, repo, ana, bo := setup(t)
	goals := repo.ForOwner(ana.ID)

	g := newGoal("steady", "step")
	require.NoError(t, goals.Create(ctx, g))
	before, err := goals.ByID(ctx, g.ID)
	require.NoError(t, err)

	repo.(*goalRepository).now = func() time.Time { return before.UpdatedAt.Add(time.Hour) }

	got, err := goals.Update(ctx, g.ID, GoalChanges{})
	require.NoError(t, err)
	assert.Equal(t, "steady", got.Title)
	assert.True(t, before.UpdatedAt.Equal(got.UpdatedAt))
	require.Len(t, got.Steps, 1)

	_, err = repo.ForOwner(bo.ID).Update(ctx, g.ID, GoalChanges{})
	assert.ErrorIs(t, err, ErrGoalNotFound)
}
