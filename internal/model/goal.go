package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/myprogress/internal/progress"
)

type Category string

const (
	CategoryHealth   Category = "sante"
	CategoryLearning Category = "apprentissage"
	CategoryWork     Category = "travail"
	CategoryPersonal Category = "personnel"
	CategoryLeisure  Category = "loisirs"
)

var Categories = []Category{
	CategoryHealth,
	CategoryLearning,
	CategoryWork,
	CategoryPersonal,
	CategoryLeisure,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	DefaultCategory = CategoryPersonal
	DefaultColor    = "#3B82F6"

	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Goal is the aggregate root. Steps are owned by the goal and never exist
// outside of it; IsCompleted is derived from them on every write.
type Goal struct {
	ID          string     `db:"id" json:"_id"`
	OwnerID     string     `db:"owner_id" json:"createdBy"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Category    Category   `db:"category" json:"category"`
	Color       string     `db:"color" json:"color"`
	StartDate   time.Time  `db:"start_date" json:"startDate"`
	TargetDate  *time.Time `db:"target_date" json:"targetDate,omitempty"`
	IsCompleted bool       `db:"is_completed" json:"isCompleted"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	Steps []Step `db:"-" json:"steps"`
}

type Step struct {
	ID        string `db:"id" json:"_id"`
	GoalID    string `db:"goal_id" json:"-"`
	Title     string `db:"title" json:"title"`
	Completed bool   `db:"completed" json:"completed"`
	Order     int    `db:"position" json:"order"`
}

func (s Step) Done() bool {
	return s.Completed
}

// StepDraft is a caller-supplied step before it joins a goal.
type StepDraft struct {
	Title     string
	Completed bool
}

// BuildSteps turns drafts into the goal's step sequence. Drafts with a blank
// title are dropped and the remaining steps are numbered from 0 without gaps.
func BuildSteps(goalID string, drafts []StepDraft) []Step {
	steps := make([]Step, 0, len(drafts))
	for _, d := range drafts {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			continue
		}
		steps = append(steps, Step{
			ID:        uuid.New().String(),
			GoalID:    goalID,
			Title:     title,
			Completed: d.Completed,
			Order:     len(steps),
		})
	}
	return steps
}

// Step returns the step with the given id, or nil.
func (g *Goal) Step(id string) *Step {
	for i := range g.Steps {
		if g.Steps[i].ID == id {
			return &g.Steps[i]
		}
	}
	return nil
}

func (g *Goal) Progress() int {
	return progress.Percent(g.Steps)
}

// RefreshCompletion recomputes IsCompleted from the current steps.
// Stores call it before every write of the aggregate.
func (g *Goal) RefreshCompletion() {
	g.IsCompleted = progress.IsCompleted(g.Steps)
}
