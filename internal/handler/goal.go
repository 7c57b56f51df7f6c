package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/templui/myprogress/internal/ctxkeys"
	"github.com/templui/myprogress/internal/model"
	"github.com/templui/myprogress/internal/response"
	"github.com/templui/myprogress/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// date accepts RFC 3339 timestamps and plain YYYY-MM-DD dates, as sent by
// HTML date inputs. JSON null and "" decode to the zero value.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// ptr returns nil for an unset date.
func (d *date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

type stepRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type createGoalRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Color       string        `json:"color"`
	StartDate   *date         `json:"startDate"`
	TargetDate  *date         `json:"targetDate"`
	Steps       []stepRequest `json:"steps"`
}

// updateGoalRequest distinguishes an absent field from a present one.
// A present but empty targetDate clears it.
type updateGoalRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Color       *string         `json:"color"`
	TargetDate  json.RawMessage `json:"targetDate"`
}

func (req updateGoalRequest) patch() (service.GoalPatch, error) {
	p := service.GoalPatch{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	}

	if req.Category != nil {
		c := model.Category(*req.Category)
		p.Category = &c
	}

	if req.TargetDate != nil {
		var d date
		err := json.Unmarshal(req.TargetDate, &d)
		if err != nil {
			return p, err
		}
		p.TargetDate = d.ptr()
		p.ClearTargetDate = p.TargetDate == nil
	}

	return p, nil
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.List(r.Context(), user)
	if err != nil {
		writeError(w, r, err, "Failed to load goals")
		return
	}

	response.List(w, goals, len(goals))
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.Get(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "Failed to load goal")
		return
	}

	response.OK(w, "", goal)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	steps := make([]model.StepDraft, len(req.Steps))
	for i, s := range req.Steps {
		steps[i] = model.StepDraft{Title: s.Title, Completed: s.Completed}
	}

	goal, err := h.goalService.Create(r.Context(), user, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    model.Category(req.Category),
		Color:       req.Color,
		StartDate:   req.StartDate.ptr(),
		TargetDate:  req.TargetDate.ptr(),
		Steps:       steps,
	})
	if err != nil {
		writeError(w, r, err, "Failed to create goal")
		return
	}

	response.Created(w, "Goal created", goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch, err := req.patch()
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "targetDate is not a valid date")
		return
	}

	goal, err := h.goalService.Update(r.Context(), user, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err, "Failed to update goal")
		return
	}

	response.OK(w, "Goal updated", goal)
}

func (h *GoalHandler) ToggleStep(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ToggleStep(r.Context(), user, r.PathValue("id"), r.PathValue("stepId"))
	if err != nil {
		writeError(w, r, err, "Failed to update step")
		return
	}

	response.OK(w, "Step updated", goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "Failed to delete goal")
		return
	}

	response.OK(w, "Goal deleted", nil)
}
