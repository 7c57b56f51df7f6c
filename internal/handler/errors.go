package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/myprogress/internal/ctxkeys"
	"github.com/templui/myprogress/internal/response"
	"github.com/templui/myprogress/internal/service"
)

// maxBodyBytes caps request bodies; a goal with a full set of steps is far
// below this.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// writeError maps a service error onto a status code and envelope.
// Unexpected errors are logged with msg and returned as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var validationErr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrStepNotFound):
		response.Fail(w, http.StatusNotFound, "Step not found")
	case errors.Is(err, service.ErrNotFound):
		response.Fail(w, http.StatusNotFound, "Goal not found")
	case errors.As(err, &validationErr):
		response.Fail(w, http.StatusBadRequest, validationErr.Error())
	default:
		slog.Error(msg,
			"error", err,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		response.Internal(w, msg, err)
	}
}
