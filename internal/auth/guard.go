// Package auth resolves the bearer token on a request to the user it was
// issued for.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/templui/myprogress/internal/model"
	"github.com/templui/myprogress/internal/repository"
)

type Kind int

const (
	MissingCredential Kind = iota + 1
	InvalidOrExpiredToken
	UnknownSubject
)

func (k Kind) String() string {
	switch k {
	case MissingCredential:
		return "missing_credential"
	case InvalidOrExpiredToken:
		return "invalid_or_expired_token"
	case UnknownSubject:
		return "unknown_subject"
	default:
		return "unknown"
	}
}

// Error is a rejected authentication. Callers outside the process only ever
// see "unauthorized"; Kind is for logs and tests.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an authentication error of kind k.
func IsKind(err error, k Kind) bool {
	var authErr *Error
	return errors.As(err, &authErr) && authErr.Kind == k
}

// TokenVerifier checks a token's signature and expiry and returns the user id
// it carries.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type SubjectLookup interface {
	ByID(ctx context.Context, id string) (*model.User, error)
}

type Guard struct {
	verifier TokenVerifier
	subjects SubjectLookup
}

func NewGuard(verifier TokenVerifier, subjects SubjectLookup) *Guard {
	return &Guard{verifier: verifier, subjects: subjects}
}

// Authenticate resolves an Authorization header value to a user stripped of
// credential material.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (*model.User, error) {
	raw := BearerToken(authorization)
	if raw == "" {
		return nil, &Error{Kind: MissingCredential}
	}

	userID, err := g.verifier.Verify(raw)
	if err != nil {
		return nil, &Error{Kind: InvalidOrExpiredToken, Err: err}
	}

	user, err := g.subjects.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, &Error{Kind: UnknownSubject, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	return user.Public(), nil
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively; anything else yields "".
func BearerToken(authorization string) string {
	scheme, value, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}
