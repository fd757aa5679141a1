// Package service implements the business logic between HTTP handlers and
// the repositories. Authorization decisions are delegated to the policy
// package; services resolve the requester and map decisions onto errors.
package service

import (
	"context"
	"time"

	"socialconnect/internal/policy"
)

// AdminChecker reports whether a user has admin rights. Services take it as
// a function so tests can stub it without a user repository.
type AdminChecker func(ctx context.Context, userID uint) (bool, error)

// defaultUploadTimeout bounds media uploads when no timeout is configured.
const defaultUploadTimeout = 30 * time.Second

// resolveRequester builds the policy view of the caller. A zero userID is an
// anonymous requester.
func resolveRequester(ctx context.Context, userID uint, isAdmin AdminChecker) (policy.Requester, error) {
	if userID == 0 {
		return policy.Requester{}, nil
	}
	r := policy.Requester{ID: userID, Authenticated: true}
	if isAdmin != nil {
		admin, err := isAdmin(ctx, userID)
		if err != nil {
			return policy.Requester{}, err
		}
		r.IsAdmin = admin
	}
	return r, nil
}

// uploadContext derives a context that bounds how long a media upload may
// take, independent of the surrounding request deadline.
func uploadContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
