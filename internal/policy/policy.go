// Package policy resolves authorization decisions as pure functions over the
// requester and the target resource, with no request or database machinery.
package policy

import "socialconnect/internal/models"

// Requester identifies who is making a request. A zero Requester is
// anonymous.
type Requester struct {
	ID            uint
	Authenticated bool
	IsAdmin       bool
}

// Decision is the outcome of a visibility check.
type Decision int

const (
	// Allow grants access.
	Allow Decision = iota
	// DenyUnauthenticated means the requester must log in first.
	DenyUnauthenticated
	// DenyForbidden means the requester is known but not allowed.
	DenyForbidden
)

// CanViewProfile resolves whether the requester may read the profile of
// ownerID with the given privacy mode. isFollower reports whether a Follow
// row (follower = requester, following = owner) exists; it is only consulted
// for followers-only profiles. Admins bypass every rule, then the owner,
// then the privacy mode.
func CanViewProfile(r Requester, ownerID uint, privacy models.Privacy, isFollower bool) Decision {
	if r.Authenticated && r.IsAdmin {
		return Allow
	}
	if privacy == models.PrivacyPublic {
		return Allow
	}
	if !r.Authenticated {
		return DenyUnauthenticated
	}
	if r.ID == ownerID {
		return Allow
	}
	if privacy == models.PrivacyFollowers && isFollower {
		return Allow
	}
	return DenyForbidden
}

// CanModify resolves whether the requester may mutate a resource owned by
// ownerID. Only the owner and admins may; reads are not restricted by this
// policy.
func CanModify(r Requester, ownerID uint) bool {
	if !r.Authenticated {
		return false
	}
	return r.IsAdmin || r.ID == ownerID
}

// CanSearchProfiles resolves whether the requester may run a profile search
// with the given query. Admins may list everything; everyone else must
// provide a query and only sees profiles visible to them.
func CanSearchProfiles(r Requester, query string) Decision {
	if r.Authenticated && r.IsAdmin {
		return Allow
	}
	if query == "" {
		return DenyForbidden
	}
	return Allow
}
