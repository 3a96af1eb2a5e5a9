// internal/app/lifecycle/errors.go
package lifecycle

import "errors"

// Expected, user-recoverable failure signals. Every precondition
// failure aborts the operation before any write is issued; conflicts
// detected inside the commit transaction surface as the same errors.
var (
	ErrAlreadyGrouped    = errors.New("user is already in a group")
	ErrNotInGroup        = errors.New("user is not a member of this group")
	ErrGroupNotFound     = errors.New("group not found")
	ErrGroupFull         = errors.New("group is already at full capacity")
	ErrAlreadyMember     = errors.New("user is already a member of this group")
	ErrDuplicateRequest  = errors.New("a pending request to this group already exists")
	ErrDuplicateInvite   = errors.New("a pending invite for this user already exists")
	ErrNotLeader         = errors.New("only the group leader may do this")
	ErrUserNotFound      = errors.New("user not found")
	ErrRequestNotFound   = errors.New("request not found")
	ErrRequestNotPending = errors.New("request is no longer pending")
	ErrNotYourRequest    = errors.New("request does not involve this user")
	ErrCannotRemoveSelf  = errors.New("leaders cannot remove themselves; leave the group instead")
	ErrInvalidCapacity   = errors.New("capacity must be at least 1")
	ErrInvalidName       = errors.New("group name is required")

	// ErrStoreUnavailable wraps infrastructure failures from the
	// membership store (network, contention). Callers may retry; the
	// engine never retries on its own.
	ErrStoreUnavailable = errors.New("membership store unavailable")
)

var domainErrors = []error{
	ErrAlreadyGrouped, ErrNotInGroup, ErrGroupNotFound, ErrGroupFull,
	ErrAlreadyMember, ErrDuplicateRequest, ErrDuplicateInvite, ErrNotLeader,
	ErrUserNotFound, ErrRequestNotFound, ErrRequestNotPending,
	ErrNotYourRequest, ErrCannotRemoveSelf, ErrInvalidCapacity, ErrInvalidName,
}

// IsDomainError reports whether err is one of the expected failure
// signals rather than an infrastructure problem.
func IsDomainError(err error) bool {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}
