package access

import (
	"errors"
	"net/http"

	"foodgram/internal/domain"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrMethodNotAllowed       = errors.New("method not allowed")
)

// Identity is the resolved caller of a request. The zero value is anonymous.
type Identity struct {
	ID            int64
	Role          domain.UserRole
	Authenticated bool
}

func (id Identity) IsStaff() bool {
	return id.Authenticated && id.Role == domain.RoleAdmin
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Policy decides whether a caller may perform a method. Permit applies at the
// list/create level, before any target object is resolved; PermitObject
// applies once the target and its author are known.
type Policy interface {
	Permit(id Identity, method string) error
	PermitObject(id Identity, method string, authorID int64) error
}

// AdminOnly permits authenticated staff and nobody else.
type AdminOnly struct{}

func (AdminOnly) Permit(id Identity, method string) error {
	if !id.Authenticated {
		return ErrAuthenticationRequired
	}
	if !id.IsStaff() {
		return ErrPermissionDenied
	}
	return nil
}

func (p AdminOnly) PermitObject(id Identity, method string, authorID int64) error {
	return p.Permit(id, method)
}

// AdminOrReadOnly permits read methods unconditionally; mutating methods by
// non-staff are not merely forbidden but not allowed at all.
type AdminOrReadOnly struct{}

func (AdminOrReadOnly) Permit(id Identity, method string) error {
	if safeMethod(method) || id.IsStaff() {
		return nil
	}
	return ErrMethodNotAllowed
}

func (p AdminOrReadOnly) PermitObject(id Identity, method string, authorID int64) error {
	return p.Permit(id, method)
}

// SafeOrAuthor lets anyone read; mutating requires authentication up front
// and authorship once the object is resolved.
type SafeOrAuthor struct{}

func (SafeOrAuthor) Permit(id Identity, method string) error {
	if safeMethod(method) {
		return nil
	}
	if !id.Authenticated {
		return ErrAuthenticationRequired
	}
	return nil
}

func (SafeOrAuthor) PermitObject(id Identity, method string, authorID int64) error {
	if safeMethod(method) {
		return nil
	}
	if !id.Authenticated {
		return ErrAuthenticationRequired
	}
	if id.ID != authorID {
		return ErrPermissionDenied
	}
	return nil
}

// SafeOrAuthorOrAdminOrModerator extends SafeOrAuthor so staff may mutate
// any object.
type SafeOrAuthorOrAdminOrModerator struct{}

func (SafeOrAuthorOrAdminOrModerator) Permit(id Identity, method string) error {
	if safeMethod(method) {
		return nil
	}
	if !id.Authenticated {
		return ErrAuthenticationRequired
	}
	return nil
}

func (SafeOrAuthorOrAdminOrModerator) PermitObject(id Identity, method string, authorID int64) error {
	if safeMethod(method) {
		return nil
	}
	if !id.Authenticated {
		return ErrAuthenticationRequired
	}
	if id.ID == authorID || id.IsStaff() {
		return nil
	}
	return ErrPermissionDenied
}

// AnyOf composes policies with logical OR: the request passes if any member
// permits it. The first member's error is reported when all deny, so route
// registration should list the most specific policy first.
type AnyOf []Policy

func (p AnyOf) Permit(id Identity, method string) error {
	var first error
	for _, member := range p {
		err := member.Permit(id, method)
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	return first
}

func (p AnyOf) PermitObject(id Identity, method string, authorID int64) error {
	var first error
	for _, member := range p {
		err := member.PermitObject(id, method, authorID)
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	return first
}
