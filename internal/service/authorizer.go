package service

import (
	"github.com/Payphone-Digital/clinic-admin/internal/constants"
	"github.com/Payphone-Digital/clinic-admin/internal/dto"
	apperrors "github.com/Payphone-Digital/clinic-admin/internal/errors"
)

// Authorize fails with ErrForbidden unless the caller holds one of allowed
func Authorize(caller *Caller, allowed ...constants.Role) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}
	if !caller.Is(allowed...) {
		return apperrors.ErrForbidden
	}
	return nil
}

// ForbidSelf rejects administrative actions aimed at the caller's own account
func ForbidSelf(caller *Caller, targetID string) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}
	if caller.ID == targetID {
		return apperrors.ErrSelfActionNotAllowed
	}
	return nil
}

// AuthorizeOwnerOrAdmin lets an ADMIN through, or the owner of a resource
// when the caller holds ownerRole.
func AuthorizeOwnerOrAdmin(caller *Caller, ownerRole constants.Role, ownerID string) error {
	if caller == nil {
		return apperrors.ErrUnauthenticated
	}
	if caller.Role == constants.RoleAdmin {
		return nil
	}
	if caller.Role == ownerRole && caller.ID == ownerID {
		return nil
	}
	return apperrors.ErrForbidden
}

// RestrictToFields keeps only the self-editable columns. ADMIN edits pass through untouched.
func RestrictToFields(caller *Caller, changes dto.Changes, allowed map[string]struct{}) dto.Changes {
	if caller != nil && caller.Role == constants.RoleAdmin {
		return changes
	}
	return changes.Keep(allowed)
}

func fieldSet(fields ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
