// Package policy holds the role and permission decision logic of the
// store. Every function here is pure: it operates on the role and
// ownership facts it is handed and performs no persistence. Services
// resolve entities first (a missing target is a NotFound outcome, not
// a policy denial) and apply whatever mutation a decision authorizes
// as a single unit of work.
package policy

import (
	"sort"
	"strings"

	"shopkeep/internal/models"
)

// RoleSet is the set of role names granted to an actor.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from role names.
func NewRoleSet(roles ...string) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether the set contains role.
func (s RoleSet) Has(role string) bool {
	_, ok := s[role]
	return ok
}

// Names returns the role names in sorted order.
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(s))
	for r := range s {
		names = append(names, r)
	}
	sort.Strings(names)
	return names
}

// Actor is the authenticated caller of an action. The zero Actor is
// anonymous: no identity, no roles.
type Actor struct {
	UserID string
	Roles  RoleSet
}

// Anonymous reports whether the actor carries no identity.
func (a Actor) Anonymous() bool {
	return a.UserID == ""
}

// IsAdmin reports whether the actor holds the Admin role.
func (a Actor) IsAdmin() bool {
	return a.Roles.Has(models.RoleAdmin)
}

// IsModerator reports whether the actor may see and work on
// non-approved listings.
func (a Actor) IsModerator() bool {
	return a.Roles.Has(models.RoleAdmin) || a.Roles.Has(models.RoleEditor)
}

// CanEditProduct reports whether the actor may edit the product:
// any Admin, or the Editor who proposed it.
func CanEditProduct(actor Actor, product *models.Product) bool {
	if actor.IsAdmin() {
		return true
	}
	if !actor.Roles.Has(models.RoleEditor) {
		return false
	}
	return product.ProposedByUserID != nil && *product.ProposedByUserID == actor.UserID
}

// CanDeleteProduct reports whether the actor may delete the product.
// Deletion follows the same ownership rule as editing.
func CanDeleteProduct(actor Actor, product *models.Product) bool {
	return CanEditProduct(actor, product)
}

// CanSeeProduct reports whether the actor may see the product.
// Approved listings are public; moderators see everything, including
// other proposers' pending and rejected work.
func CanSeeProduct(actor Actor, product *models.Product) bool {
	if product.Status == models.StatusApproved {
		return true
	}
	return actor.IsModerator()
}

// RoleTarget carries the facts about the user whose roles are being
// edited.
type RoleTarget struct {
	UserID       string
	Email        string
	CurrentRoles RoleSet
	IsSuperAdmin bool
}

// RoleChange is the delta PlanRoleChange computed. KeptBaselineRole is
// set when the caller attempted to drop the mandatory User role and it
// was silently re-added.
type RoleChange struct {
	Added            []string
	Removed          []string
	Final            []string
	KeptBaselineRole bool
}

// PlanRoleChange validates a requested role set against the acting
// admin and target, and computes the grants to add and remove. Rules,
// in order: the baseline User role is force-added if missing; every
// requested role must exist in the vocabulary; the super admin can
// never lose Admin; an admin cannot remove Admin from themselves.
func PlanRoleChange(actingAdminID string, target RoleTarget, requested []string) (RoleChange, error) {
	var change RoleChange

	want := NewRoleSet(requested...)
	if target.CurrentRoles.Has(models.RoleUser) && !want.Has(models.RoleUser) {
		change.KeptBaselineRole = true
	}
	want[models.RoleUser] = struct{}{}

	for _, r := range requested {
		if !models.ValidRole(r) {
			return RoleChange{}, models.ErrInvalidRole
		}
	}

	removingAdmin := target.CurrentRoles.Has(models.RoleAdmin) && !want.Has(models.RoleAdmin)
	if removingAdmin && target.IsSuperAdmin {
		return RoleChange{}, models.ErrSuperAdminProtected
	}
	if removingAdmin && target.UserID == actingAdminID {
		return RoleChange{}, models.ErrSelfDemotionForbidden
	}

	for r := range want {
		if !target.CurrentRoles.Has(r) {
			change.Added = append(change.Added, r)
		}
	}
	for r := range target.CurrentRoles {
		if !want.Has(r) {
			change.Removed = append(change.Removed, r)
		}
	}
	sort.Strings(change.Added)
	sort.Strings(change.Removed)
	change.Final = want.Names()
	return change, nil
}

// CanLock decides whether the acting admin may toggle the lock state
// of the target. Locking yourself out is never allowed. A nil return
// means allowed.
func CanLock(actingAdminID, targetUserID string) error {
	if actingAdminID == targetUserID {
		return models.ErrSelfLockoutForbidden
	}
	return nil
}

// CanDelete decides whether the acting admin may delete the target
// account. Self-deletion is never allowed, and neither is deleting
// the sole remaining Admin.
func CanDelete(actingAdminID string, target RoleTarget, targetIsLastAdmin bool) error {
	if actingAdminID == target.UserID {
		return models.ErrSelfDeleteForbidden
	}
	if target.CurrentRoles.Has(models.RoleAdmin) && targetIsLastAdmin {
		return models.ErrLastAdminProtected
	}
	return nil
}

// IsSuperAdmin reports whether email identifies the configured
// protected account. Comparison is case-insensitive.
func IsSuperAdmin(email, superAdminEmail string) bool {
	return superAdminEmail != "" && strings.EqualFold(email, superAdminEmail)
}
