package services

import (
	"fmt"
	"time"

	"shopkeep/internal/models"
	"shopkeep/internal/policy"
	"shopkeep/internal/repositories"
)

// AdminUserService handles account administration: role grants, lock
// toggling and account deletion. Every mutation is gated by the policy
// engine and applied as one unit of work.
type AdminUserService struct {
	userRepo        repositories.UserRepository
	uow             repositories.UnitOfWork
	superAdminEmail string
}

// NewAdminUserService creates a new AdminUserService. superAdminEmail
// identifies the protected account whose Admin role can never be
// revoked; it comes from configuration, not code.
func NewAdminUserService(userRepo repositories.UserRepository, uow repositories.UnitOfWork, superAdminEmail string) *AdminUserService {
	return &AdminUserService{
		userRepo:        userRepo,
		uow:             uow,
		superAdminEmail: superAdminEmail,
	}
}

// ListUsers retrieves every account with its role grants and lock state.
func (s *AdminUserService) ListUsers(actor policy.Actor) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	return s.userRepo.GetAll()
}

// roleTarget resolves the target account into the facts the policy
// engine decides over.
func (s *AdminUserService) roleTarget(targetID string) (*models.User, policy.RoleTarget, error) {
	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return nil, policy.RoleTarget{}, err
	}
	target := policy.RoleTarget{
		UserID:       user.ID,
		Email:        user.Email,
		CurrentRoles: policy.NewRoleSet(user.Roles...),
		IsSuperAdmin: policy.IsSuperAdmin(user.Email, s.superAdminEmail),
	}
	return user, target, nil
}

// ChangeUserRoles applies a requested role set to the target account.
// The policy engine plans the delta (forcing the baseline User role
// and protecting the super admin and the acting admin's own grant);
// the add and remove are then committed as one unit of work.
func (s *AdminUserService) ChangeUserRoles(actor policy.Actor, targetID string, requested []string) (policy.RoleChange, error) {
	if !actor.IsAdmin() {
		return policy.RoleChange{}, models.ErrForbidden
	}

	_, target, err := s.roleTarget(targetID)
	if err != nil {
		return policy.RoleChange{}, err
	}

	change, err := policy.PlanRoleChange(actor.UserID, target, requested)
	if err != nil {
		return policy.RoleChange{}, err
	}

	err = s.uow.Do(func(r repositories.Repos) error {
		if err := r.Users.RemoveRoles(targetID, change.Removed); err != nil {
			return err
		}
		return r.Users.AddRoles(targetID, change.Added)
	})
	if err != nil {
		return policy.RoleChange{}, fmt.Errorf("failed to apply role change: %w", err)
	}
	return change, nil
}

// ToggleLock flips the lock state of the target account: locking sets
// an expiry far in the future, unlocking clears it. Returns the new
// locked state.
func (s *AdminUserService) ToggleLock(actor policy.Actor, targetID string) (bool, error) {
	if !actor.IsAdmin() {
		return false, models.ErrForbidden
	}

	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		return false, err
	}

	if err := policy.CanLock(actor.UserID, user.ID); err != nil {
		return false, err
	}

	if user.Locked() {
		user.LockedUntil = nil
	} else {
		until := time.Now().AddDate(100, 0, 0)
		user.LockedUntil = &until
	}

	if err := s.userRepo.Update(user); err != nil {
		return false, fmt.Errorf("failed to toggle lock: %w", err)
	}
	return user.Locked(), nil
}

// DeleteUser removes the target account, refusing self-deletion and
// deletion of the sole remaining Admin.
func (s *AdminUserService) DeleteUser(actor policy.Actor, targetID string) error {
	if !actor.IsAdmin() {
		return models.ErrForbidden
	}

	_, target, err := s.roleTarget(targetID)
	if err != nil {
		return err
	}

	isLastAdmin := false
	if target.CurrentRoles.Has(models.RoleAdmin) {
		count, err := s.userRepo.CountAdmins()
		if err != nil {
			return err
		}
		isLastAdmin = count <= 1
	}

	if err := policy.CanDelete(actor.UserID, target, isLastAdmin); err != nil {
		return err
	}

	return s.userRepo.Delete(targetID)
}
