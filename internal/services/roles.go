package services

import (
	"context"
	"errors"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
	"go.uber.org/zap"
)

// RoleService resolves and changes user roles. The cache is optional and a
// failing cache never fails the lookup.
type RoleService struct {
	users store.UserStore
	cache store.RoleCache
	log   *zap.Logger
}

func NewRoleService(users store.UserStore, cache store.RoleCache, log *zap.Logger) *RoleService {
	return &RoleService{users: users, cache: cache, log: log}
}

// IsAdmin reports whether email belongs to an admin. An unknown email is
// simply not an admin.
func (s *RoleService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if s.cache != nil {
		role, found, err := s.cache.Lookup(ctx, email)
		if err != nil {
			s.log.Warn("role cache lookup failed", zap.String("email", email), zap.Error(err))
		} else if found {
			return role == models.RoleAdmin, nil
		}
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Only admins are cached. A non-admin read can race with Promote and
	// would otherwise be written back after the eviction.
	if s.cache != nil && user.IsAdmin() {
		if err := s.cache.Remember(ctx, email, user.Role); err != nil {
			s.log.Warn("role cache write failed", zap.String("email", email), zap.Error(err))
		}
	}
	return user.IsAdmin(), nil
}

// Promote grants the admin role to an existing user. Unknown emails match
// nothing and are not created.
func (s *RoleService) Promote(ctx context.Context, email string) (store.UpsertResult, error) {
	res, err := s.users.SetRole(ctx, email, models.RoleAdmin)
	if err != nil {
		return store.UpsertResult{}, err
	}
	if s.cache != nil {
		if err := s.cache.Forget(ctx, email); err != nil {
			s.log.Warn("role cache eviction failed", zap.String("email", email), zap.Error(err))
		}
	}
	return res, nil
}
