package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapRoleCache struct {
	roles     map[string]string
	err       error
	forgotten []string
}

func newMapRoleCache() *mapRoleCache {
	return &mapRoleCache{roles: make(map[string]string)}
}

func (c *mapRoleCache) Lookup(ctx context.Context, email string) (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	role, ok := c.roles[email]
	return role, ok, nil
}

func (c *mapRoleCache) Remember(ctx context.Context, email, role string) error {
	if c.err != nil {
		return c.err
	}
	c.roles[email] = role
	return nil
}

func (c *mapRoleCache) Forget(ctx context.Context, email string) error {
	c.forgotten = append(c.forgotten, email)
	delete(c.roles, email)
	return c.err
}

// promotingUserStore returns the user as read before a promotion that
// lands while the lookup is in flight.
type promotingUserStore struct {
	store.UserStore
	promote func()
}

func (s promotingUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.UserStore.FindUserByEmail(ctx, email)
	if s.promote != nil {
		s.promote()
	}
	return u, err
}

type brokenUserStore struct {
	store.UserStore
}

func (brokenUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errors.New("server selection timeout")
}

func TestRoleService_UnknownUserIsNotAdmin(t *testing.T) {
	roles := NewRoleService(store.NewMemoryStore(), nil, zap.NewNop())

	isAdmin, err := roles.IsAdmin(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestRoleService_PromoteMakesAdmin(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_, err := st.UpsertUser(ctx, "a@x.com", models.UserProfile{Name: "Ana"})
	require.NoError(t, err)

	cache := newMapRoleCache()
	roles := NewRoleService(st, cache, zap.NewNop())

	isAdmin, err := roles.IsAdmin(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)
	assert.NotContains(t, cache.roles, "a@x.com")

	res, err := roles.Promote(ctx, "a@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.Equal(t, []string{"a@x.com"}, cache.forgotten)

	isAdmin, err = roles.IsAdmin(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestRoleService_PromoteUnknownIsNoop(t *testing.T) {
	st := store.NewMemoryStore()
	roles := NewRoleService(st, nil, zap.NewNop())

	res, err := roles.Promote(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.Zero(t, res.MatchedCount)

	users, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRoleService_CacheHitSkipsStore(t *testing.T) {
	cache := newMapRoleCache()
	cache.roles["boss@x.com"] = models.RoleAdmin
	roles := NewRoleService(brokenUserStore{}, cache, zap.NewNop())

	isAdmin, err := roles.IsAdmin(context.Background(), "boss@x.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestRoleService_BrokenCacheFallsBackToStore(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_, err := st.UpsertUser(ctx, "boss@x.com", models.UserProfile{})
	require.NoError(t, err)
	_, err = st.SetRole(ctx, "boss@x.com", models.RoleAdmin)
	require.NoError(t, err)

	cache := newMapRoleCache()
	cache.err = errors.New("redis down")
	roles := NewRoleService(st, cache, zap.NewNop())

	isAdmin, err := roles.IsAdmin(ctx, "boss@x.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestRoleService_StoreErrorIsReturned(t *testing.T) {
	roles := NewRoleService(brokenUserStore{}, nil, zap.NewNop())

	_, err := roles.IsAdmin(context.Background(), "a@x.com")
	assert.Error(t, err)
}

func TestRoleService_PromoteDuringLookupIsNotShadowed(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_, err := st.UpsertUser(ctx, "a@x.com", models.UserProfile{Name: "Ana"})
	require.NoError(t, err)

	cache := newMapRoleCache()
	promoter := NewRoleService(st, cache, zap.NewNop())
	racing := NewRoleService(promotingUserStore{
		UserStore: st,
		promote: func() {
			_, err := promoter.Promote(ctx, "a@x.com")
			require.NoError(t, err)
		},
	}, cache, zap.NewNop())

	// The in-flight lookup still sees the old role.
	isAdmin, err := racing.IsAdmin(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isAdmin, err = promoter.IsAdmin(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)
	assert.Equal(t, models.RoleAdmin, cache.roles["a@x.com"])
}
