package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shop-platform/internal/model"
	"shop-platform/pkg/apierror"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
	byName map[string]int64
	shops  map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[int64]model.User{},
		byName: map[string]int64{},
		shops:  map[string]int64{},
	}
}

func (m *memStore) FindByID(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[username]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return m.users[id], nil
}

func (m *memStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byName[username]
	return ok, nil
}

func (m *memStore) ShopNameExists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.shops[name]
	return ok, nil
}

func (m *memStore) CreateWithShops(_ context.Context, username string, passwordHash string, shopNames []string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// All-or-nothing, like the unique constraints inside the real
	// transaction.
	if _, taken := m.byName[username]; taken {
		return model.User{}, apierror.New("CONFLICT", "username already exists", "", http.StatusConflict)
	}
	for _, name := range shopNames {
		if _, taken := m.shops[name]; taken {
			return model.User{}, apierror.New("CONFLICT", "shop name already exists", "", http.StatusConflict)
		}
	}

	m.nextID++
	now := time.Now().UTC()
	u := model.User{ID: m.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	m.byName[username] = u.ID
	for _, name := range shopNames {
		m.shops[name] = u.ID
	}
	return u, nil
}

func (m *memStore) ShopNamesForUser(_ context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0)
	for name, owner := range m.shops {
		if owner == userID {
			names = append(names, name)
		}
	}
	return names, nil
}

func (m *memStore) delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return
	}
	delete(m.users, id)
	delete(m.byName, u.Username)
}

func newTestService(t *testing.T, store UserStore) *AuthService {
	t.Helper()

	svc, err := NewAuthService(store, "test-secret", 24*time.Hour, 30*time.Minute, 168*time.Hour, 4, 8, 3)
	require.NoError(t, err)
	return svc
}

func validSignup() model.SignupRequest {
	return model.SignupRequest{
		Username:  "alice",
		Password:  "Secret1!",
		ShopNames: []string{"a", "b", "c"},
	}
}

func TestSignupIssuesTokenForCreatedUser(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	result, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, "alice", result.User.Username)
	require.NotZero(t, result.User.ID)

	// The issued token resolves back to the created identity.
	user, err := svc.ValidateToken(context.Background(), result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, user.ID)
	require.Equal(t, "alice", user.Username)

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, profile.Shops)
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t, newMemStore())

	cases := []struct {
		name string
		req  model.SignupRequest
	}{
		{"missing username", model.SignupRequest{Password: "Secret1!", ShopNames: []string{"a", "b", "c"}}},
		{"short password", model.SignupRequest{Username: "bob", Password: "S1!", ShopNames: []string{"a", "b", "c"}}},
		{"no digit or special char", model.SignupRequest{Username: "bob", Password: "passwordpass", ShopNames: []string{"a", "b", "c"}}},
		{"too few shops", model.SignupRequest{Username: "bob", Password: "Secret1!", ShopNames: []string{"a", "b"}}},
		{"duplicate shop names", model.SignupRequest{Username: "bob", Password: "Secret1!", ShopNames: []string{"a", "a", "b"}}},
		{"blank shops do not count", model.SignupRequest{Username: "bob", Password: "Secret1!", ShopNames: []string{"a", "b", "  "}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.req)
			require.Error(t, err)

			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
			require.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		})
	}
}

func TestSignupConflicts(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		req := validSignup()
		req.ShopNames = []string{"x", "y", "z"}
		_, err := svc.Signup(context.Background(), req)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.HTTPStatus)
	})

	t.Run("duplicate shop name", func(t *testing.T) {
		req := model.SignupRequest{
			Username:  "mallory",
			Password:  "Secret1!",
			ShopNames: []string{"b", "y", "z"},
		}
		_, err := svc.Signup(context.Background(), req)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusConflict, apiErr.HTTPStatus)

		// Nothing persisted for the rejected signup.
		exists, err := store.ExistsByUsername(context.Background(), "mallory")
		require.NoError(t, err)
		require.False(t, exists)
		taken, err := store.ShopNameExists(context.Background(), "y")
		require.NoError(t, err)
		require.False(t, taken)
	})

	t.Run("shop name match is case sensitive", func(t *testing.T) {
		req := model.SignupRequest{
			Username:  "carol",
			Password:  "Secret1!",
			ShopNames: []string{"B", "y2", "z2"},
		}
		_, err := svc.Signup(context.Background(), req)
		require.NoError(t, err)
	})
}

func TestLoginLifetimes(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	short, err := svc.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "Secret1!"})
	require.NoError(t, err)
	require.Equal(t, int64((30 * time.Minute).Seconds()), short.ExpiresIn)

	long, err := svc.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "Secret1!", RememberMe: true})
	require.NoError(t, err)
	require.Equal(t, int64((168 * time.Hour).Seconds()), long.ExpiresIn)
	require.Greater(t, long.ExpiresIn, short.ExpiresIn)
}

func TestLoginFailures(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(context.Background(), model.LoginRequest{Username: "nobody", Password: "Secret1!"})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
		require.Equal(t, "User not found", apiErr.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "Wrong1!x"})

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
		require.Equal(t, "Incorrect password", apiErr.Message)
	})
}

func TestValidateTokenRejections(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	signup, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken(context.Background(), "not-a-token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewAuthService(store, "other-secret", time.Hour, time.Hour, 2*time.Hour, 4, 8, 3)
		require.NoError(t, err)

		_, err = other.ValidateToken(context.Background(), signup.AccessToken)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expiring, err := NewAuthService(store, "test-secret", time.Hour, time.Nanosecond, time.Hour, 4, 8, 3)
		require.NoError(t, err)

		result, err := expiring.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "Secret1!"})
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = expiring.ValidateToken(context.Background(), result.AccessToken)
		require.Error(t, err)
	})

	t.Run("deleted user", func(t *testing.T) {
		store.delete(signup.User.ID)
		_, err := svc.ValidateToken(context.Background(), signup.AccessToken)

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	})
}
