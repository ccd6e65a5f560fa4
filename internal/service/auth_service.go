package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shop-platform/internal/model"
	"shop-platform/pkg/apierror"
)

// TokenLifetime selects which configured TTL a token is issued with.
type TokenLifetime int

const (
	// LifetimeSignup is the fixed lifetime of the token issued at signup.
	LifetimeSignup TokenLifetime = iota
	// LifetimeSession is the short default applied at login.
	LifetimeSession
	// LifetimeRemembered is the extended lifetime for remember-me logins.
	LifetimeRemembered
)

// UserStore is the credential store surface the auth service depends on.
// Implemented by repository.UserRepository.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ShopNameExists(ctx context.Context, name string) (bool, error)
	CreateWithShops(ctx context.Context, username string, passwordHash string, shopNames []string) (model.User, error)
	ShopNamesForUser(ctx context.Context, userID int64) ([]string, error)
}

type AuthService struct {
	store          UserStore
	jwtSecret      []byte
	signupTTL      time.Duration
	sessionTTL     time.Duration
	rememberTTL    time.Duration
	bcryptCost     int
	minPasswordLen int
	minShops       int
}

func NewAuthService(store UserStore, jwtSecret string, signupTTL, sessionTTL, rememberTTL time.Duration, bcryptCost, minPasswordLen, minShops int) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &AuthService{
		store:          store,
		jwtSecret:      []byte(jwtSecret),
		signupTTL:      signupTTL,
		sessionTTL:     sessionTTL,
		rememberTTL:    rememberTTL,
		bcryptCost:     bcryptCost,
		minPasswordLen: minPasswordLen,
		minShops:       minShops,
	}, nil
}

// TTL reports the configured duration for a lifetime class.
func (s *AuthService) TTL(class TokenLifetime) time.Duration {
	switch class {
	case LifetimeRemembered:
		return s.rememberTTL
	case LifetimeSession:
		return s.sessionTTL
	default:
		return s.signupTTL
	}
}

// Signup creates the user with all requested shops atomically and issues a
// fixed-lifetime token. Pre-checks give precise conflict messages; the
// unique constraints inside CreateWithShops remain the source of truth for
// the check-then-act race.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	shopNames, err := validateSignup(username, req.Password, req.ShopNames, s.minPasswordLen, s.minShops)
	if err != nil {
		return model.AuthResponse{}, err
	}

	taken, err := s.store.ExistsByUsername(ctx, username)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if taken {
		return model.AuthResponse{}, apierror.New("CONFLICT", "Username already exists", "", http.StatusConflict)
	}

	for _, name := range shopNames {
		exists, err := s.store.ShopNameExists(ctx, name)
		if err != nil {
			return model.AuthResponse{}, err
		}
		if exists {
			return model.AuthResponse{}, apierror.New("CONFLICT", fmt.Sprintf("Shop name %q already exists", name), "", http.StatusConflict)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateWithShops(ctx, username, string(hash), shopNames)
	if err != nil {
		return model.AuthResponse{}, err
	}

	token, err := s.issueToken(user, s.signupTTL)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		AccessToken: token,
		User:        model.AuthUser{ID: user.ID, Username: user.Username},
	}, nil
}

// Login verifies credentials and issues a token whose lifetime depends on
// rememberMe. The distinct "User not found" and "Incorrect password"
// messages mirror the deployed behavior; both map to 401.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.store.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResponse{}, apierror.New("UNAUTHORIZED", "User not found", "", http.StatusUnauthorized)
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, apierror.New("UNAUTHORIZED", "Incorrect password", "", http.StatusUnauthorized)
	}

	ttl := s.sessionTTL
	if req.RememberMe {
		ttl = s.rememberTTL
	}

	token, err := s.issueToken(user, ttl)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		AccessToken: token,
		User:        model.AuthUser{ID: user.ID, Username: user.Username},
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}

// ValidateToken verifies signature and expiry, then re-fetches the user so
// tokens of deleted accounts stop working immediately.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (model.AuthUser, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return model.AuthUser{}, err
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthUser{}, apierror.New("UNAUTHORIZED", "User not found", "", http.StatusUnauthorized)
	}
	if err != nil {
		return model.AuthUser{}, err
	}

	return model.AuthUser{ID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (model.Profile, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Profile{}, apierror.New("UNAUTHORIZED", "User not found", "", http.StatusUnauthorized)
	}
	if err != nil {
		return model.Profile{}, err
	}

	shops, err := s.store.ShopNamesForUser(ctx, user.ID)
	if err != nil {
		return model.Profile{}, err
	}

	return model.Profile{ID: user.ID, Username: user.Username, Shops: shops}, nil
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(user model.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (model.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return model.AuthClaims{}, apierror.New("UNAUTHORIZED", "Invalid token", "", http.StatusUnauthorized)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return model.AuthClaims{}, apierror.New("UNAUTHORIZED", "Invalid token claims", "", http.StatusUnauthorized)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.AuthClaims{}, apierror.New("UNAUTHORIZED", "Invalid token subject", "", http.StatusUnauthorized)
	}

	return model.AuthClaims{UserID: userID, Username: claims.Username, TokenID: claims.ID}, nil
}

func validateSignup(username string, password string, shopNames []string, minPasswordLen int, minShops int) ([]string, error) {
	if username == "" {
		return nil, apierror.New("VALIDATION_ERROR", "username is required", "username", http.StatusBadRequest)
	}

	if len(password) < minPasswordLen {
		return nil, apierror.New("VALIDATION_ERROR",
			fmt.Sprintf("password must be at least %d characters", minPasswordLen), "password", http.StatusBadRequest)
	}
	if !strings.ContainsAny(password, "0123456789") || !strings.ContainsAny(password, "!@#$%^&*") {
		return nil, apierror.New("VALIDATION_ERROR",
			"password must contain at least one number and one special character", "password", http.StatusBadRequest)
	}

	seen := map[string]struct{}{}
	names := make([]string, 0, len(shopNames))
	for _, raw := range shopNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, apierror.New("VALIDATION_ERROR",
				fmt.Sprintf("duplicate shop name %q", name), "shopNames", http.StatusBadRequest)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) < minShops {
		return nil, apierror.New("VALIDATION_ERROR",
			fmt.Sprintf("at least %d unique shop names are required", minShops), "shopNames", http.StatusBadRequest)
	}

	return names, nil
}
