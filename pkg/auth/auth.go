package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("not logged in: run `casediag login` first")
	ErrInvalidToken = errors.New("stored token is not a valid JWT")
)

// Credential is the bearer token sent to the services
type Credential struct {
	Token string
}

// Header returns the Authorization header value, empty when there is no token
func (c Credential) Header() string {
	if c.Token == "" {
		return ""
	}
	return "Bearer " + c.Token
}

// Claims are the parts of the access token the CLI shows. The token is
// issued and verified by the services; the CLI only reads it.
type Claims struct {
	Subject   string
	IsAdmin   bool
	ExpiresAt *time.Time
}

// Expired reports whether the token expiry has passed at now
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// ParseClaims decodes the token payload without verifying the signature
func ParseClaims(token string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mapClaims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := &Claims{}
	// the subject is the numeric user id on some deployments
	if sub, ok := mapClaims["sub"]; ok && sub != nil {
		claims.Subject = fmt.Sprint(sub)
	}
	if admin, ok := mapClaims["is_admin"].(bool); ok {
		claims.IsAdmin = admin
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}
	return claims, nil
}

// TokenStore persists the access token between invocations
type TokenStore struct {
	path string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the file the token is stored in
func (s *TokenStore) Path() string {
	return s.path
}

// Save writes the token readable only by the current user
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load returns the stored credential or ErrNoToken
func (s *TokenStore) Load() (Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, ErrNoToken
		}
		return Credential{}, fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return Credential{}, ErrNoToken
	}
	return Credential{Token: token}, nil
}

// Clear removes the stored token; a missing token is not an error
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
