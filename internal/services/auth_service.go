package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AuthStore holds operator accounts. Each account owns one tenant; flows are scoped to it.
type AuthStore interface {
	FindUserByEmail(email string) (*User, error)
	AddUser(u *User) error
	AddTenant(t *Tenant) error
}

type TokenSigner func(uid, tid, email string, ttl time.Duration) (string, error)

const (
	DefaultTokenTTL   = 30 * 24 * time.Hour
	minPasswordLength = 8
)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token    string `json:"token"`
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
}

func NewAuthService(store AuthStore, signer TokenSigner, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  ttl,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an operator and the workspace (tenant) their flows belong to.
func (s *AuthService) Register(email, password, workspace string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	if !strings.Contains(email, "@") {
		return nil, NewInvalidError("invalid email")
	}
	if len(password) < minPasswordLength {
		return nil, NewInvalidError("password too short")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email exists")
	}
	workspace = strings.TrimSpace(workspace)
	if workspace == "" {
		workspace = email
	}
	tenantID := s.idGen("t", 7)
	if err := s.store.AddTenant(&Tenant{ID: tenantID, Name: workspace}); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	userID := s.idGen("u", 7)
	if err := s.store.AddUser(&User{ID: userID, Email: email, PassHash: hash, TenantID: tenantID, CreatedAt: s.now()}); err != nil {
		return nil, err
	}
	return s.issue(userID, tenantID, email)
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	return s.issue(u.ID, u.TenantID, u.Email)
}

func (s *AuthService) issue(uid, tid, email string) (*AuthResult, error) {
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(uid, tid, email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, TenantID: tid, UserID: uid}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
