package api

import (
	"strings"

	"github.com/soaringjerry/SurveyFlow/internal/services"
)

// operatorStore maps operator accounts between the api store and the auth service. Emails are
// matched case-insensitively and registered at most once.
type operatorStore struct {
	store Store
}

func NewAuthStore(store Store) services.AuthStore {
	return &operatorStore{store: store}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (o *operatorStore) FindUserByEmail(email string) (*services.User, error) {
	u := o.store.FindUserByEmail(emailKey(email))
	if u == nil {
		return nil, nil
	}
	return &services.User{
		ID:        u.ID,
		Email:     u.Email,
		PassHash:  append([]byte(nil), u.PassHash...),
		TenantID:  u.TenantID,
		CreatedAt: u.CreatedAt,
	}, nil
}

func (o *operatorStore) AddUser(u *services.User) error {
	if u == nil || u.TenantID == "" {
		return services.NewInvalidError("user with tenant required")
	}
	key := emailKey(u.Email)
	if o.store.FindUserByEmail(key) != nil {
		return services.NewConflictError("email exists")
	}
	o.store.AddUser(&User{
		ID:        u.ID,
		Email:     key,
		PassHash:  append([]byte(nil), u.PassHash...),
		TenantID:  u.TenantID,
		CreatedAt: u.CreatedAt,
	})
	return nil
}

func (o *operatorStore) AddTenant(t *services.Tenant) error {
	if t == nil || t.ID == "" {
		return services.NewInvalidError("tenant id required")
	}
	o.store.AddTenant(&Tenant{ID: t.ID, Name: strings.TrimSpace(t.Name)})
	return nil
}

var _ services.AuthStore = (*operatorStore)(nil)
