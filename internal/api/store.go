package api

import (
	"sort"
	"sync"
	"time"
)

type Tenant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"pass_hash"`
	TenantID  string    `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

// flowRecord is a JSON snapshot of a flow. Storing bytes keeps callers from mutating
// stored state through shared slices.
type flowRecord struct {
	tenantID string
	snapshot []byte
}

type memoryStore struct {
	mu           sync.RWMutex
	flows        map[string]flowRecord
	tenants      map[string]*Tenant
	usersByEmail map[string]*User
	audit        []AuditEntry
}

func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		flows:        map[string]flowRecord{},
		tenants:      map[string]*Tenant{},
		usersByEmail: map[string]*User{},
		audit:        []AuditEntry{},
	}
}

func (s *memoryStore) PutFlow(id, tenantID string, snapshot []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[id] = flowRecord{tenantID: tenantID, snapshot: append([]byte(nil), snapshot...)}
}

func (s *memoryStore) GetFlow(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.flows[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), rec.snapshot...), true
}

func (s *memoryStore) DeleteFlow(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[id]; !ok {
		return false
	}
	delete(s.flows, id)
	return true
}

func (s *memoryStore) ListFlows(tenantID string) [][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.flows))
	for id, rec := range s.flows {
		if rec.tenantID == tenantID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, append([]byte(nil), s.flows[id].snapshot...))
	}
	return out
}

func (s *memoryStore) AddTenant(t *Tenant) { s.mu.Lock(); defer s.mu.Unlock(); s.tenants[t.ID] = t }

func (s *memoryStore) AddUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByEmail[u.Email] = u
}

func (s *memoryStore) FindUserByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByEmail[email]
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, e)
}

// ListAudit returns entries for target, oldest first. An empty target returns everything.
func (s *memoryStore) ListAudit(target string) []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []AuditEntry{}
	for _, e := range s.audit {
		if target == "" || e.Target == target {
			out = append(out, e)
		}
	}
	return out
}
