package api

type Store interface {
	PutFlow(id, tenantID string, snapshot []byte)
	GetFlow(id string) ([]byte, bool)
	DeleteFlow(id string) bool
	ListFlows(tenantID string) [][]byte

	AddTenant(t *Tenant)
	AddUser(u *User)
	FindUserByEmail(email string) *User

	AddAudit(e AuditEntry)
	ListAudit(target string) []AuditEntry
}

var _ Store = (*memoryStore)(nil)
