package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/soaringjerry/SurveyFlow/internal/log"
)

type FlowStore interface {
	GetFlow(id string) (*FlowState, error)
	SaveFlow(f *FlowState) error
	DeleteFlow(id string) error
	ListFlows(tenantID string) ([]*FlowState, error)
}

// RequirementStore is the key/value store holding detected requirements.
// Load reports ok=false for a missing key.
type RequirementStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

const requirementKeyPrefix = "detectedRequirement:"

func RequirementKey(flowID string) string { return requirementKeyPrefix + flowID }

// FlowService is the single owner of flow state. Every mutation goes through Dispatch.
type FlowService struct {
	store    FlowStore
	kv       RequirementStore
	linkHost string
	now      func() time.Time
	idGen    func(prefix string, n int) string
	mu       sync.Mutex
}

func NewFlowService(store FlowStore, kv RequirementStore, linkHost string) *FlowService {
	if linkHost == "" {
		linkHost = DefaultLinkHost
	}
	return &FlowService{
		store:    store,
		kv:       kv,
		linkHost: linkHost,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

func (s *FlowService) Create(tenantID, name string) (*FlowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := NewFlowState(s.idGen("f", 10), s.linkHost)
	f.TenantID = tenantID
	f.Name = strings.TrimSpace(name)
	now := s.now()
	f.CreatedAt = now
	f.UpdatedAt = now
	if err := s.store.SaveFlow(&f); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"flow": f.ID, "tenant": tenantID}).Info("flow created")
	return &f, nil
}

// load fetches a flow visible to tenantID. Flows of other tenants are reported as missing.
func (s *FlowService) load(tenantID, id string) (*FlowState, error) {
	f, err := s.store.GetFlow(id)
	if err != nil {
		return nil, err
	}
	if f == nil || f.TenantID != tenantID {
		return nil, NewNotFoundError("flow not found")
	}
	return f, nil
}

func (s *FlowService) Get(tenantID, id string) (*FlowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(tenantID, id)
}

func (s *FlowService) List(tenantID string) ([]*FlowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListFlows(tenantID)
}

func (s *FlowService) Delete(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.load(tenantID, id); err != nil {
		return err
	}
	if err := s.store.DeleteFlow(id); err != nil {
		return err
	}
	if s.kv != nil {
		if err := s.kv.Delete(ctx, RequirementKey(id)); err != nil {
			log.Warnf("flow %s: delete detected requirement: %v", id, err)
		}
	}
	return nil
}

// Dispatch applies cmd to the flow and stores the result. A rejected command leaves the
// stored flow untouched.
func (s *FlowService) Dispatch(ctx context.Context, tenantID, id string, cmd Command) (*FlowState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.load(tenantID, id)
	if err != nil {
		return nil, err
	}
	next, err := Reduce(*cur, cmd)
	if err != nil {
		return nil, err
	}
	if _, ok := cmd.(CommitPricing); ok && next.Requirement != nil {
		s.persistRequirement(ctx, id, *next.Requirement)
	}
	if next.CurrentStep == StepLiveLinksGeneration && cur.CurrentStep != StepLiveLinksGeneration && next.Requirement == nil {
		if r, ok := s.restoreRequirement(ctx, id); ok {
			if restored, err := Reduce(next, SetRequirement{Requirement: &r}); err == nil {
				next = restored
			}
		}
	}
	if next.CurrentStep == StepScreenerConfiguration && cur.CurrentStep != StepScreenerConfiguration && len(next.Screeners) == 0 {
		if seeded, err := Reduce(next, RegenerateScreeners{}); err == nil {
			next = seeded
		}
	}
	now := s.now()
	if next.CurrentStep == StepFlowActive && next.Status != FlowActive {
		next.Status = FlowActive
		next.ActivatedAt = now
		log.WithFields(log.Fields{"flow": id, "links": len(next.LiveLinks)}).Info("flow activated")
	}
	next.UpdatedAt = now
	if err := s.store.SaveFlow(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// persistRequirement writes the detected requirement. Failures are logged only.
func (s *FlowService) persistRequirement(ctx context.Context, id string, r FlowRequirement) {
	if s.kv == nil {
		return
	}
	b, err := EncodeRequirement(r)
	if err != nil {
		log.Warnf("flow %s: encode detected requirement: %v", id, err)
		return
	}
	if err := s.kv.Save(ctx, RequirementKey(id), b); err != nil {
		log.Warnf("flow %s: save detected requirement: %v", id, err)
	}
}

// restoreRequirement reads back a detected requirement. Malformed or unknown data is deleted.
func (s *FlowService) restoreRequirement(ctx context.Context, id string) (FlowRequirement, bool) {
	if s.kv == nil {
		return FlowRequirement{}, false
	}
	key := RequirementKey(id)
	b, ok, err := s.kv.Load(ctx, key)
	if err != nil {
		log.Warnf("flow %s: load detected requirement: %v", id, err)
		return FlowRequirement{}, false
	}
	if !ok {
		return FlowRequirement{}, false
	}
	r, err := DecodeRequirement(b)
	if err != nil {
		log.WithFields(log.Fields{"flow": id, "key": key}).Warnf("discarding stored requirement: %v", err)
		if err := s.kv.Delete(ctx, key); err != nil {
			log.Warnf("flow %s: delete detected requirement: %v", id, err)
		}
		return FlowRequirement{}, false
	}
	log.WithFields(log.Fields{"flow": id, "requirement": r.ID}).Debug("restored detected requirement")
	return r, true
}
