package api

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/soaringjerry/SurveyFlow/internal/services"
)

type flowStoreAdapter struct {
	store Store
}

func NewFlowStore(store Store) services.FlowStore {
	return &flowStoreAdapter{store: store}
}

func (a *flowStoreAdapter) GetFlow(id string) (*services.FlowState, error) {
	b, ok := a.store.GetFlow(id)
	if !ok {
		return nil, nil
	}
	var f services.FlowState
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode flow %s: %w", id, err)
	}
	return &f, nil
}

func (a *flowStoreAdapter) SaveFlow(f *services.FlowState) error {
	if f == nil || f.ID == "" {
		return services.NewInvalidError("flow id required")
	}
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode flow %s: %w", f.ID, err)
	}
	a.store.PutFlow(f.ID, f.TenantID, b)
	return nil
}

func (a *flowStoreAdapter) DeleteFlow(id string) error {
	if !a.store.DeleteFlow(id) {
		return services.NewNotFoundError("flow not found")
	}
	return nil
}

// ListFlows returns the tenant's flows, newest first.
func (a *flowStoreAdapter) ListFlows(tenantID string) ([]*services.FlowState, error) {
	out := []*services.FlowState{}
	for _, b := range a.store.ListFlows(tenantID) {
		var f services.FlowState
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("decode flow: %w", err)
		}
		out = append(out, &f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ services.FlowStore = (*flowStoreAdapter)(nil)
