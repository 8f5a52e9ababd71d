package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soaringjerry/SurveyFlow/internal/middleware"
	"github.com/soaringjerry/SurveyFlow/internal/services"
	"github.com/soaringjerry/SurveyFlow/internal/utils"
)

type flowResponse struct {
	Flow      *services.FlowState `json:"flow"`
	Progress  services.Progress   `json:"progress"`
	StepLabel string              `json:"step_label"`
}

func auditEntry(actor, action, target, note string) AuditEntry {
	return AuditEntry{Time: time.Now().UTC(), Actor: actor, Action: action, Target: target, Note: note}
}

// commandName turns services.AddPaymentConfig into add-payment-config for the audit log.
func commandName(cmd services.Command) string {
	name := fmt.Sprintf("%T", cmd)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	var b strings.Builder
	for i, c := range name {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			c += 'a' - 'A'
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (rt *Router) writeFlow(w http.ResponseWriter, r *http.Request, status int, f *services.FlowState) {
	locale := middleware.LocaleFromContext(r.Context())
	p := services.ProgressOf(f.CurrentStep)
	if p.Visible {
		p.Label = fmt.Sprintf(utils.T(locale, "progress.label"), p.Number, p.Total)
	}
	writeJSON(w, r, status, flowResponse{Flow: f, Progress: p, StepLabel: utils.T(locale, "step."+string(f.CurrentStep))})
}

func (rt *Router) dispatch(w http.ResponseWriter, r *http.Request, status int, cmd services.Command) {
	tid := tenantID(r)
	id := chi.URLParam(r, "id")
	f, err := rt.flows.Dispatch(r.Context(), tid, id, cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.store.AddAudit(auditEntry(tid, commandName(cmd), id, string(f.CurrentStep)))
	rt.writeFlow(w, r, status, f)
}

func (rt *Router) loadFlow(w http.ResponseWriter, r *http.Request) (*services.FlowState, bool) {
	f, err := rt.flows.Get(tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return f, true
}

// GET /api/flows
func (rt *Router) handleListFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := rt.flows.List(tenantID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"flows": flows})
}

// POST /api/flows
func (rt *Router) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &in) {
		return
	}
	tid := tenantID(r)
	f, err := rt.flows.Create(tid, in.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.store.AddAudit(auditEntry(tid, "create", f.ID, f.Name))
	rt.writeFlow(w, r, http.StatusCreated, f)
}

func (rt *Router) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	if f, ok := rt.loadFlow(w, r); ok {
		rt.writeFlow(w, r, http.StatusOK, f)
	}
}

func (rt *Router) handleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(r)
	id := chi.URLParam(r, "id")
	if err := rt.flows.Delete(r.Context(), tid, id); err != nil {
		writeError(w, r, err)
		return
	}
	rt.store.AddAudit(auditEntry(tid, "delete", id, ""))
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	f, ok := rt.loadFlow(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"entries": rt.store.ListAudit(f.ID)})
}

func (rt *Router) handleReset(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.Reset{})
}

func (rt *Router) handleAdvance(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.Advance{})
}

func (rt *Router) handleRetreat(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.Retreat{})
}

// PUT /api/flows/{id}/step {"step": "flow-review"}
func (rt *Router) handleStep(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Step string `json:"step"`
	}
	if !decode(w, r, &in) {
		return
	}
	step, err := services.ParseStep(in.Step)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.dispatch(w, r, http.StatusOK, services.GoTo{Step: step})
}

// PUT /api/flows/{id}/requirement
//
// {"id": 3} picks a catalog entry, {"infer": true} derives one from the current selections,
// {"requirement": {...}} sets a full entry and an empty body clears the requirement.
func (rt *Router) handleRequirement(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID          int                       `json:"id"`
		Infer       bool                      `json:"infer"`
		Requirement *services.FlowRequirement `json:"requirement"`
	}
	if !decode(w, r, &in) {
		return
	}
	switch {
	case in.ID != 0:
		rt.dispatch(w, r, http.StatusOK, services.SelectRequirement{ID: in.ID})
	case in.Infer:
		f, ok := rt.loadFlow(w, r)
		if !ok {
			return
		}
		req := services.InferRequirement(len(f.Geographies), len(f.Categories))
		rt.dispatch(w, r, http.StatusOK, services.SetRequirement{Requirement: &req})
	default:
		rt.dispatch(w, r, http.StatusOK, services.SetRequirement{Requirement: in.Requirement})
	}
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

func (rt *Router) handleSetGeographies(w http.ResponseWriter, r *http.Request) {
	var in idsRequest
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.SetGeographies{IDs: in.IDs})
	}
}

func (rt *Router) handleSetCategories(w http.ResponseWriter, r *http.Request) {
	var in idsRequest
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.SetCategories{IDs: in.IDs})
	}
}

func (rt *Router) handleDuration(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Minutes int `json:"minutes"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.SetInterviewDuration{Minutes: in.Minutes})
	}
}

func (rt *Router) handleAddConfig(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID        string `json:"id"`
		Geography string `json:"geography"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusCreated, services.AddPaymentConfig{ID: in.ID, Geography: in.Geography})
	}
}

func (rt *Router) handleReplaceConfigs(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Configs []services.PaymentConfig `json:"configs"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.SetPaymentConfigs{Configs: in.Configs})
	}
}

func (rt *Router) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var patch services.PaymentConfigPatch
	if decode(w, r, &patch) {
		rt.dispatch(w, r, http.StatusOK, services.UpdatePaymentConfig{ID: chi.URLParam(r, "cid"), Patch: patch})
	}
}

func (rt *Router) handleRemoveConfig(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.RemovePaymentConfig{ID: chi.URLParam(r, "cid")})
}

func (rt *Router) handleCommitPricing(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.CommitPricing{})
}

func (rt *Router) handlePricingSummary(w http.ResponseWriter, r *http.Request) {
	if f, ok := rt.loadFlow(w, r); ok {
		writeJSON(w, r, http.StatusOK, services.SummarizePricing(f.PaymentConfigs))
	}
}

func (rt *Router) handlePricingExport(w http.ResponseWriter, r *http.Request) {
	f, ok := rt.loadFlow(w, r)
	if !ok {
		return
	}
	b, err := services.ExportPricingCSV(f.PaymentConfigs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", f.ID+"-pricing.csv", b)
}

func (rt *Router) handleRedirectLinks(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Links []services.RedirectLink `json:"links"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.SetRedirectLinks{Links: in.Links})
	}
}

func (rt *Router) handleGenerateLinks(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.RegenerateLiveLinks{})
}

func (rt *Router) handleLiveLinks(w http.ResponseWriter, r *http.Request) {
	if f, ok := rt.loadFlow(w, r); ok {
		writeJSON(w, r, http.StatusOK, map[string]any{"links": f.LiveLinks})
	}
}

// GET /api/flows/{id}/live-links/text returns the clipboard text, one link per block.
func (rt *Router) handleLiveLinksText(w http.ResponseWriter, r *http.Request) {
	f, ok := rt.loadFlow(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(services.CopyAllText(f.LiveLinks)))
}

func (rt *Router) handleLiveLinksExport(w http.ResponseWriter, r *http.Request) {
	f, ok := rt.loadFlow(w, r)
	if !ok {
		return
	}
	b, err := services.ExportLiveLinksCSV(f.LiveLinks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", f.ID+"-live-links.csv", b)
}

func (rt *Router) handleGenerateScreeners(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.RegenerateScreeners{})
}

func (rt *Router) handleSetScreeners(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Screeners []services.Screener `json:"screeners"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.SetScreeners{Screeners: in.Screeners})
	}
}

// POST /api/flows/{id}/screeners/ai starts a generation run and answers before it finishes.
func (rt *Router) handleStartAI(w http.ResponseWriter, r *http.Request) {
	task, _, err := rt.gen.Start(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]any{"task": task})
}

func (rt *Router) handleAIStatus(w http.ResponseWriter, r *http.Request) {
	task, err := rt.gen.Status(tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"task": task})
}

func (rt *Router) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var q services.ScreenerQuestion
	if decode(w, r, &q) {
		rt.dispatch(w, r, http.StatusCreated, services.AddScreenerQuestion{ScreenerID: chi.URLParam(r, "sid"), Question: q})
	}
}

func (rt *Router) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var patch services.QuestionPatch
	if decode(w, r, &patch) {
		rt.dispatch(w, r, http.StatusOK, services.UpdateScreenerQuestion{
			ScreenerID: chi.URLParam(r, "sid"),
			QuestionID: chi.URLParam(r, "qid"),
			Patch:      patch,
		})
	}
}

func (rt *Router) handleRemoveQuestion(w http.ResponseWriter, r *http.Request) {
	rt.dispatch(w, r, http.StatusOK, services.RemoveScreenerQuestion{
		ScreenerID: chi.URLParam(r, "sid"),
		QuestionID: chi.URLParam(r, "qid"),
	})
}

func (rt *Router) handleAddOption(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Label string `json:"label"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusCreated, services.AddQuestionOption{
			ScreenerID: chi.URLParam(r, "sid"),
			QuestionID: chi.URLParam(r, "qid"),
			Label:      in.Label,
		})
	}
}

func (rt *Router) handleRemoveOption(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, services.NewInvalidError("option index must be a number"))
		return
	}
	rt.dispatch(w, r, http.StatusOK, services.RemoveQuestionOption{
		ScreenerID: chi.URLParam(r, "sid"),
		QuestionID: chi.URLParam(r, "qid"),
		Index:      index,
	})
}

type linkParticipants struct {
	Link     services.LiveLink      `json:"link"`
	Criteria string                 `json:"criteria"`
	Matches  []services.Participant `json:"matches"`
	Selected []string               `json:"selected"`
}

func (rt *Router) handleLinkParticipants(w http.ResponseWriter, r *http.Request) {
	f, ok := rt.loadFlow(w, r)
	if !ok {
		return
	}
	linkID := chi.URLParam(r, "linkID")
	for _, l := range f.LiveLinks {
		if l.ID != linkID {
			continue
		}
		out := linkParticipants{Link: l, Criteria: services.SelectionCriteria(l), Matches: services.MatchParticipants(l), Selected: []string{}}
		for _, sel := range f.ParticipantSelections {
			if sel.LiveLinkID == linkID {
				out.Selected = sel.SelectedParticipants
			}
		}
		writeJSON(w, r, http.StatusOK, out)
		return
	}
	writeError(w, r, services.NewNotFoundError("live link not found"))
}

func (rt *Router) handleSetSelections(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Selections []services.ParticipantSelection `json:"selections"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.SetParticipantSelections{Selections: in.Selections})
	}
}

func (rt *Router) handleToggleParticipant(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ParticipantID string `json:"participant_id"`
	}
	if decode(w, r, &in) {
		rt.dispatch(w, r, http.StatusOK, services.ToggleParticipant{LiveLinkID: chi.URLParam(r, "linkID"), ParticipantID: in.ParticipantID})
	}
}

func (rt *Router) handleReview(w http.ResponseWriter, r *http.Request) {
	if f, ok := rt.loadFlow(w, r); ok {
		writeJSON(w, r, http.StatusOK, services.ReviewFlow(*f))
	}
}

func (rt *Router) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if f, ok := rt.loadFlow(w, r); ok {
		writeJSON(w, r, http.StatusOK, services.SimulatePerformance(*f))
	}
}
