package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/SurveyFlow/internal/cache"
	"github.com/soaringjerry/SurveyFlow/internal/middleware"
	"github.com/soaringjerry/SurveyFlow/internal/services"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	store := NewMemoryStore()
	authn := middleware.NewAuth("test-secret", authRequired)
	flows := services.NewFlowService(NewFlowStore(store), cache.NewMemoryKVStore(), "")
	rt := NewRouter(Deps{
		Store:     store,
		Flows:     flows,
		Auth:      services.NewAuthService(NewAuthStore(store), authn.SignToken, time.Hour),
		Generator: services.NewScreenerGenerator(flows, 0),
		Authn:     authn,
		Commit:    "abc123",
	})
	return &testServer{t: t, handler: rt.Handler()}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeFlow(t *testing.T, rec *httptest.ResponseRecorder) flowResponse {
	t.Helper()
	var out flowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.NotNil(t, out.Flow)
	return out
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(http.MethodGet, "/health?lang=zh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "zh", body["locale"])
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(http.MethodGet, "/version", nil)
	assert.JSONEq(t, `{"commit":"abc123","build_time":""}`, rec.Body.String())
}

func TestCatalogAndQuote(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(http.MethodGet, "/api/catalog/requirements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	var reqs struct {
		Requirements []services.FlowRequirement `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reqs))
	assert.Len(t, reqs.Requirements, 5)

	for _, path := range []string{"geographies", "categories", "participants", "pricing"} {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/catalog/"+path, nil).Code, path)
	}

	rec = s.do(http.MethodPost, "/api/pricing/quote", map[string]any{
		"geography": "uk", "seniority": "Manager", "company_size": "SME", "interview_minutes": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var q services.PriceBreakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.InDelta(t, 61.2, q.Amount, 1e-9)

	rec = s.do(http.MethodPost, "/api/pricing/quote", map[string]any{"geography": "uk", "seniority": "Intern", "company_size": "SME"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"invalid"`)
}

func TestFlowsRequireAuth(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(http.MethodPost, "/api/flows", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", credentials{Email: "Ops@Example.com", Password: "longenough"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/auth/register", credentials{Email: "ops@example.com", Password: "longenough"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", credentials{Email: "ops@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(http.MethodPost, "/api/auth/login", credentials{Email: "ops@example.com", Password: "longenough"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res services.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	s.token = res.Token

	f := decodeFlow(t, s.do(http.MethodPost, "/api/flows", map[string]string{"name": "Q3 panel"}))
	assert.Equal(t, res.TenantID, f.Flow.TenantID)

	// another operator cannot see the flow
	rec = s.do(http.MethodPost, "/api/auth/register", credentials{Email: "other@example.com", Password: "longenough"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var other services.AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))
	s.token = other.Token
	rec = s.do(http.MethodGet, "/api/flows/"+f.Flow.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"not_found"`)
}

func TestFlowJourney(t *testing.T) {
	s := newTestServer(t, false)
	created := s.do(http.MethodPost, "/api/flows", map[string]string{"name": "journey"})
	require.Equal(t, http.StatusCreated, created.Code)
	f := decodeFlow(t, created)
	assert.Equal(t, services.StepLanding, f.Flow.CurrentStep)
	assert.False(t, f.Progress.Visible)
	base := "/api/flows/" + f.Flow.ID

	f = decodeFlow(t, s.do(http.MethodPost, base+"/advance", nil))
	assert.Equal(t, services.StepPaymentConfiguration, f.Flow.CurrentStep)
	assert.Equal(t, "Step 1 of 7", f.Progress.Label)

	rec := s.do(http.MethodPost, base+"/pricing/configs", map[string]string{"geography": "uk"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f = decodeFlow(t, rec)
	require.Len(t, f.Flow.PaymentConfigs, 1)
	cid := f.Flow.PaymentConfigs[0].ID
	assert.InDelta(t, 45.9, f.Flow.PaymentConfigs[0].Amount, 1e-9)

	rec = s.do(http.MethodPatch, base+"/pricing/configs/"+cid, map[string]any{"seniority": "Manager", "expected_responses": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f = decodeFlow(t, rec)
	assert.InDelta(t, 61.2, f.Flow.PaymentConfigs[0].Amount, 1e-9)

	rec = s.do(http.MethodGet, base+"/pricing/summary", nil)
	var sum services.PricingSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.InDelta(t, 612, sum.Subtotal, 1e-6)

	f = decodeFlow(t, s.do(http.MethodPost, base+"/pricing/commit", nil))
	require.NotNil(t, f.Flow.Requirement)
	assert.Equal(t, 1, f.Flow.Requirement.ID)
	require.Len(t, f.Flow.LiveLinks, 1)

	rec = s.do(http.MethodGet, base+"/pricing/export", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))

	links := []services.RedirectLink{
		{Purpose: services.RedirectComplete, URL: "https://panel.test/complete"},
		{Purpose: services.RedirectTerminate, URL: "https://panel.test/terminate"},
		{Purpose: services.RedirectOverQuota, URL: "https://panel.test/quota"},
		{Purpose: services.RedirectError, URL: "https://panel.test/error"},
	}
	rec = s.do(http.MethodPut, base+"/redirect-links", map[string]any{"links": links})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, base+"/live-links/text", nil)
	assert.Equal(t, "Main Survey Link: https://survey.example.com/live/single?aqx_id=[id]", rec.Body.String())

	f = decodeFlow(t, s.do(http.MethodPost, base+"/screeners/generate", nil))
	require.Len(t, f.Flow.Screeners, 1)
	sid := f.Flow.Screeners[0].ID
	before := len(f.Flow.Screeners[0].Questions)

	rec = s.do(http.MethodPost, base+"/screeners/"+sid+"/questions", map[string]any{"question": "Do you manage a budget?"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f = decodeFlow(t, rec)
	qs := f.Flow.Screeners[0].Questions
	require.Len(t, qs, before+1)
	qid := qs[len(qs)-1].ID
	assert.Equal(t, []string{"Option 1", "Option 2"}, qs[len(qs)-1].Options)

	rec = s.do(http.MethodPost, base+"/screeners/"+sid+"/questions/"+qid+"/options", map[string]string{"label": "Yes"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(http.MethodDelete, base+"/screeners/"+sid+"/questions/"+qid+"/options/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	f = decodeFlow(t, rec)
	assert.Equal(t, []string{"Option 2", "Yes"}, f.Flow.Screeners[0].Questions[before].Options)

	rec = s.do(http.MethodDelete, base+"/screeners/"+sid+"/questions/"+qid+"/options/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, base+"/participants/live-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lp linkParticipants
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lp))
	assert.Equal(t, "General criteria", lp.Criteria)

	f = decodeFlow(t, s.do(http.MethodPost, base+"/participants/live-1/toggle", map[string]string{"participant_id": "p2"}))
	assert.Equal(t, []string{"p2"}, f.Flow.ParticipantSelections[0].SelectedParticipants)

	rec = s.do(http.MethodPut, base+"/step", map[string]string{"step": "nowhere"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f = decodeFlow(t, s.do(http.MethodPut, base+"/step", map[string]string{"step": "flow-active"}))
	assert.Equal(t, services.FlowActive, f.Flow.Status)

	rec = s.do(http.MethodGet, base+"/review", nil)
	var review services.FlowReview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	assert.True(t, review.RedirectsComplete)
	assert.Equal(t, 1, review.SelectedParticipants)

	rec = s.do(http.MethodGet, base+"/performance", nil)
	var perf services.Performance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perf))
	assert.Equal(t, 1247, perf.TotalResponses)

	rec = s.do(http.MethodGet, base+"/audit", nil)
	assert.Contains(t, rec.Body.String(), `"action":"commit-pricing"`)

	rec = s.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, base, nil).Code)
}

func TestAIScreenerGeneration(t *testing.T) {
	s := newTestServer(t, false)
	f := decodeFlow(t, s.do(http.MethodPost, "/api/flows", nil))
	base := "/api/flows/" + f.Flow.ID
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, base+"/categories", map[string]any{"ids": []string{"tech", "hr"}}).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, base+"/requirement", map[string]any{"id": 4}).Code)

	rec := s.do(http.MethodPost, base+"/screeners/ai", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var status struct {
		Task services.GenerationTask `json:"task"`
	}
	require.Eventually(t, func() bool {
		rec := s.do(http.MethodGet, base+"/screeners/ai", nil)
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.Task.Status == services.TaskSuccess
	}, 5*time.Second, 10*time.Millisecond)

	f = decodeFlow(t, s.do(http.MethodGet, base, nil))
	assert.Len(t, f.Flow.Screeners, 2)
}

func TestBadJSONBody(t *testing.T) {
	s := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/flows", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"invalid","message":"invalid json body"}}`, rec.Body.String())
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "add-payment-config", commandName(services.AddPaymentConfig{}))
	assert.Equal(t, "go-to", commandName(services.GoTo{}))
}
