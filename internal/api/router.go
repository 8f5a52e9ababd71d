package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/soaringjerry/SurveyFlow/internal/middleware"
	"github.com/soaringjerry/SurveyFlow/internal/services"
	"github.com/soaringjerry/SurveyFlow/internal/utils"
)

type Deps struct {
	Store       Store
	Flows       *services.FlowService
	Auth        *services.AuthService
	Generator   *services.ScreenerGenerator
	Authn       *middleware.Auth
	CORSOrigins []string
	Commit      string
	BuildTime   string
}

type Router struct {
	store     Store
	flows     *services.FlowService
	auth      *services.AuthService
	gen       *services.ScreenerGenerator
	authn     *middleware.Auth
	origins   []string
	commit    string
	buildTime string
}

func NewRouter(d Deps) *Router {
	return &Router{
		store:     d.Store,
		flows:     d.Flows,
		auth:      d.Auth,
		gen:       d.Generator,
		authn:     d.Authn,
		origins:   d.CORSOrigins,
		commit:    d.Commit,
		buildTime: d.BuildTime,
	}
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(rt.origins))
	r.Use(middleware.LocaleMiddleware)

	r.Get("/health", rt.handleHealth)
	r.Get("/version", rt.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", rt.handleRegister)
		r.Post("/auth/login", rt.handleLogin)

		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.PublicCache(time.Hour))
			r.Get("/geographies", rt.handleGeographies)
			r.Get("/categories", rt.handleCategories)
			r.Get("/requirements", rt.handleRequirements)
			r.Get("/participants", rt.handleParticipants)
			r.Get("/pricing", rt.handlePricingCatalog)
		})
		r.Post("/pricing/quote", rt.handleQuote)

		r.Group(func(r chi.Router) {
			r.Use(rt.authn.WithAuth, rt.authn.RequireAuth, middleware.NoStore)
			r.Get("/flows", rt.handleListFlows)
			r.Post("/flows", rt.handleCreateFlow)
			r.Route("/flows/{id}", rt.flowRoutes)
		})
	})
	return r
}

func (rt *Router) flowRoutes(r chi.Router) {
	r.Get("/", rt.handleGetFlow)
	r.Delete("/", rt.handleDeleteFlow)
	r.Get("/audit", rt.handleAudit)
	r.Post("/reset", rt.handleReset)
	r.Post("/advance", rt.handleAdvance)
	r.Post("/retreat", rt.handleRetreat)
	r.Put("/step", rt.handleStep)

	r.Put("/requirement", rt.handleRequirement)
	r.Put("/geographies", rt.handleSetGeographies)
	r.Put("/categories", rt.handleSetCategories)

	r.Route("/pricing", func(r chi.Router) {
		r.Put("/duration", rt.handleDuration)
		r.Post("/configs", rt.handleAddConfig)
		r.Put("/configs", rt.handleReplaceConfigs)
		r.Patch("/configs/{cid}", rt.handleUpdateConfig)
		r.Delete("/configs/{cid}", rt.handleRemoveConfig)
		r.Post("/commit", rt.handleCommitPricing)
		r.Get("/summary", rt.handlePricingSummary)
		r.Get("/export", rt.handlePricingExport)
	})

	r.Put("/redirect-links", rt.handleRedirectLinks)

	r.Route("/live-links", func(r chi.Router) {
		r.Post("/generate", rt.handleGenerateLinks)
		r.Get("/", rt.handleLiveLinks)
		r.Get("/text", rt.handleLiveLinksText)
		r.Get("/export", rt.handleLiveLinksExport)
	})

	r.Route("/screeners", func(r chi.Router) {
		r.Post("/generate", rt.handleGenerateScreeners)
		r.Put("/", rt.handleSetScreeners)
		r.Post("/ai", rt.handleStartAI)
		r.Get("/ai", rt.handleAIStatus)
		r.Post("/{sid}/questions", rt.handleAddQuestion)
		r.Patch("/{sid}/questions/{qid}", rt.handleUpdateQuestion)
		r.Delete("/{sid}/questions/{qid}", rt.handleRemoveQuestion)
		r.Post("/{sid}/questions/{qid}/options", rt.handleAddOption)
		r.Delete("/{sid}/questions/{qid}/options/{index}", rt.handleRemoveOption)
	})

	r.Put("/participants", rt.handleSetSelections)
	r.Get("/participants/{linkID}", rt.handleLinkParticipants)
	r.Post("/participants/{linkID}/toggle", rt.handleToggleParticipant)

	r.Get("/review", rt.handleReview)
	r.Get("/performance", rt.handlePerformance)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, r, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       "SurveyFlow API",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

func tenantID(r *http.Request) string {
	tid, _ := middleware.TenantIDFromContext(r.Context())
	return tid
}
