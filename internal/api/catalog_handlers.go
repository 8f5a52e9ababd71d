package api

import (
	"net/http"

	"github.com/soaringjerry/SurveyFlow/internal/services"
)

func (rt *Router) handleGeographies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"geographies": services.Geographies()})
}

func (rt *Router) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"categories": services.Categories()})
}

func (rt *Router) handleRequirements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"requirements": services.Requirements()})
}

func (rt *Router) handleParticipants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"participants": services.Participants()})
}

func (rt *Router) handlePricingCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"base_market":                services.BaseMarket,
		"base_unit_price":            services.BaseUnitPrice,
		"professional_premium":       services.ProfessionalPremium,
		"service_charge_rate":        services.ServiceChargeRate,
		"default_interview_minutes":  services.DefaultInterviewMinutes,
		"default_expected_responses": services.DefaultExpectedResponses,
		"seniority_levels":           services.SeniorityLevels,
		"company_sizes":              services.CompanySizes,
		"seniority_multipliers":      services.SeniorityMultipliers,
		"company_size_multipliers":   services.CompanySizeMultipliers,
		"geography_salary_ratios":    services.GeographySalaryRatios,
	})
}

type quoteRequest struct {
	Geography        string               `json:"geography"`
	Seniority        services.Seniority   `json:"seniority"`
	CompanySize      services.CompanySize `json:"company_size"`
	InterviewMinutes int                  `json:"interview_minutes"`
}

// POST /api/pricing/quote
func (rt *Router) handleQuote(w http.ResponseWriter, r *http.Request) {
	in := quoteRequest{InterviewMinutes: services.DefaultInterviewMinutes}
	if !decode(w, r, &in) {
		return
	}
	q, err := services.Quote(in.Geography, in.Seniority, in.CompanySize, in.InterviewMinutes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, q)
}
