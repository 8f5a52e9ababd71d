package services

import "time"

type Geography struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type Cardinality string

const (
	CardinalitySingle   Cardinality = "single"
	CardinalityMultiple Cardinality = "multiple"
)

type LinkPattern string

const (
	LinkPatternSingle      LinkPattern = "single"
	LinkPatternGeo         LinkPattern = "geo-based"
	LinkPatternCategory    LinkPattern = "category-based"
	LinkPatternGeoCategory LinkPattern = "geo-category-based"
)

func (p LinkPattern) Valid() bool {
	switch p {
	case LinkPatternSingle, LinkPatternGeo, LinkPatternCategory, LinkPatternGeoCategory:
		return true
	}
	return false
}

type ScreenerPattern string

const (
	ScreenerPatternSingle   ScreenerPattern = "single"
	ScreenerPatternMultiple ScreenerPattern = "multiple"
)

type FlowRequirement struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	GeographyCount  Cardinality     `json:"geography_count"`
	CategoryCount   Cardinality     `json:"category_count"`
	LiveLinkPattern LinkPattern     `json:"live_link_pattern"`
	ScreenerPattern ScreenerPattern `json:"screener_pattern"`
}

type RedirectPurpose string

const (
	RedirectComplete  RedirectPurpose = "complete"
	RedirectTerminate RedirectPurpose = "terminate"
	RedirectOverQuota RedirectPurpose = "over-quota"
	RedirectError     RedirectPurpose = "error"
)

type RedirectLink struct {
	ID      string          `json:"id"`
	Purpose RedirectPurpose `json:"purpose"`
	Label   string          `json:"label"`
	URL     string          `json:"url"`
}

type LiveLink struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Label       string `json:"label"`
	GeographyID string `json:"geography_id,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
}

type PaymentConfig struct {
	ID                    string      `json:"id"`
	Geography             string      `json:"geography"`
	Category              string      `json:"category"`
	Seniority             Seniority   `json:"seniority"`
	CompanySize           CompanySize `json:"company_size"`
	InterviewMinutes      int         `json:"interview_minutes"`
	ExpectedResponses     int         `json:"expected_responses"`
	Amount                float64     `json:"amount"`
	TotalCost             float64     `json:"total_cost"`
	BaseUnit              float64     `json:"base_unit"`
	GeographyMultiplier   float64     `json:"geography_multiplier"`
	ProfessionalPremium   float64     `json:"professional_premium"`
	SeniorityMultiplier   float64     `json:"seniority_multiplier"`
	CompanySizeMultiplier float64     `json:"company_size_multiplier"`
}

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
	QuestionText     QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	return t == QuestionSingle || t == QuestionMultiple || t == QuestionText
}

type ScreenerQuestion struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

type Screener struct {
	ID         string             `json:"id"`
	CategoryID string             `json:"category_id,omitempty"`
	Questions  []ScreenerQuestion `json:"questions"`
}

type ParticipantSelection struct {
	LiveLinkID           string   `json:"live_link_id"`
	SelectedParticipants []string `json:"selected_participants"`
	Criteria             string   `json:"criteria"`
}

type Participant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Geography    string `json:"geography"`
	Category     string `json:"category"`
	Experience   string `json:"experience"`
	Availability string `json:"availability"`
}

type TaskStatus string

const (
	TaskIdle    TaskStatus = "idle"
	TaskPending TaskStatus = "pending"
	TaskSuccess TaskStatus = "success"
	TaskFailure TaskStatus = "failure"
)

// GenerationTask tracks the simulated AI screener generation for one flow.
type GenerationTask struct {
	Status     TaskStatus `json:"status"`
	Message    string     `json:"message,omitempty"`
	StartedAt  time.Time  `json:"started_at,omitempty"`
	FinishedAt time.Time  `json:"finished_at,omitempty"`
}

type FlowStatus string

const (
	FlowDraft  FlowStatus = "draft"
	FlowActive FlowStatus = "active"
)

type FlowState struct {
	ID                    string                 `json:"id"`
	TenantID              string                 `json:"tenant_id,omitempty"`
	Name                  string                 `json:"name,omitempty"`
	CurrentStep           Step                   `json:"current_step"`
	Requirement           *FlowRequirement       `json:"requirement,omitempty"`
	Geographies           []Geography            `json:"geographies"`
	Categories            []Category             `json:"categories"`
	RedirectLinks         []RedirectLink         `json:"redirect_links"`
	LiveLinks             []LiveLink             `json:"live_links"`
	Screeners             []Screener             `json:"screeners"`
	PaymentConfigs        []PaymentConfig        `json:"payment_configs"`
	ParticipantSelections []ParticipantSelection `json:"participant_selections"`
	InterviewMinutes      int                    `json:"interview_minutes"`
	LinkHost              string                 `json:"link_host"`
	ScreenerGeneration    GenerationTask         `json:"screener_generation"`
	Status                FlowStatus             `json:"status"`
	ActivatedAt           time.Time              `json:"activated_at,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

type Tenant struct {
	ID   string
	Name string
}

type User struct {
	ID        string
	Email     string
	PassHash  []byte
	TenantID  string
	CreatedAt time.Time
}
