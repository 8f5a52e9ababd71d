package services

import "math"

// RLMV (relative labour market value) pricing.
//
// Prices are rounded to cents half away from zero (math.Round), so 0.125 becomes
// 0.13 and -0.125 becomes -0.13. Totals and aggregates are left unrounded.

type Seniority string

const (
	SeniorityEntry   Seniority = "Entry Level"
	SeniorityManager Seniority = "Manager"
	SenioritySenior  Seniority = "Senior"
	SeniorityVP      Seniority = "VP"
	SeniorityCXO     Seniority = "CXO"
)

type CompanySize string

const (
	CompanySmall      CompanySize = "Small"
	CompanySME        CompanySize = "SME"
	CompanyMidMarket  CompanySize = "Mid Market"
	CompanyEnterprise CompanySize = "Enterprise"
)

const (
	BaseMarket               = "us"
	BaseUnitPrice            = 1.0
	ProfessionalPremium      = 1.5
	ServiceChargeRate        = 0.20
	DefaultInterviewMinutes  = 20
	DefaultExpectedResponses = 100
	DefaultCategory          = "tech"
)

var SeniorityMultipliers = map[Seniority]float64{
	SeniorityEntry:   1.5,
	SeniorityManager: 2,
	SenioritySenior:  2.7,
	SeniorityVP:      3.5,
	SeniorityCXO:     4.5,
}

var CompanySizeMultipliers = map[CompanySize]float64{
	CompanySmall:      1,   // 0-50
	CompanySME:        1.2, // 50-500
	CompanyMidMarket:  1.4, // 500-5000
	CompanyEnterprise: 1.6, // >5000
}

// GeographySalaryRatios is the average salary of each market relative to the base market.
var GeographySalaryRatios = map[string]float64{
	"us": 1.0,
	"uk": 0.85,
	"ca": 0.75,
	"au": 0.80,
	"de": 0.70,
	"fr": 0.65,
	"jp": 0.60,
	"br": 0.25,
}

// SeniorityLevels and CompanySizes list the bands in ascending order.
var SeniorityLevels = []Seniority{SeniorityEntry, SeniorityManager, SenioritySenior, SeniorityVP, SeniorityCXO}

var CompanySizes = []CompanySize{CompanySmall, CompanySME, CompanyMidMarket, CompanyEnterprise}

type PriceBreakdown struct {
	Geography             string      `json:"geography"`
	Seniority             Seniority   `json:"seniority"`
	CompanySize           CompanySize `json:"company_size"`
	InterviewMinutes      int         `json:"interview_minutes"`
	BaseUnit              float64     `json:"base_unit"`
	GeographyMultiplier   float64     `json:"geography_multiplier"`
	ProfessionalPremium   float64     `json:"professional_premium"`
	SeniorityMultiplier   float64     `json:"seniority_multiplier"`
	CompanySizeMultiplier float64     `json:"company_size_multiplier"`
	Amount                float64     `json:"amount"`
}

// RoundCents rounds to two decimals, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func geographyRatio(geo string) float64 {
	if r, ok := GeographySalaryRatios[geo]; ok {
		return r
	}
	return 1
}

func premiumFor(geo string) float64 {
	if geo == BaseMarket {
		return 1
	}
	return ProfessionalPremium
}

// Quote prices one response for the given market, seniority, company size and interview length.
func Quote(geo string, seniority Seniority, size CompanySize, minutes int) (PriceBreakdown, error) {
	sm, ok := SeniorityMultipliers[seniority]
	if !ok {
		return PriceBreakdown{}, NewInvalidError("unknown seniority: " + string(seniority))
	}
	cm, ok := CompanySizeMultipliers[size]
	if !ok {
		return PriceBreakdown{}, NewInvalidError("unknown company size: " + string(size))
	}
	if minutes < 1 {
		return PriceBreakdown{}, NewInvalidError("interview duration must be at least 1 minute")
	}
	b := PriceBreakdown{
		Geography:             geo,
		Seniority:             seniority,
		CompanySize:           size,
		InterviewMinutes:      minutes,
		BaseUnit:              BaseUnitPrice,
		GeographyMultiplier:   geographyRatio(geo),
		ProfessionalPremium:   premiumFor(geo),
		SeniorityMultiplier:   sm,
		CompanySizeMultiplier: cm,
	}
	raw := b.BaseUnit * b.GeographyMultiplier * b.ProfessionalPremium * b.SeniorityMultiplier * b.CompanySizeMultiplier * float64(minutes)
	b.Amount = RoundCents(raw)
	return b, nil
}

func Price(geo string, seniority Seniority, size CompanySize, minutes int) (float64, error) {
	b, err := Quote(geo, seniority, size, minutes)
	if err != nil {
		return 0, err
	}
	return b.Amount, nil
}

// NewPaymentConfig builds a row for geo with the default targeting and the shared duration.
func NewPaymentConfig(id, geo string, minutes int) (PaymentConfig, error) {
	pc := PaymentConfig{
		ID:                id,
		Geography:         geo,
		Category:          DefaultCategory,
		Seniority:         SeniorityEntry,
		CompanySize:       CompanySME,
		InterviewMinutes:  minutes,
		ExpectedResponses: DefaultExpectedResponses,
	}
	if err := reprice(&pc); err != nil {
		return PaymentConfig{}, err
	}
	return pc, nil
}

// reprice recomputes the derived fields of pc from its inputs.
func reprice(pc *PaymentConfig) error {
	b, err := Quote(pc.Geography, pc.Seniority, pc.CompanySize, pc.InterviewMinutes)
	if err != nil {
		return err
	}
	if pc.ExpectedResponses < 1 {
		return NewInvalidError("expected responses must be at least 1")
	}
	pc.BaseUnit = b.BaseUnit
	pc.GeographyMultiplier = b.GeographyMultiplier
	pc.ProfessionalPremium = b.ProfessionalPremium
	pc.SeniorityMultiplier = b.SeniorityMultiplier
	pc.CompanySizeMultiplier = b.CompanySizeMultiplier
	pc.Amount = b.Amount
	pc.TotalCost = pc.Amount * float64(pc.ExpectedResponses)
	return nil
}

// PaymentConfigPatch carries the per-row inputs an operator may change. Nil fields are untouched.
type PaymentConfigPatch struct {
	Geography         *string      `json:"geography,omitempty"`
	Category          *string      `json:"category,omitempty"`
	Seniority         *Seniority   `json:"seniority,omitempty"`
	CompanySize       *CompanySize `json:"company_size,omitempty"`
	ExpectedResponses *int         `json:"expected_responses,omitempty"`
}

func (p PaymentConfigPatch) apply(pc PaymentConfig) (PaymentConfig, error) {
	if p.Geography != nil {
		if _, ok := LookupGeography(*p.Geography); !ok {
			return pc, NewInvalidError("unknown geography: " + *p.Geography)
		}
		pc.Geography = *p.Geography
	}
	if p.Category != nil {
		if _, ok := LookupCategory(*p.Category); !ok {
			return pc, NewInvalidError("unknown category: " + *p.Category)
		}
		pc.Category = *p.Category
	}
	if p.Seniority != nil {
		pc.Seniority = *p.Seniority
	}
	if p.CompanySize != nil {
		pc.CompanySize = *p.CompanySize
	}
	if p.ExpectedResponses != nil {
		pc.ExpectedResponses = *p.ExpectedResponses
	}
	if err := reprice(&pc); err != nil {
		return pc, err
	}
	return pc, nil
}

type PricingSummary struct {
	Configs        int     `json:"configs"`
	Subtotal       float64 `json:"subtotal"`
	ServiceCharge  float64 `json:"service_charge"`
	GrandTotal     float64 `json:"grand_total"`
	TotalResponses int     `json:"total_responses"`
	AveragePrice   float64 `json:"average_price"`
}

func SummarizePricing(configs []PaymentConfig) PricingSummary {
	s := PricingSummary{Configs: len(configs)}
	for _, c := range configs {
		s.Subtotal += c.TotalCost
		s.TotalResponses += c.ExpectedResponses
	}
	s.ServiceCharge = s.Subtotal * ServiceChargeRate
	s.GrandTotal = s.Subtotal + s.ServiceCharge
	if s.TotalResponses > 0 {
		s.AveragePrice = s.Subtotal / float64(s.TotalResponses)
	}
	return s
}
