package services

import "time"

type ScreenerSummary struct {
	ID         string   `json:"id"`
	CategoryID string   `json:"category_id,omitempty"`
	Questions  int      `json:"questions"`
	Preview    []string `json:"preview"`
	More       int      `json:"more"`
}

// FlowReview is the read-only summary shown before activation.
type FlowReview struct {
	FlowID               string            `json:"flow_id"`
	Step                 Step              `json:"step"`
	Progress             Progress          `json:"progress"`
	Requirement          *FlowRequirement  `json:"requirement,omitempty"`
	Geographies          []Geography       `json:"geographies"`
	Categories           []Category        `json:"categories"`
	RedirectLinks        []RedirectLink    `json:"redirect_links"`
	RedirectsComplete    bool              `json:"redirects_complete"`
	LiveLinks            []LiveLink        `json:"live_links"`
	Screeners            []ScreenerSummary `json:"screeners"`
	ScreenerCount        int               `json:"screener_count"`
	QuestionCount        int               `json:"question_count"`
	InterviewMinutes     int               `json:"interview_minutes"`
	Pricing              PricingSummary    `json:"pricing"`
	SelectedParticipants int               `json:"selected_participants"`
	Status               FlowStatus        `json:"status"`
	ActivatedAt          *time.Time        `json:"activated_at,omitempty"`
}

func ReviewFlow(f FlowState) FlowReview {
	r := FlowReview{
		FlowID:               f.ID,
		Step:                 f.CurrentStep,
		Progress:             ProgressOf(f.CurrentStep),
		Requirement:          f.Requirement,
		Geographies:          f.Geographies,
		Categories:           f.Categories,
		RedirectLinks:        f.RedirectLinks,
		RedirectsComplete:    RedirectLinksComplete(f.RedirectLinks),
		LiveLinks:            f.LiveLinks,
		Screeners:            make([]ScreenerSummary, 0, len(f.Screeners)),
		ScreenerCount:        len(f.Screeners),
		QuestionCount:        QuestionCount(f.Screeners),
		InterviewMinutes:     f.InterviewMinutes,
		Pricing:              SummarizePricing(f.PaymentConfigs),
		SelectedParticipants: TotalSelected(f.ParticipantSelections),
		Status:               f.Status,
	}
	for _, s := range f.Screeners {
		sum := ScreenerSummary{ID: s.ID, CategoryID: s.CategoryID, Questions: len(s.Questions), Preview: []string{}}
		for i, q := range s.Questions {
			if i == 2 {
				sum.More = len(s.Questions) - 2
				break
			}
			sum.Preview = append(sum.Preview, q.Question)
		}
		r.Screeners = append(r.Screeners, sum)
	}
	if !f.ActivatedAt.IsZero() {
		t := f.ActivatedAt
		r.ActivatedAt = &t
	}
	return r
}
