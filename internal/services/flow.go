package services

import (
	"strconv"
	"strings"
)

type Step string

const (
	StepLanding               Step = "landing"
	StepPaymentConfiguration  Step = "payment-configuration"
	StepRedirectLinksReceived Step = "redirect-links-received"
	StepLiveLinksGeneration   Step = "live-links-generation"
	StepScreenerConfiguration Step = "screener-configuration"
	StepParticipantSelection  Step = "participant-selection"
	StepFlowReview            Step = "flow-review"
	StepFlowActive            Step = "flow-active"
)

// Steps is the wizard order. The first step is the initial one and the last is terminal.
var Steps = []Step{
	StepLanding,
	StepPaymentConfiguration,
	StepRedirectLinksReceived,
	StepLiveLinksGeneration,
	StepScreenerConfiguration,
	StepParticipantSelection,
	StepFlowReview,
	StepFlowActive,
}

// StepIndex returns the position of s in Steps, or -1.
func StepIndex(s Step) int {
	for i, v := range Steps {
		if v == s {
			return i
		}
	}
	return -1
}

func ParseStep(s string) (Step, error) {
	st := Step(strings.TrimSpace(s))
	if StepIndex(st) < 0 {
		return "", NewInvalidError("unknown step: " + s)
	}
	return st, nil
}

type Progress struct {
	Visible bool    `json:"visible"`
	Number  int     `json:"number"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label,omitempty"`
}

// ProgressOf computes the wizard indicator. The landing step shows none.
func ProgressOf(s Step) Progress {
	total := len(Steps) - 1
	idx := StepIndex(s)
	if idx <= 0 {
		return Progress{Total: total}
	}
	return Progress{
		Visible: true,
		Number:  idx,
		Total:   total,
		Percent: float64(idx) / float64(total) * 100,
		Label:   "Step " + strconv.Itoa(idx) + " of " + strconv.Itoa(total),
	}
}

// NewFlowState returns an empty flow positioned on the landing step.
func NewFlowState(id, host string) FlowState {
	if host == "" {
		host = DefaultLinkHost
	}
	return FlowState{
		ID:                    id,
		CurrentStep:           StepLanding,
		Geographies:           []Geography{},
		Categories:            []Category{},
		RedirectLinks:         DefaultRedirectLinks(),
		LiveLinks:             []LiveLink{},
		Screeners:             []Screener{},
		PaymentConfigs:        []PaymentConfig{},
		ParticipantSelections: []ParticipantSelection{},
		InterviewMinutes:      DefaultInterviewMinutes,
		LinkHost:              host,
		ScreenerGeneration:    GenerationTask{Status: TaskIdle},
		Status:                FlowDraft,
	}
}

// Clone deep-copies the state so a reduction never aliases its input.
func (s FlowState) Clone() FlowState {
	out := s
	if s.Requirement != nil {
		r := *s.Requirement
		out.Requirement = &r
	}
	out.Geographies = append([]Geography{}, s.Geographies...)
	out.Categories = append([]Category{}, s.Categories...)
	out.RedirectLinks = append([]RedirectLink{}, s.RedirectLinks...)
	out.LiveLinks = append([]LiveLink{}, s.LiveLinks...)
	out.Screeners = cloneScreeners(s.Screeners)
	if out.Screeners == nil {
		out.Screeners = []Screener{}
	}
	out.PaymentConfigs = append([]PaymentConfig{}, s.PaymentConfigs...)
	out.ParticipantSelections = make([]ParticipantSelection, len(s.ParticipantSelections))
	for i, sel := range s.ParticipantSelections {
		out.ParticipantSelections[i] = sel
		out.ParticipantSelections[i].SelectedParticipants = append([]string{}, sel.SelectedParticipants...)
	}
	return out
}

// Command is one of the closed set of flow mutations below.
type Command interface {
	apply(s *FlowState) error
}

// linkInput marks commands whose effect can change the live-link set.
type linkInput interface {
	Command
	regeneratesLinks()
}

// Reduce applies cmd to a copy of s. On error the input state is returned unchanged.
// After commands touching the requirement, selections or payment configs the live links are
// rebuilt (when a requirement is set) and participant selections re-synced.
func Reduce(s FlowState, cmd Command) (FlowState, error) {
	if cmd == nil {
		return s, NewInvalidError("nil command")
	}
	next := s.Clone()
	if err := cmd.apply(&next); err != nil {
		return s, err
	}
	if _, ok := cmd.(linkInput); ok && next.Requirement != nil {
		regenerate(&next)
	}
	return next, nil
}

func regenerate(s *FlowState) {
	pattern := LinkPatternSingle
	if s.Requirement != nil {
		pattern = s.Requirement.LiveLinkPattern
	}
	s.LiveLinks = GenerateLiveLinks(s.LinkHost, pattern, s.Geographies, s.Categories, s.PaymentConfigs)
	s.ParticipantSelections = SyncSelections(s.LiveLinks, s.ParticipantSelections)
}

func catalogEntry(r FlowRequirement) (*FlowRequirement, error) {
	known, ok := RequirementByID(r.ID)
	if !ok {
		return nil, NewInvalidError("unknown requirement id " + strconv.Itoa(r.ID))
	}
	for _, cand := range []FlowRequirement{known, detectedRequirement(r.ID)} {
		if cand.LiveLinkPattern == r.LiveLinkPattern && cand.ScreenerPattern == r.ScreenerPattern {
			return &cand, nil
		}
	}
	return nil, NewInvalidError("requirement " + strconv.Itoa(r.ID) + " does not match catalog")
}

// SetRequirement replaces the requirement. A nil requirement clears it.
type SetRequirement struct{ Requirement *FlowRequirement }

func (c SetRequirement) apply(s *FlowState) error {
	if c.Requirement == nil {
		s.Requirement = nil
		return nil
	}
	r, err := catalogEntry(*c.Requirement)
	if err != nil {
		return err
	}
	s.Requirement = r
	return nil
}
func (SetRequirement) regeneratesLinks() {}

type SelectRequirement struct{ ID int }

func (c SelectRequirement) apply(s *FlowState) error {
	r, ok := RequirementByID(c.ID)
	if !ok {
		return NewInvalidError("unknown requirement id " + strconv.Itoa(c.ID))
	}
	s.Requirement = &r
	return nil
}
func (SelectRequirement) regeneratesLinks() {}

type SetGeographies struct{ IDs []string }

func (c SetGeographies) apply(s *FlowState) error {
	geos, err := ResolveGeographies(c.IDs)
	if err != nil {
		return err
	}
	s.Geographies = geos
	return nil
}
func (SetGeographies) regeneratesLinks() {}

type SetCategories struct{ IDs []string }

func (c SetCategories) apply(s *FlowState) error {
	cats, err := ResolveCategories(c.IDs)
	if err != nil {
		return err
	}
	s.Categories = cats
	return nil
}
func (SetCategories) regeneratesLinks() {}

// SetRedirectLinks stores the four redirect links. Each purpose must appear once with a URL.
type SetRedirectLinks struct{ Links []RedirectLink }

func (c SetRedirectLinks) apply(s *FlowState) error {
	defaults := DefaultRedirectLinks()
	byPurpose := map[RedirectPurpose]RedirectLink{}
	for _, l := range c.Links {
		if _, dup := byPurpose[l.Purpose]; dup {
			return NewInvalidError("duplicate redirect purpose: " + string(l.Purpose))
		}
		byPurpose[l.Purpose] = l
	}
	out := make([]RedirectLink, 0, len(defaults))
	for _, d := range defaults {
		l, ok := byPurpose[d.Purpose]
		if !ok {
			return NewInvalidError("missing redirect link: " + string(d.Purpose))
		}
		delete(byPurpose, d.Purpose)
		l.URL = strings.TrimSpace(l.URL)
		if l.URL == "" {
			return NewInvalidError("redirect link url required: " + string(d.Purpose))
		}
		if l.ID == "" {
			l.ID = d.ID
		}
		if strings.TrimSpace(l.Label) == "" {
			l.Label = d.Label
		}
		out = append(out, l)
	}
	if len(byPurpose) > 0 {
		return NewInvalidError("unknown redirect purpose")
	}
	s.RedirectLinks = out
	return nil
}

// RedirectLinksComplete reports whether every redirect link has a URL.
func RedirectLinksComplete(links []RedirectLink) bool {
	if len(links) != len(DefaultRedirectLinks()) {
		return false
	}
	for _, l := range links {
		if strings.TrimSpace(l.URL) == "" {
			return false
		}
	}
	return true
}

type SetScreeners struct{ Screeners []Screener }

func (c SetScreeners) apply(s *FlowState) error {
	seen := map[string]bool{}
	for _, sc := range c.Screeners {
		if sc.ID == "" || seen[sc.ID] {
			return NewInvalidError("screener ids must be unique and non-empty")
		}
		seen[sc.ID] = true
		for _, q := range sc.Questions {
			if err := validateQuestion(q); err != nil {
				return err
			}
		}
	}
	s.Screeners = cloneScreeners(c.Screeners)
	if s.Screeners == nil {
		s.Screeners = []Screener{}
	}
	return nil
}

func nextConfigID(configs []PaymentConfig) string {
	used := map[string]bool{}
	for _, c := range configs {
		used[c.ID] = true
	}
	for n := len(configs) + 1; ; n++ {
		id := "pc-" + strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

// SetPaymentConfigs replaces every row. Rows take the shared duration and are repriced.
// Empty category, seniority, size and a zero response count take the new-row defaults.
type SetPaymentConfigs struct{ Configs []PaymentConfig }

func (c SetPaymentConfigs) apply(s *FlowState) error {
	out := make([]PaymentConfig, 0, len(c.Configs))
	seen := map[string]bool{}
	assigned := append([]PaymentConfig{}, c.Configs...)
	for i, pc := range c.Configs {
		if pc.ID == "" {
			pc.ID = nextConfigID(assigned)
			assigned[i].ID = pc.ID
		}
		if seen[pc.ID] {
			return NewInvalidError("duplicate payment config id: " + pc.ID)
		}
		seen[pc.ID] = true
		if _, ok := LookupGeography(pc.Geography); !ok {
			return NewInvalidError("unknown geography: " + pc.Geography)
		}
		fillConfigDefaults(&pc)
		if _, ok := LookupCategory(pc.Category); !ok {
			return NewInvalidError("unknown category: " + pc.Category)
		}
		pc.InterviewMinutes = s.InterviewMinutes
		if err := reprice(&pc); err != nil {
			return err
		}
		out = append(out, pc)
	}
	s.PaymentConfigs = out
	return nil
}
func (SetPaymentConfigs) regeneratesLinks() {}

func fillConfigDefaults(pc *PaymentConfig) {
	if pc.Category == "" {
		pc.Category = DefaultCategory
	}
	if pc.Seniority == "" {
		pc.Seniority = SeniorityEntry
	}
	if pc.CompanySize == "" {
		pc.CompanySize = CompanySME
	}
	if pc.ExpectedResponses == 0 {
		pc.ExpectedResponses = DefaultExpectedResponses
	}
}

// AddPaymentConfig appends a default row for Geography.
type AddPaymentConfig struct {
	Geography string
	ID        string
}

func (c AddPaymentConfig) apply(s *FlowState) error {
	if _, ok := LookupGeography(c.Geography); !ok {
		return NewInvalidError("unknown geography: " + c.Geography)
	}
	id := c.ID
	if id == "" {
		id = nextConfigID(s.PaymentConfigs)
	}
	for _, pc := range s.PaymentConfigs {
		if pc.ID == id {
			return NewConflictError("payment config exists: " + id)
		}
	}
	pc, err := NewPaymentConfig(id, c.Geography, s.InterviewMinutes)
	if err != nil {
		return err
	}
	s.PaymentConfigs = append(s.PaymentConfigs, pc)
	return nil
}
func (AddPaymentConfig) regeneratesLinks() {}

type UpdatePaymentConfig struct {
	ID    string
	Patch PaymentConfigPatch
}

func (c UpdatePaymentConfig) apply(s *FlowState) error {
	for i, pc := range s.PaymentConfigs {
		if pc.ID != c.ID {
			continue
		}
		updated, err := c.Patch.apply(pc)
		if err != nil {
			return err
		}
		s.PaymentConfigs[i] = updated
		return nil
	}
	return NewNotFoundError("payment config not found: " + c.ID)
}
func (UpdatePaymentConfig) regeneratesLinks() {}

type RemovePaymentConfig struct{ ID string }

func (c RemovePaymentConfig) apply(s *FlowState) error {
	for i, pc := range s.PaymentConfigs {
		if pc.ID == c.ID {
			s.PaymentConfigs = append(s.PaymentConfigs[:i], s.PaymentConfigs[i+1:]...)
			return nil
		}
	}
	return NewNotFoundError("payment config not found: " + c.ID)
}
func (RemovePaymentConfig) regeneratesLinks() {}

// SetInterviewDuration changes the shared length of interview, clamped to at least one
// minute, and reprices every row. Expected responses are left alone.
type SetInterviewDuration struct{ Minutes int }

func (c SetInterviewDuration) apply(s *FlowState) error {
	m := c.Minutes
	if m < 1 {
		m = 1
	}
	s.InterviewMinutes = m
	for i := range s.PaymentConfigs {
		s.PaymentConfigs[i].InterviewMinutes = m
		if err := reprice(&s.PaymentConfigs[i]); err != nil {
			return err
		}
	}
	return nil
}
func (SetInterviewDuration) regeneratesLinks() {}

// CommitPricing derives the selected geographies and categories from the payment rows and
// infers the requirement from their counts.
type CommitPricing struct{}

func (CommitPricing) apply(s *FlowState) error {
	geos := []Geography{}
	cats := []Category{}
	seenG := map[string]bool{}
	seenC := map[string]bool{}
	for _, pc := range s.PaymentConfigs {
		if !seenG[pc.Geography] {
			if g, ok := LookupGeography(pc.Geography); ok {
				geos = append(geos, g)
				seenG[pc.Geography] = true
			}
		}
		if !seenC[pc.Category] {
			if c, ok := LookupCategory(pc.Category); ok {
				cats = append(cats, c)
				seenC[pc.Category] = true
			}
		}
	}
	s.Geographies = geos
	s.Categories = cats
	r := InferRequirement(len(geos), len(cats))
	s.Requirement = &r
	return nil
}
func (CommitPricing) regeneratesLinks() {}

type RegenerateLiveLinks struct{}

func (RegenerateLiveLinks) apply(s *FlowState) error { return nil }
func (RegenerateLiveLinks) regeneratesLinks()         {}

// RegenerateScreeners rebuilds the template screener set for the current requirement.
type RegenerateScreeners struct{}

func (RegenerateScreeners) apply(s *FlowState) error {
	pattern := ScreenerPatternSingle
	if s.Requirement != nil {
		pattern = s.Requirement.ScreenerPattern
	}
	s.Screeners = GenerateScreeners(pattern, s.Categories)
	return nil
}

type AddScreenerQuestion struct {
	ScreenerID string
	Question   ScreenerQuestion
}

func (c AddScreenerQuestion) apply(s *FlowState) error {
	out, _, err := AddQuestion(s.Screeners, c.ScreenerID, c.Question)
	if err != nil {
		return err
	}
	s.Screeners = out
	return nil
}

type UpdateScreenerQuestion struct {
	ScreenerID string
	QuestionID string
	Patch      QuestionPatch
}

func (c UpdateScreenerQuestion) apply(s *FlowState) error {
	out, err := UpdateQuestion(s.Screeners, c.ScreenerID, c.QuestionID, c.Patch)
	if err != nil {
		return err
	}
	s.Screeners = out
	return nil
}

type RemoveScreenerQuestion struct {
	ScreenerID string
	QuestionID string
}

func (c RemoveScreenerQuestion) apply(s *FlowState) error {
	out, err := RemoveQuestion(s.Screeners, c.ScreenerID, c.QuestionID)
	if err != nil {
		return err
	}
	s.Screeners = out
	return nil
}

type AddQuestionOption struct {
	ScreenerID string
	QuestionID string
	Label      string
}

func (c AddQuestionOption) apply(s *FlowState) error {
	out, err := AddOption(s.Screeners, c.ScreenerID, c.QuestionID, c.Label)
	if err != nil {
		return err
	}
	s.Screeners = out
	return nil
}

type RemoveQuestionOption struct {
	ScreenerID string
	QuestionID string
	Index      int
}

func (c RemoveQuestionOption) apply(s *FlowState) error {
	out, err := RemoveOption(s.Screeners, c.ScreenerID, c.QuestionID, c.Index)
	if err != nil {
		return err
	}
	s.Screeners = out
	return nil
}

// SetParticipantSelections replaces picks. Every selection must name a current live link.
type SetParticipantSelections struct{ Selections []ParticipantSelection }

func (c SetParticipantSelections) apply(s *FlowState) error {
	links := map[string]LiveLink{}
	for _, l := range s.LiveLinks {
		links[l.ID] = l
	}
	prev := make([]ParticipantSelection, 0, len(c.Selections))
	for _, sel := range c.Selections {
		if _, ok := links[sel.LiveLinkID]; !ok {
			return NewInvalidError("unknown live link: " + sel.LiveLinkID)
		}
		for _, pid := range sel.SelectedParticipants {
			if !knownParticipant(pid) {
				return NewInvalidError("unknown participant: " + pid)
			}
		}
		prev = append(prev, sel)
	}
	s.ParticipantSelections = SyncSelections(s.LiveLinks, prev)
	return nil
}

type ToggleParticipant struct {
	LiveLinkID    string
	ParticipantID string
}

func (c ToggleParticipant) apply(s *FlowState) error {
	if !knownParticipant(c.ParticipantID) {
		return NewInvalidError("unknown participant: " + c.ParticipantID)
	}
	for i, sel := range s.ParticipantSelections {
		if sel.LiveLinkID == c.LiveLinkID {
			s.ParticipantSelections[i].SelectedParticipants = toggleID(sel.SelectedParticipants, c.ParticipantID)
			return nil
		}
	}
	return NewNotFoundError("live link not found: " + c.LiveLinkID)
}

func knownParticipant(id string) bool {
	for _, p := range participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// SetScreenerGeneration records the generation task. On success the generated set replaces
// the screeners; any other status leaves them untouched.
type SetScreenerGeneration struct {
	Task      GenerationTask
	Screeners []Screener
}

func (c SetScreenerGeneration) apply(s *FlowState) error {
	switch c.Task.Status {
	case TaskIdle, TaskPending, TaskFailure:
	case TaskSuccess:
		s.Screeners = cloneScreeners(c.Screeners)
		if s.Screeners == nil {
			s.Screeners = []Screener{}
		}
	default:
		return NewInvalidError("unknown task status: " + string(c.Task.Status))
	}
	s.ScreenerGeneration = c.Task
	return nil
}

// GoTo jumps to any known step. Prerequisites are not checked.
type GoTo struct{ Step Step }

func (c GoTo) apply(s *FlowState) error {
	if StepIndex(c.Step) < 0 {
		return NewInvalidError("unknown step: " + string(c.Step))
	}
	s.CurrentStep = c.Step
	return nil
}

type Advance struct{}

func (Advance) apply(s *FlowState) error {
	i := StepIndex(s.CurrentStep) + 1
	if i >= len(Steps) {
		i = len(Steps) - 1
	}
	s.CurrentStep = Steps[i]
	return nil
}

type Retreat struct{}

func (Retreat) apply(s *FlowState) error {
	i := StepIndex(s.CurrentStep) - 1
	if i < 0 {
		i = 0
	}
	s.CurrentStep = Steps[i]
	return nil
}

// Reset returns the flow to its initial shape, keeping identity and the link host.
type Reset struct{}

func (Reset) apply(s *FlowState) error {
	fresh := NewFlowState(s.ID, s.LinkHost)
	fresh.TenantID = s.TenantID
	fresh.Name = s.Name
	fresh.CreatedAt = s.CreatedAt
	fresh.UpdatedAt = s.UpdatedAt
	*s = fresh
	return nil
}
