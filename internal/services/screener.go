package services

import (
	"fmt"
	"strconv"
	"strings"
)

const GeneralScreenerID = "scr-general"

func choice(text string, required bool, opts ...string) ScreenerQuestion {
	return ScreenerQuestion{Question: text, Type: QuestionSingle, Options: opts, Required: required}
}

func numberQuestions(screenerID string, qs []ScreenerQuestion) []ScreenerQuestion {
	for i := range qs {
		qs[i].ID = screenerID + "-q" + strconv.Itoa(i+1)
	}
	return qs
}

func categoryScreener(c Category) Screener {
	id := "scr-" + c.ID
	return Screener{
		ID:         id,
		CategoryID: c.ID,
		Questions: numberQuestions(id, []ScreenerQuestion{
			choice(fmt.Sprintf("What is your experience level with %s?", c.Name), true,
				"Beginner", "Intermediate", "Advanced", "Expert"),
			choice(fmt.Sprintf("How often do you work with %s related tasks?", c.Name), true,
				"Daily", "Weekly", "Monthly", "Rarely", "Never"),
		}),
	}
}

func generalScreener() Screener {
	return Screener{
		ID: GeneralScreenerID,
		Questions: numberQuestions(GeneralScreenerID, []ScreenerQuestion{
			choice("What is your current employment status?", true,
				"Employed full-time", "Employed part-time", "Self-employed", "Unemployed", "Student", "Retired"),
			choice("Which age group do you belong to?", true,
				"18-24", "25-34", "35-44", "45-54", "55-64", "65+"),
			choice("What is your annual household income?", false,
				"Under $25,000", "$25,000-$49,999", "$50,000-$74,999", "$75,000-$99,999", "$100,000+"),
		}),
	}
}

// GenerateScreeners builds the template screener set: one per category for the multiple
// pattern, a single general screener otherwise.
func GenerateScreeners(pattern ScreenerPattern, cats []Category) []Screener {
	if pattern == ScreenerPatternMultiple {
		out := make([]Screener, 0, len(cats))
		for _, c := range cats {
			out = append(out, categoryScreener(c))
		}
		return out
	}
	return []Screener{generalScreener()}
}

// GenerateAIScreeners returns the canned set produced by the simulated generator.
func GenerateAIScreeners(pattern ScreenerPattern, cats []Category) []Screener {
	base := GenerateScreeners(pattern, cats)
	for i := range base {
		s := &base[i]
		subject := "your professional field"
		if c, ok := LookupCategory(s.CategoryID); ok {
			subject = c.Name
		}
		extra := []ScreenerQuestion{
			choice(fmt.Sprintf("How many years have you worked in %s?", subject), true,
				"Less than 1 year", "1-3 years", "4-7 years", "8-15 years", "More than 15 years"),
			{
				Question: fmt.Sprintf("Which of the following are you responsible for in %s?", subject),
				Type:     QuestionMultiple,
				Options:  []string{"Budget decisions", "Vendor selection", "Team management", "Strategy", "None of the above"},
				Required: true,
			},
			{
				Question: fmt.Sprintf("Briefly describe your current role in %s.", subject),
				Type:     QuestionText,
				Required: false,
			},
		}
		qs := append(s.Questions[:2:2], extra...)
		s.Questions = numberQuestions(s.ID, qs)
	}
	return base
}

// QuestionPatch carries editable question fields. Nil fields are untouched.
type QuestionPatch struct {
	Question *string       `json:"question,omitempty"`
	Type     *QuestionType `json:"type,omitempty"`
	Options  *[]string     `json:"options,omitempty"`
	Required *bool         `json:"required,omitempty"`
}

func cloneScreeners(in []Screener) []Screener {
	if in == nil {
		return nil
	}
	out := make([]Screener, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Questions = make([]ScreenerQuestion, len(s.Questions))
		for j, q := range s.Questions {
			out[i].Questions[j] = q
			if q.Options != nil {
				out[i].Questions[j].Options = append([]string(nil), q.Options...)
			}
		}
	}
	return out
}

func findScreener(screeners []Screener, sid string) (int, error) {
	for i := range screeners {
		if screeners[i].ID == sid {
			return i, nil
		}
	}
	return -1, NewNotFoundError("screener not found: " + sid)
}

func findQuestion(s *Screener, qid string) (int, error) {
	for i := range s.Questions {
		if s.Questions[i].ID == qid {
			return i, nil
		}
	}
	return -1, NewNotFoundError("question not found: " + qid)
}

func nextQuestionID(s *Screener) string {
	used := map[string]bool{}
	for _, q := range s.Questions {
		used[q.ID] = true
	}
	for n := len(s.Questions) + 1; ; n++ {
		id := s.ID + "-q" + strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

func validateQuestion(q ScreenerQuestion) error {
	if !q.Type.Valid() {
		return NewInvalidError("unknown question type: " + string(q.Type))
	}
	if q.Type == QuestionText && len(q.Options) > 0 {
		return NewInvalidError("text questions take no options")
	}
	return nil
}

// AddQuestion appends q to the screener, filling the blank defaults of a new choice question.
func AddQuestion(screeners []Screener, sid string, q ScreenerQuestion) ([]Screener, ScreenerQuestion, error) {
	out := cloneScreeners(screeners)
	i, err := findScreener(out, sid)
	if err != nil {
		return screeners, ScreenerQuestion{}, err
	}
	if q.Type == "" {
		q.Type = QuestionSingle
		q.Required = true
	}
	if q.Type != QuestionText && q.Options == nil {
		q.Options = []string{"Option 1", "Option 2"}
	}
	if err := validateQuestion(q); err != nil {
		return screeners, ScreenerQuestion{}, err
	}
	q.ID = nextQuestionID(&out[i])
	out[i].Questions = append(out[i].Questions, q)
	return out, q, nil
}

func UpdateQuestion(screeners []Screener, sid, qid string, p QuestionPatch) ([]Screener, error) {
	out := cloneScreeners(screeners)
	i, err := findScreener(out, sid)
	if err != nil {
		return screeners, err
	}
	j, err := findQuestion(&out[i], qid)
	if err != nil {
		return screeners, err
	}
	q := out[i].Questions[j]
	if p.Question != nil {
		q.Question = *p.Question
	}
	if p.Type != nil {
		q.Type = *p.Type
		// switching to free text drops the options
		if q.Type == QuestionText && p.Options == nil {
			q.Options = nil
		}
	}
	if p.Options != nil {
		q.Options = append([]string(nil), (*p.Options)...)
	}
	if p.Required != nil {
		q.Required = *p.Required
	}
	if err := validateQuestion(q); err != nil {
		return screeners, err
	}
	out[i].Questions[j] = q
	return out, nil
}

func RemoveQuestion(screeners []Screener, sid, qid string) ([]Screener, error) {
	out := cloneScreeners(screeners)
	i, err := findScreener(out, sid)
	if err != nil {
		return screeners, err
	}
	j, err := findQuestion(&out[i], qid)
	if err != nil {
		return screeners, err
	}
	out[i].Questions = append(out[i].Questions[:j], out[i].Questions[j+1:]...)
	return out, nil
}

// AddOption appends an answer option; an empty label becomes "Option N".
func AddOption(screeners []Screener, sid, qid, label string) ([]Screener, error) {
	out := cloneScreeners(screeners)
	i, err := findScreener(out, sid)
	if err != nil {
		return screeners, err
	}
	j, err := findQuestion(&out[i], qid)
	if err != nil {
		return screeners, err
	}
	q := &out[i].Questions[j]
	if q.Type == QuestionText {
		return screeners, NewInvalidError("text questions take no options")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = "Option " + strconv.Itoa(len(q.Options)+1)
	}
	q.Options = append(q.Options, label)
	return out, nil
}

func RemoveOption(screeners []Screener, sid, qid string, index int) ([]Screener, error) {
	out := cloneScreeners(screeners)
	i, err := findScreener(out, sid)
	if err != nil {
		return screeners, err
	}
	j, err := findQuestion(&out[i], qid)
	if err != nil {
		return screeners, err
	}
	q := &out[i].Questions[j]
	if index < 0 || index >= len(q.Options) {
		return screeners, NewInvalidError("option index out of range")
	}
	q.Options = append(q.Options[:index], q.Options[index+1:]...)
	return out, nil
}

// QuestionCount totals the questions across screeners.
func QuestionCount(screeners []Screener) int {
	n := 0
	for _, s := range screeners {
		n += len(s.Questions)
	}
	return n
}
