package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultTitle is used when a lesson's markdown carries no level-3 heading.
const DefaultTitle = "Untitled Lesson"

// ErrNotFound reports a missing lesson document.
var ErrNotFound = errors.New("lesson not found")

// ValidationError reports missing or malformed input to a save operation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Lesson is the persisted per-slug document.
// Title is stored for readers of the raw document, but it is always
// re-derived from the markdown heading on save; the heading is the
// source of truth.
type Lesson struct {
	Title     string                     `json:"title"`
	Markdown  string                     `json:"markdown_content"`
	AnswerKey map[string]json.RawMessage `json:"answer_key"`
}

// Verdict is the outcome of grading a single answer.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
	// VerdictNoRule means the answer key has no rule for the question.
	// Distinct from incorrect.
	VerdictNoRule Verdict = "no-rule"
)

// Feedback maps question IDs to verdicts for one submission.
type Feedback map[string]Verdict

// Rule is a grading policy for one question. Exactly one of the concrete
// variants below implements it.
type Rule interface {
	isRule()
}

// ExactMatch grades by case-insensitive, whitespace-trimmed equality.
type ExactMatch struct {
	Answer string
}

// LlmCheck delegates grading to the remote judge.
type LlmCheck struct {
	Question string
	Expected string
}

// Numeric is the legacy tolerance rule: |answer - Value| <= Tolerance.
type Numeric struct {
	Value     float64
	Tolerance float64
}

// Contains is the legacy keyword rule: at least MinMatches of Keywords
// appear as case-insensitive substrings of the answer.
type Contains struct {
	Keywords   []string
	MinMatches int
}

func (ExactMatch) isRule() {}
func (LlmCheck) isRule()   {}
func (Numeric) isRule()    {}
func (Contains) isRule()   {}

// rawRule covers every shape a stored rule may take: the newer explicitly
// tagged variants and the legacy key-presence variants.
type rawRule struct {
	Type     string `json:"type"`
	Answer   string `json:"answer"`
	Question string `json:"question"`
	Expected string `json:"expected_answer"`
	Numeric  *struct {
		Value     float64 `json:"value"`
		Tolerance float64 `json:"tolerance"`
	} `json:"numeric"`
	Contains *struct {
		Keywords   []string `json:"keywords"`
		MinMatches int      `json:"min_matches"`
	} `json:"contains"`
}

// ParseRule decodes a stored answer-key entry into its Rule variant.
// Explicit type tags win over the legacy structural shapes, in a fixed
// order: exact-match, llm-check, then the numeric key, then the contains
// key. Anything else returns ok=false and grades as no-rule.
func ParseRule(raw json.RawMessage) (Rule, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var rr rawRule
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, false
	}

	switch rr.Type {
	case "exact-match":
		return ExactMatch{Answer: rr.Answer}, true
	case "llm-check":
		return LlmCheck{Question: rr.Question, Expected: rr.Expected}, true
	}

	if rr.Numeric != nil {
		tol := rr.Numeric.Tolerance
		if tol < 0 {
			tol = 0
		}
		return Numeric{Value: rr.Numeric.Value, Tolerance: tol}, true
	}
	if rr.Contains != nil {
		min := rr.Contains.MinMatches
		if min < 1 {
			min = 1
		}
		return Contains{Keywords: rr.Contains.Keywords, MinMatches: min}, true
	}
	return nil, false
}

// PortalConfig carries serve-time settings shared by handlers.
type PortalConfig struct {
	SeedPath string
	Lang     string
}

// Portal is the static seed document backing the dashboard pages.
type Portal struct {
	Brand   string      `json:"brand"`
	Student StudentData `json:"student"`
	Teacher TeacherData `json:"teacher"`
}

// StudentData backs the student dashboard.
type StudentData struct {
	Initials  string       `json:"initials"`
	StarScore int          `json:"star_score"`
	Summary   string       `json:"summary"`
	Lessons   []LessonStat `json:"lessons"`
}

// LessonStat is one row of the student's lesson progress list.
type LessonStat struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Stars int    `json:"stars"`
}

// TeacherData backs the teacher dashboard.
type TeacherData struct {
	Initials string     `json:"initials"`
	Students []string   `json:"students"`
	Plans    []PlanItem `json:"plans"`
}

// PlanItem is one entry in the teacher's plan list.
type PlanItem struct {
	Month string `json:"month"`
	Day   int    `json:"day"`
	Title string `json:"title"`
}
