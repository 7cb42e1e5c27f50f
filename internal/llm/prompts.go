package llm

import (
	"fmt"
	"strings"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

// Variant selects how strictly the judge reads borderline answers.
type Variant string

const (
	// VariantStrict accepts only answers that fully match the expected one.
	VariantStrict Variant = "strict"
	// VariantStandard is the default.
	VariantStandard Variant = "standard"
	// VariantLenient gives credit for partially complete answers.
	VariantLenient Variant = "lenient"
)

var validVariants = map[Variant]bool{
	VariantStrict:   true,
	VariantStandard: true,
	VariantLenient:  true,
}

// IsValidVariant checks if a judge variant name is valid.
func IsValidVariant(v string) bool {
	return validVariants[Variant(v)]
}

func buildJudgeSystemPrompt(variant Variant) string {
	var sb strings.Builder
	sb.WriteString("You are grading a student's answer to a lesson question.\n")
	switch variant {
	case VariantStrict:
		sb.WriteString("Mark the answer correct only if it fully matches the expected answer in substance. When in doubt, mark it incorrect.\n")
	case VariantLenient:
		sb.WriteString("Mark the answer correct if it shows the student understood the main idea, even if details are missing.\n")
	default:
		sb.WriteString("Mark the answer correct if it conveys the same meaning as the expected answer.\n")
	}
	sb.WriteString("\nRespond with exactly one word: correct or incorrect. No punctuation, no explanation.\n")
	return sb.String()
}

func buildJudgeUserPrompt(question, studentAnswer, expected string) string {
	var sb strings.Builder
	sb.WriteString("QUESTION: " + question + "\n\n")
	sb.WriteString("EXPECTED ANSWER (not shown to student): " + expected + "\n\n")
	sb.WriteString("STUDENT ANSWER: " + studentAnswer + "\n")
	return sb.String()
}

const summarySystemPrompt = "You write one-sentence progress summaries for a student dashboard. " +
	"Be encouraging and concrete. Respond with the sentence only."

func buildSummaryUserPrompt(student model.StudentData) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The student has %d stars overall.\n", student.StarScore))
	sb.WriteString("Lessons and stars earned:\n")
	for _, l := range student.Lessons {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", l.Title, l.Stars))
	}
	return sb.String()
}
