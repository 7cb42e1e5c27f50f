// Package grading turns a submission's raw answers into verdicts using the
// lesson's answer key.
package grading

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/evan-fitzpatrick/dynamicactive-LMS/internal/model"
)

// Judge assesses a free-form answer remotely. Errors are absorbed by the
// engine as incorrect, never surfaced to the submitter.
type Judge interface {
	Judge(ctx context.Context, question, studentAnswer, expected string) (bool, error)
}

// KeySource supplies a lesson's answer key by slug.
type KeySource interface {
	AnswerKey(slug string) (map[string]json.RawMessage, error)
}

// maxJudgeCalls bounds concurrent remote judge calls within one submission,
// keeping worst-case latency at ceil(n/maxJudgeCalls) timeouts.
const maxJudgeCalls = 4

// Engine grades submissions.
type Engine struct {
	keys  KeySource
	judge Judge
}

// New creates an Engine.
func New(keys KeySource, judge Judge) *Engine {
	return &Engine{keys: keys, judge: judge}
}

// GradeSubmission grades each (questionID, answer) pair against the
// lesson's answer key. A question with no recognizable rule gets the
// no-rule verdict. Remote judge calls for independent questions run
// concurrently; a failed judge call grades as incorrect.
func (e *Engine) GradeSubmission(ctx context.Context, slug string, answers map[string]string) (model.Feedback, error) {
	key, err := e.keys.AnswerKey(slug)
	if err != nil {
		return nil, err
	}

	feedback := make(model.Feedback, len(answers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxJudgeCalls)

	record := func(qid string, v model.Verdict) {
		mu.Lock()
		feedback[qid] = v
		mu.Unlock()
	}

	for qid, answer := range answers {
		rule, ok := model.ParseRule(key[qid])
		if !ok {
			record(qid, model.VerdictNoRule)
			continue
		}

		check, isRemote := rule.(model.LlmCheck)
		if !isRemote {
			record(qid, gradeLocal(rule, answer))
			continue
		}

		g.Go(func() error {
			correct, err := e.judge.Judge(gctx, check.Question, answer, check.Expected)
			if err != nil {
				slog.Warn("remote judge failed, grading as incorrect",
					"slug", slug, "question", qid, "error", err)
				correct = false
			}
			record(qid, verdict(correct))
			return nil
		})
	}

	// Goroutines never return errors; failures were already absorbed.
	_ = g.Wait()
	return feedback, nil
}

func gradeLocal(rule model.Rule, answer string) model.Verdict {
	switch r := rule.(type) {
	case model.ExactMatch:
		return verdict(strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(r.Answer)))
	case model.Numeric:
		v, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
		if err != nil {
			return model.VerdictIncorrect
		}
		return verdict(math.Abs(v-r.Value) <= r.Tolerance)
	case model.Contains:
		lowered := strings.ToLower(answer)
		matches := 0
		for _, kw := range r.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				matches++
			}
		}
		return verdict(matches >= r.MinMatches)
	default:
		// LlmCheck is handled by the caller; anything else is unreachable.
		return model.VerdictNoRule
	}
}

func verdict(correct bool) model.Verdict {
	if correct {
		return model.VerdictCorrect
	}
	return model.VerdictIncorrect
}
