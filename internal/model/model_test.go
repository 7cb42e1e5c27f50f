package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Rule
		ok   bool
	}{
		{
			"exact match",
			`{"type":"exact-match","answer":"yes"}`,
			ExactMatch{Answer: "yes"},
			true,
		},
		{
			"llm check",
			`{"type":"llm-check","question":"Why?","expected_answer":"Because."}`,
			LlmCheck{Question: "Why?", Expected: "Because."},
			true,
		},
		{
			"legacy numeric",
			`{"numeric":{"value":5,"tolerance":0.1}}`,
			Numeric{Value: 5, Tolerance: 0.1},
			true,
		},
		{
			"legacy contains",
			`{"contains":{"keywords":["light","water"],"min_matches":2}}`,
			Contains{Keywords: []string{"light", "water"}, MinMatches: 2},
			true,
		},
		{
			"negative tolerance clamped",
			`{"numeric":{"value":5,"tolerance":-1}}`,
			Numeric{Value: 5, Tolerance: 0},
			true,
		},
		{
			"missing min_matches defaults to 1",
			`{"contains":{"keywords":["a"]}}`,
			Contains{Keywords: []string{"a"}, MinMatches: 1},
			true,
		},
		{"unknown shape", `{"something":"else"}`, nil, false},
		{"unknown type tag", `{"type":"essay"}`, nil, false},
		{"not JSON", `{oops`, nil, false},
		{"empty", ``, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRule(json.RawMessage(tt.raw))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			switch want := tt.want.(type) {
			case ExactMatch:
				if got != want {
					t.Errorf("got %#v, want %#v", got, want)
				}
			case LlmCheck:
				if got != want {
					t.Errorf("got %#v, want %#v", got, want)
				}
			case Numeric:
				if got != want {
					t.Errorf("got %#v, want %#v", got, want)
				}
			case Contains:
				gc, okc := got.(Contains)
				if !okc || gc.MinMatches != want.MinMatches || len(gc.Keywords) != len(want.Keywords) {
					t.Errorf("got %#v, want %#v", got, want)
				}
			}
		})
	}
}

func TestParseRuleTypeTagPriority(t *testing.T) {
	// Explicit type tags win over legacy key presence.
	raw := json.RawMessage(`{"type":"llm-check","question":"Q","expected_answer":"A","contains":{"keywords":["x"]}}`)
	got, ok := ParseRule(raw)
	if !ok {
		t.Fatal("expected a rule")
	}
	if _, isCheck := got.(LlmCheck); !isCheck {
		t.Errorf("got %#v, want LlmCheck", got)
	}

	// Among legacy shapes, numeric is checked before contains.
	raw = json.RawMessage(`{"numeric":{"value":1,"tolerance":0},"contains":{"keywords":["x"]}}`)
	got, ok = ParseRule(raw)
	if !ok {
		t.Fatal("expected a rule")
	}
	if _, isNum := got.(Numeric); !isNum {
		t.Errorf("got %#v, want Numeric", got)
	}
}

func TestValidationError(t *testing.T) {
	err := Validationf("missing %s", "markdown")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if ve.Msg != "missing markdown" {
		t.Errorf("Msg = %q", ve.Msg)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("ValidationError must not match ErrNotFound")
	}
}
