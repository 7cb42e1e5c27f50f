package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "LessonNotFound")
	if got != "Lesson not found." {
		t.Errorf("T(LessonNotFound) = %q, want 'Lesson not found.'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "LessonNotFound")
	if got != "Урок не найден." {
		t.Errorf("T(LessonNotFound) = %q, want 'Урок не найден.'", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "GradedCount", map[string]any{"Count": 4})
	if got != "Graded 4 answers." {
		t.Errorf("Td(GradedCount, Count=4) = %q, want 'Graded 4 answers.'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestSummaryFallbackPresentInAllLocales(t *testing.T) {
	for _, lang := range []string{"en", "ru"} {
		ctx := initLang(t, lang)
		got := T(ctx, "SummaryFallback")
		if got == "SummaryFallback" || got == "" {
			t.Errorf("locale %s missing SummaryFallback", lang)
		}
	}
}
