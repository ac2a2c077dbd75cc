package i18n

import "testing"

func TestFormatsPerLanguage(t *testing.T) {
	if got := T(Russian, "test_question", 2, 10); got != "Вопрос 2/10" {
		t.Fatalf("unexpected ru text %q", got)
	}
	if got := T(Kazakh, "test_question", 2, 10); got != "Сұрақ 2/10" {
		t.Fatalf("unexpected kz text %q", got)
	}
	if got := T(English, "wrong_answer", "B"); got != "❌ Wrong. Correct answer: B" {
		t.Fatalf("unexpected en text %q", got)
	}
}

func TestAdminStringsFallBackToRussian(t *testing.T) {
	for _, lang := range []string{Kazakh, English} {
		for _, key := range []string{"admin_panel", "wizard_day", "not_admin", "wizard_saved"} {
			if got := T(lang, key); got != T(Russian, key) {
				t.Fatalf("%s/%s: expected russian fallback, got %q", lang, key, got)
			}
		}
		want := T(Russian, "field_day", "Monday")
		if got := T(lang, "field_day", "Monday"); got != want || got == "field_day" {
			t.Fatalf("%s: expected formatted russian field, got %q", lang, got)
		}
	}
}

func TestEveryLanguageResolvesEveryRussianKey(t *testing.T) {
	for key := range messages[Russian] {
		for _, lang := range Languages {
			if got := T(lang, key); got == key {
				t.Fatalf("%s/%s rendered as the raw key", lang, key)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{"KZ": Kazakh, "kk": Kazakh, " en ": English, "de": Russian, "": Russian}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("normalize %q: expected %q, got %q", in, want, got)
		}
	}
}

func TestDayAndSubjectNames(t *testing.T) {
	if got := Day(Russian, 0); got != "Понедельник" {
		t.Fatalf("unexpected day %q", got)
	}
	if got := Day(English, 6); got != "Sunday" {
		t.Fatalf("unexpected day %q", got)
	}
	if got := Subject(English, "physics"); got != "Physics" {
		t.Fatalf("unexpected subject %q", got)
	}
	if got := Subject(English, "chemistry"); got != "chemistry" {
		t.Fatalf("expected raw id for unknown subject, got %q", got)
	}
}

func TestResultPercentSign(t *testing.T) {
	want := "📊 Test result\n\nCorrect answers: 3/3\nPercentage: 100%\nPoints earned: +30"
	if got := T(English, "test_result", 3, 3, 100, 30); got != want {
		t.Fatalf("unexpected result %q", got)
	}
}
