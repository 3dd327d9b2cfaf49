package locale

import "testing"

func TestResolveEveryIntentAndLanguage(t *testing.T) {
	for _, intentKey := range Intents() {
		for _, lang := range Languages() {
			if got := Resolve(intentKey, lang); got == "" {
				t.Errorf("Resolve(%q, %q) returned empty text", intentKey, lang)
			}
		}
	}
}

func TestResolveUnknownLanguageFallsBackToEnglish(t *testing.T) {
	want := Resolve("Welcome", LangEnglish)
	for _, lang := range []string{"", "fr", "EN", "hindi"} {
		if got := Resolve("Welcome", lang); got != want {
			t.Errorf("Resolve(Welcome, %q) = %q, want English text %q", lang, got, want)
		}
	}
}

func TestResolveUnknownIntentUsesFallback(t *testing.T) {
	got := Resolve("OrderPizza", LangHindi)
	want := Resolve(FallbackKey, LangHindi)
	if got != want {
		t.Errorf("Resolve(OrderPizza, hi) = %q, want fallback %q", got, want)
	}
	if got == "" {
		t.Fatal("fallback text must never be empty")
	}
}

func TestSupported(t *testing.T) {
	for _, lang := range Languages() {
		if !Supported(lang) {
			t.Errorf("Supported(%q) = false", lang)
		}
	}
	if Supported("fr") {
		t.Error("Supported(fr) = true, want false")
	}
	if Supported("") {
		t.Error("Supported(\"\") = true, want false")
	}
}
