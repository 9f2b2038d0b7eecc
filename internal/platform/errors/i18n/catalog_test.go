package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	for _, locale := range []string{"", "missing-locale", "fr-FR"} {
		if got := GetCatalog(locale); got != base {
			t.Fatalf("GetCatalog(%q) = %q, want en-US", locale, got.Locale())
		}
	}
}

func TestGetCatalogMatchesLanguage(t *testing.T) {
	for _, locale := range []string{"pt-BR", "pt", " pt-BR "} {
		if got := GetCatalog(locale).Locale(); got != "pt-BR" {
			t.Fatalf("GetCatalog(%q) = %q, want pt-BR", locale, got)
		}
	}
	if got := GetCatalog("en-GB").Locale(); got != "en-US" {
		t.Fatalf("GetCatalog(en-GB) = %q, want en-US", got)
	}
}

func TestFormatDiceMessages(t *testing.T) {
	cat := GetCatalog("en-US")
	got := cat.Format(CodeDiceRange, map[string]string{"Token": "set count", "Min": "2", "Max": "20", "Value": "25"})
	if want := "set count must be between 2 and 20, got 25"; got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
	got = cat.Format(CodeDiceSyntax, map[string]string{"Token": "x", "Position": "3"})
	if want := `Invalid dice notation near "x" at position 3`; got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
	got = GetCatalog("pt-BR").Format(CodeDiceLimitExceeded, map[string]string{"Token": "dice", "Limit": "500"})
	if want := "dice excede o limite de 500"; got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestCatalogsCoverSameCodes(t *testing.T) {
	for code := range enUSMessages {
		if _, ok := ptBRMessages[code]; !ok {
			t.Errorf("pt-BR missing %s", code)
		}
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestFormatTemplateExecutionErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ call .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ call .Name }}" {
		t.Fatal("expected template fallback on execute error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
