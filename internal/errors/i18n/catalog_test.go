package i18n

import (
	"strings"
	"testing"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog(""); got != base {
		t.Fatal("expected empty locale to resolve to en-US")
	}
	if got := GetCatalog("not a locale"); got != base {
		t.Fatal("expected malformed locale to fall back to en-US")
	}
	if got := GetCatalog("ja-JP"); got != base {
		t.Fatal("expected unsupported locale to fall back to en-US")
	}
}

func TestGetCatalogMatchesRegionalVariants(t *testing.T) {
	if got := GetCatalog("pt").Locale(); got != "pt-BR" {
		t.Fatalf("expected pt to match pt-BR, got %q", got)
	}
	if got := GetCatalog("en-GB").Locale(); got != "en-US" {
		t.Fatalf("expected en-GB to match en-US, got %q", got)
	}
}

func TestBuiltinCatalogsCoverSameCodes(t *testing.T) {
	for code := range enUSCatalog.messages {
		if _, ok := ptBRCatalog.messages[code]; !ok {
			t.Errorf("pt-BR catalog missing %s", code)
		}
	}
	for code := range ptBRCatalog.messages {
		if _, ok := enUSCatalog.messages[code]; !ok {
			t.Errorf("en-US catalog missing %s", code)
		}
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	msg := GetCatalog("en-US").Format(CodeRollDiceUpsell, map[string]string{"Limit": "1000"})
	if !strings.Contains(msg, "1000 dice") {
		t.Fatalf("expected limit in message, got %q", msg)
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

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
