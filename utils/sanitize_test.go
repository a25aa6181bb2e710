package utils

import (
	"strings"
	"testing"
)

func TestSanitizeHTMLStripsScripts(t *testing.T) {
	in := `<p>Look at the <strong>Orion Nebula</strong></p><script>alert(1)</script>`
	out := SanitizeHTML(in)

	if strings.Contains(out, "<script") {
		t.Errorf("script tag survived sanitization: %q", out)
	}
	if !strings.Contains(out, "<strong>Orion Nebula</strong>") {
		t.Errorf("basic formatting was stripped: %q", out)
	}
}

func TestSanitizeHTMLStripsEventHandlers(t *testing.T) {
	out := SanitizeHTML(`<img src="x" onerror="alert(1)">`)

	if strings.Contains(out, "onerror") {
		t.Errorf("event handler attribute survived: %q", out)
	}
}

func TestSanitizeHTMLPlainTextUntouched(t *testing.T) {
	in := "Saturn is at opposition this week"
	if out := SanitizeHTML(in); out != in {
		t.Errorf("plain text changed: %q", out)
	}
}
