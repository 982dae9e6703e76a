package markup

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/page"
)

const fixtureURL = "https://en.example.org/wiki/Earth"

func loadFixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/earth.html")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return b
}

func rawPage(body []byte, pageURL string) page.Raw {
	return page.Raw{URL: pageURL, Body: body}
}

func TestExtract_Fixture(t *testing.T) {
	doc, err := New("").Extract(rawPage(loadFixture(t), fixtureURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Lang != "en" {
		t.Errorf("expected lang en, got %q", doc.Lang)
	}
	if doc.URL != fixtureURL {
		t.Errorf("unexpected url %q", doc.URL)
	}

	// Only direct text children of <p>: the <b> content is dropped.
	want := "Earth is the third planet from the Sun. It is the   astronomical object known to harbor life."
	if doc.Text != want {
		t.Errorf("unexpected text:\n got %q\nwant %q", doc.Text, want)
	}

	wantLinks := []string{
		"https://de.example.org/wiki/Erde",
		"https://nl.example.org/wiki/Aarde",
		"https://en.example.org/wiki/Earth_(simple)",
	}
	if len(doc.Links) != len(wantLinks) {
		t.Fatalf("expected %d links, got %v", len(wantLinks), doc.Links)
	}
	for i, l := range wantLinks {
		if doc.Links[i] != l {
			t.Errorf("link %d: expected %q, got %q", i, l, doc.Links[i])
		}
	}
}

func TestExtract_CustomLinksID(t *testing.T) {
	body := []byte(`<html lang="fr"><body><p>Bonjour</p>` +
		`<nav id="langs"><a href="https://en.example.org/">en</a></nav>` +
		`<div id="p-lang"><a href="https://de.example.org/">de</a></div></body></html>`)

	doc, err := New("langs").Extract(rawPage(body, "https://fr.example.org/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Links) != 1 || doc.Links[0] != "https://en.example.org/" {
		t.Errorf("unexpected links %v", doc.Links)
	}
}

func TestExtract_NoLinksElement(t *testing.T) {
	doc, err := New("").Extract(rawPage([]byte(`<html lang="de"><p>Die Erde</p></html>`), "https://de.example.org/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Links) != 0 {
		t.Errorf("expected no links, got %v", doc.Links)
	}
	if doc.Text != "Die Erde" {
		t.Errorf("unexpected text %q", doc.Text)
	}
}

func TestExtract_NoText(t *testing.T) {
	body := []byte(`<html lang="en"><body><div>no paragraphs</div>` +
		`<div id="p-lang"><a href="https://de.example.org/">de</a></div></body></html>`)

	doc, err := New("").Extract(rawPage(body, fixtureURL))
	if !errors.Is(err, domain.ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	// Links are still usable by the caller.
	if len(doc.Links) != 1 {
		t.Errorf("expected links to be returned with ErrNoText, got %v", doc.Links)
	}
}

func TestExtract_MissingLang(t *testing.T) {
	doc, err := New("").Extract(rawPage([]byte(`<p>text</p>`), fixtureURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Lang != "" {
		t.Errorf("expected empty lang, got %q", doc.Lang)
	}
}

func TestExtract_BadURL(t *testing.T) {
	_, err := New("").Extract(rawPage([]byte(`<p>text</p>`), "://bad"))
	if !errors.Is(err, domain.ErrMarkup) {
		t.Fatalf("expected ErrMarkup, got %v", err)
	}
}

// "мир мир" in windows-1251.
const cp1251Peace = "\xec\xe8\xf0 \xec\xe8\xf0"

func TestExtract_MetaCharset(t *testing.T) {
	body := []byte(`<html lang="ru"><head><meta charset="windows-1251"></head>` +
		`<body><p>` + cp1251Peace + `</p></body></html>`)

	doc, err := New("").Extract(rawPage(body, "https://ru.example.org/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "мир мир" {
		t.Errorf("expected decoded text, got %q", doc.Text)
	}
}

func TestExtract_ContentTypeCharset(t *testing.T) {
	body := []byte(`<html lang="ru"><p>` + cp1251Peace + `</p></html>`)
	raw := page.Raw{
		URL:         "https://ru.example.org/",
		ContentType: "text/html; charset=windows-1251",
		Body:        body,
	}

	doc, err := New("").Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "мир мир" {
		t.Errorf("expected decoded text, got %q", doc.Text)
	}
}

func TestExtract_UndeclaredUTF8(t *testing.T) {
	// Non-ASCII text starts past the sniffed prefix.
	pad := strings.Repeat(" ", 2048)
	body := []byte(`<html lang="de">` + pad + `<p>Grüße aus Köln</p></html>`)

	doc, err := New("").Extract(rawPage(body, "https://de.example.org/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Grüße aus Köln" {
		t.Errorf("expected utf-8 text, got %q", doc.Text)
	}
}

func TestExtract_UndeclaredLatin1(t *testing.T) {
	// "café" in windows-1252 is not valid UTF-8 and has no declaration.
	body := []byte("<html lang=\"fr\"><p>caf\xe9</p></html>")

	doc, err := New("").Extract(rawPage(body, "https://fr.example.org/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "café" {
		t.Errorf("expected windows-1252 fallback, got %q", doc.Text)
	}
}
