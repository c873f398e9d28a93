package names

import (
	"errors"
	"testing"
)

func TestStripURI(t *testing.T) {
	c := Cleaner{
		ResourcePrefix: "http://de.dbpedia.org/resource/",
		PropertyPrefix: "http://de.dbpedia.org/property/",
	}

	tests := []struct {
		uri      string
		expected string
		wantErr  bool
	}{
		{"http://de.dbpedia.org/resource/Vorlage:Infobox_Stadt", "Vorlage:Infobox_Stadt", false},
		{"http://de.dbpedia.org/property/einwohner", "einwohner", false},
		{"http://dbpedia.org/property/population", "population", false},
		{"http://de.dbpedia.org/resource/M%C3%BCnchen", "München", false},
		{"http://example.org/other/Thing", "", true},
	}

	for _, tt := range tests {
		got, err := c.StripURI(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("StripURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnrecognizedURI) {
			t.Errorf("StripURI(%q) error = %v, want ErrUnrecognizedURI", tt.uri, err)
		}
		if got != tt.expected {
			t.Errorf("StripURI(%q) = %q, want %q", tt.uri, got, tt.expected)
		}
	}
}

func TestCleanURI(t *testing.T) {
	c := Cleaner{ResourcePrefix: "http://en.dbpedia.org/resource/"}

	got, err := c.CleanURI(`http://en.dbpedia.org/resource/Template:Infobox person`)
	if err != nil {
		t.Fatalf("CleanURI failed: %v", err)
	}
	if got != "Template:Infobox person" {
		t.Errorf("CleanURI = %q, want %q", got, "Template:Infobox person")
	}
}

func TestCleanValue(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`plain`, "plain"},
		{`with\nbreak`, "withbreak"},
		{`quoted \"value\"`, `quoted "value"`},
		{`unié`, "unié"},
		{"embedded\nnewline", "embeddednewline"},
	}

	for _, tt := range tests {
		if got := CleanValue(tt.input); got != tt.expected {
			t.Errorf("CleanValue(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGoodName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"Infobox_Stadt", true},
		{"population", true},
		{"bad<name", false},
		{"bad>name", false},
		{"bad{name", false},
		{"bad|name", false},
		{"bad}name", false},
	}

	for _, tt := range tests {
		if got := GoodName(tt.name); got != tt.ok {
			t.Errorf("GoodName(%q) = %v, want %v", tt.name, got, tt.ok)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"birth_date", "birthdate"},
		{" name ", "name"},
		{"_a_b_", "ab"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestWikiDecodeInvalidEscape(t *testing.T) {
	// Broken escapes stay verbatim instead of failing.
	if got := WikiDecode("50%_off"); got != "50%_off" {
		t.Errorf("WikiDecode = %q, want %q", got, "50%_off")
	}
	if got := WikiDecode("%ZZbad"); got != "%ZZbad" {
		t.Errorf("WikiDecode = %q, want %q", got, "%ZZbad")
	}
}
