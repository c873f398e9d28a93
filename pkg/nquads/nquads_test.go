package nquads

import "testing"

func TestParseObjectTriple(t *testing.T) {
	line := `<http://de.dbpedia.org/resource/Berlin> <http://dbpedia.org/ontology/wikiPageUsesTemplate> <http://de.dbpedia.org/resource/Vorlage:Infobox_Stadt> .`

	q, ok := Parse(line)
	if !ok {
		t.Fatal("Parse returned no match")
	}
	if !q.IsObject() {
		t.Error("expected object triple")
	}
	if q.Subject != "http://de.dbpedia.org/resource/Berlin" {
		t.Errorf("Subject = %q", q.Subject)
	}
	if q.Predicate != "http://dbpedia.org/ontology/wikiPageUsesTemplate" {
		t.Errorf("Predicate = %q", q.Predicate)
	}
	if q.Value != "http://de.dbpedia.org/resource/Vorlage:Infobox_Stadt" {
		t.Errorf("Value = %q", q.Value)
	}
}

func TestParseLiteralTriple(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		value    string
		datatype string
	}{
		{
			name:     "TypedLiteral",
			line:     `<http://de.dbpedia.org/resource/Berlin> <http://de.dbpedia.org/property/einwohner> "3664088"^^<http://www.w3.org/2001/XMLSchema#integer> .`,
			value:    "3664088",
			datatype: "http://www.w3.org/2001/XMLSchema#integer",
		},
		{
			name:     "PlainLiteral",
			line:     `<http://de.dbpedia.org/resource/Berlin> <http://de.dbpedia.org/property/name> "Berlin" .`,
			value:    "Berlin",
			datatype: XSDString,
		},
		{
			name:     "LangLiteral",
			line:     `<http://de.dbpedia.org/resource/Berlin> <http://de.dbpedia.org/property/name> "Berlin"@de .`,
			value:    "Berlin",
			datatype: XSDString,
		},
		{
			name:     "EscapedQuote",
			line:     `<http://x/s> <http://x/p> "say \"hi\"" .`,
			value:    `say \"hi\"`,
			datatype: XSDString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := Parse(tt.line)
			if !ok {
				t.Fatal("Parse returned no match")
			}
			if q.IsObject() {
				t.Error("expected literal triple")
			}
			if q.Value != tt.value {
				t.Errorf("Value = %q, want %q", q.Value, tt.value)
			}
			if q.Datatype != tt.datatype {
				t.Errorf("Datatype = %q, want %q", q.Datatype, tt.datatype)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	lines := []string{
		"not a valid triple",
		"# comment line",
		"",
		`<http://x/s> <http://x/p> _:blank .`,
		`<http://x/s> "literal subject" <http://x/o> .`,
	}

	for _, line := range lines {
		if _, ok := Parse(line); ok {
			t.Errorf("Parse(%q) matched, want reject", line)
		}
	}
}
