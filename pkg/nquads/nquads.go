// Package nquads parses single lines of N-Triples style extraction dumps.
//
// The dumps this tool consumes are line oriented: one triple per line, IRIs in
// angle brackets, literals in double quotes with an optional datatype or
// language tag. Anything fancier (blank nodes, multi-line literals, prefixed
// names) does not occur in extraction output and is rejected.
package nquads

import "regexp"

// Quad is one parsed statement. Datatype is empty for object triples and
// non-empty for literal triples; plain and language-tagged literals are
// normalized to xsd:string so a literal triple always carries a datatype.
type Quad struct {
	Subject   string
	Predicate string
	Value     string
	Datatype  string
}

// XSDString is the datatype assigned to plain and language-tagged literals.
const XSDString = "http://www.w3.org/2001/XMLSchema#string"

// IsObject reports whether the quad links two resources rather than a
// resource and a literal value.
func (q Quad) IsObject() bool {
	return q.Datatype == ""
}

var (
	objectTriple  = regexp.MustCompile(`^<([^>]+)>\s+<([^>]+)>\s+<([^>]+)>\s*\.\s*$`)
	literalTriple = regexp.MustCompile(`^<([^>]+)>\s+<([^>]+)>\s+"((?:[^"\\]|\\.)*)"(?:\^\^<([^>]+)>|@([A-Za-z0-9-]+))?\s*\.\s*$`)
)

// Parse matches one trimmed line against the object and literal triple shapes.
// The second return value is false when the line matches neither; the caller
// decides whether that is fatal (it is, for non-blank non-comment lines).
// Escapes inside IRIs and literals are left intact for the caller to undo.
func Parse(line string) (Quad, bool) {
	if m := objectTriple.FindStringSubmatch(line); m != nil {
		return Quad{Subject: m[1], Predicate: m[2], Value: m[3]}, true
	}
	if m := literalTriple.FindStringSubmatch(line); m != nil {
		q := Quad{Subject: m[1], Predicate: m[2], Value: m[3], Datatype: m[4]}
		if q.Datatype == "" {
			q.Datatype = XSDString
		}
		return q, true
	}
	return Quad{}, false
}
