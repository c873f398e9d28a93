package names

import (
	"fmt"
	"strconv"
	"strings"
)

// genericPropertyPrefix is checked as a last resort when stripping property
// URIs, so dumps produced against the generic namespace still resolve.
const genericPropertyPrefix = "http://dbpedia.org/property/"

// Cleaner strips and decodes the URI prefixes of one language edition.
type Cleaner struct {
	ResourcePrefix string
	PropertyPrefix string
}

// StripURI removes the resource, property, or generic property prefix
// (checked in that order) and wiki-decodes the remainder.
func (c Cleaner) StripURI(uri string) (string, error) {
	for _, prefix := range []string{c.ResourcePrefix, c.PropertyPrefix, genericPropertyPrefix} {
		if prefix != "" && strings.HasPrefix(uri, prefix) {
			return WikiDecode(strings.TrimPrefix(uri, prefix)), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedURI, uri)
}

// CleanURI unescapes Turtle escapes, strips the URI prefix and removes line breaks.
func (c Cleaner) CleanURI(raw string) (string, error) {
	stripped, err := c.StripURI(UnescapeTurtle(raw))
	if err != nil {
		return "", err
	}
	return StripLineBreaks(stripped), nil
}

// CleanValue unescapes Turtle escapes and removes line breaks. Values are
// literals, so no URI stripping happens here.
func CleanValue(raw string) string {
	return StripLineBreaks(UnescapeTurtle(raw))
}

// GoodName reports whether a template or property name is usable. Names
// containing wikitext markup characters come from imprecise upstream parsing
// and must not be counted.
func GoodName(name string) bool {
	return !strings.ContainsAny(name, "<>{|}")
}

// Normalize removes underscores and trims surrounding whitespace. Used only
// for fallback property matching, never for primary map keys.
func Normalize(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "_", ""))
}

// StripLineBreaks removes embedded newline and carriage return characters.
func StripLineBreaks(s string) string {
	if !strings.ContainsAny(s, "\n\r") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

// WikiDecode percent-decodes a wiki-encoded name. Invalid escape sequences
// are kept verbatim rather than rejected, matching MediaWiki's lenient rule.
func WikiDecode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			v, _ := strconv.ParseUint(s[i+1:i+3], 16, 8)
			b.WriteByte(byte(v))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// UnescapeTurtle resolves Turtle string escapes (\\, \", \n, \t, \r, \uXXXX,
// \UXXXXXXXX). Unknown escapes are kept verbatim.
func UnescapeTurtle(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case '"':
			b.WriteByte('"')
			i++
		case '\'':
			b.WriteByte('\'')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 'u':
			if r, ok := hexRune(s, i+2, 4); ok {
				b.WriteRune(r)
				i += 5
			} else {
				b.WriteByte(s[i])
			}
		case 'U':
			if r, ok := hexRune(s, i+2, 8); ok {
				b.WriteRune(r)
				i += 9
			} else {
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hexRune(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
