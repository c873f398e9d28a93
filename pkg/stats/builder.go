// Package stats aggregates template and property usage counts from
// Wikipedia extraction dumps.
//
// A Builder runs a fixed sequence of single-threaded passes over five
// line-oriented dumps: redirects first, then template usage, then property
// definitions, then property occurrences. The redirect table is built once
// and consulted (never rebuilt) by every later pass. Peak memory is bounded
// by vocabulary size, not dump size; each line is parsed and discarded.
package stats

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"wikistats/pkg/dump"
	"wikistats/pkg/names"
	"wikistats/pkg/nquads"
)

// defaultProgressInterval is how often a pass reports progress.
const defaultProgressInterval = 1_000_000

// Config holds the per-language settings the pipeline needs. All values are
// supplied by the caller; nothing is read from ambient state.
type Config struct {
	// Language is the wiki language code, e.g. "de".
	Language string
	// TemplateNamespace is the localized template namespace prefix of
	// cleaned names, e.g. "Vorlage:" for German.
	TemplateNamespace string
	// TemplatePredicate is the IRI asserting that a page uses a template.
	TemplatePredicate string
	// ResourcePrefix and PropertyPrefix are the URI prefixes of this
	// language edition, e.g. "http://de.dbpedia.org/resource/".
	ResourcePrefix string
	PropertyPrefix string
	// ProgressInterval is the number of lines between progress log entries.
	ProgressInterval int
}

// Accumulator is the mutable per-template running count. Created on first
// observed usage, only dropped at the final filtering step.
type Accumulator struct {
	Count      int
	Properties map[string]int
}

// qualifies reports whether some property of the template is populated in at
// least 10% of its usage instances.
func (a *Accumulator) qualifies() bool {
	best := 0
	for _, c := range a.Properties {
		if c > best {
			best = c
		}
	}
	return len(a.Properties) > 0 && best*10 > a.Count
}

// Builder accumulates statistics for one language run.
type Builder struct {
	cfg     Config
	cleaner names.Cleaner
	logger  *slog.Logger

	redirects     map[string]string
	templates     map[string]*Accumulator
	pageTemplates map[string][]string
}

// NewBuilder creates a Builder for the given language configuration.
func NewBuilder(cfg Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}
	return &Builder{
		cfg:     cfg,
		cleaner: names.Cleaner{ResourcePrefix: cfg.ResourcePrefix, PropertyPrefix: cfg.PropertyPrefix},
		logger:  logger,

		redirects:     make(map[string]string),
		templates:     make(map[string]*Accumulator),
		pageTemplates: make(map[string][]string),
	}
}

// scan drives one pass: skips blank and comment lines, parses the rest, and
// treats parser rejects as fatal. fn sees every parsed quad.
func (b *Builder) scan(r io.Reader, pass string, fn func(q nquads.Quad) error) error {
	count := 0
	_, err := dump.EachLine(r, func(line string) error {
		count++
		if count%b.cfg.ProgressInterval == 0 {
			b.logger.Info("processing dump", "pass", pass, "lines", count)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			return nil
		}
		q, ok := nquads.Parse(trimmed)
		if !ok {
			return fmt.Errorf("%w in %s pass: %q", ErrMalformedLine, pass, truncate(trimmed))
		}
		return fn(q)
	})
	return err
}

// LoadRedirects builds the one-level redirect table from the redirects dump.
// Lookups through the table never chase chains: if A redirects to B and B to
// C, a name resolving to A yields B.
func (b *Builder) LoadRedirects(r io.Reader) error {
	err := b.scan(r, "redirects", func(q nquads.Quad) error {
		if !q.IsObject() {
			return fmt.Errorf("%w in redirects pass: expected object triple", ErrMalformedLine)
		}
		subject, err := b.cleaner.CleanURI(q.Subject)
		if err != nil {
			return err
		}
		if !strings.HasPrefix(subject, b.cfg.TemplateNamespace) {
			return nil
		}
		target, err := b.cleaner.CleanURI(q.Value)
		if err != nil {
			return err
		}
		b.redirects[subject] = target
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Info("redirects loaded", "language", b.cfg.Language, "count", len(b.redirects))
	return nil
}

// CountTemplateUsage counts per-template usage from the template usage dump
// and records, per page, the distinct templates it uses in first-seen order.
// Must run before any property pass: those only touch templates seen here.
func (b *Builder) CountTemplateUsage(r io.Reader) error {
	err := b.scan(r, "template usage", func(q nquads.Quad) error {
		if !q.IsObject() || q.Predicate != b.cfg.TemplatePredicate {
			return fmt.Errorf("%w in template usage pass: expected %s triple", ErrMalformedLine, b.cfg.TemplatePredicate)
		}
		templateName, err := b.cleaner.CleanURI(q.Value)
		if err != nil {
			return err
		}
		pageTitle, err := b.cleaner.CleanURI(q.Subject)
		if err != nil {
			return err
		}
		if !names.GoodName(templateName) {
			return nil
		}

		acc := b.getOrCreate(b.resolve(templateName))
		acc.Count++
		b.recordPageTemplate(pageTitle, templateName)
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Info("template usage counted", "language", b.cfg.Language,
		"templates", len(b.templates), "pages", len(b.pageTemplates))
	return nil
}

// RegisterProperties seeds each tracked template's property set with a zero
// count from the property definitions dump. Re-registration resets to zero,
// which is safe because this pass always completes before counting starts.
// Templates never used on any page are ignored.
func (b *Builder) RegisterProperties(r io.Reader) error {
	registered := 0
	err := b.scan(r, "property definitions", func(q nquads.Quad) error {
		templateName, err := b.cleaner.CleanURI(q.Subject)
		if err != nil {
			return err
		}
		propertyName := names.CleanValue(q.Value)
		if !names.GoodName(propertyName) {
			return nil
		}
		if acc, ok := b.templates[b.resolve(templateName)]; ok {
			acc.Properties[propertyName] = 0
			registered++
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Info("properties registered", "language", b.cfg.Language, "count", registered)
	return nil
}

// CountPropertyOccurrences increments registered property counts from the
// property occurrence test dump. Unknown templates and unregistered
// properties are expected (differing extraction runs) and silently ignored.
func (b *Builder) CountPropertyOccurrences(r io.Reader) error {
	return b.scan(r, "property occurrences", func(q nquads.Quad) error {
		if q.IsObject() {
			return nil
		}
		templateName, err := b.cleaner.CleanURI(q.Predicate)
		if err != nil {
			return err
		}
		propertyName := names.CleanValue(q.Value)

		acc, ok := b.templates[b.resolve(templateName)]
		if !ok {
			return nil
		}
		if _, ok := acc.Properties[propertyName]; ok {
			acc.Properties[propertyName]++
		}
		return nil
	})
}

// CountPropertyOccurrencesFallback re-derives occurrence counts from a
// page→property dump via the page→template index. It exists because the
// primary dump can, for some languages or snapshots, register no usable
// occurrence at all; this recovers signal from a differently shaped dataset.
// Property names that miss the registered keys are retried with
// underscore/whitespace-insensitive matching; candidate keys are tried in
// lexicographic order so the tie-break is deterministic.
func (b *Builder) CountPropertyOccurrencesFallback(r io.Reader) error {
	return b.scan(r, "page properties", func(q nquads.Quad) error {
		pageTitle, err := b.cleaner.CleanURI(q.Subject)
		if err != nil {
			return err
		}
		propertyName, err := b.cleaner.CleanURI(q.Predicate)
		if err != nil {
			return err
		}

		for _, raw := range b.pageTemplates[pageTitle] {
			acc, ok := b.templates[b.resolve(raw)]
			if !ok {
				continue
			}
			if _, ok := acc.Properties[propertyName]; ok {
				acc.Properties[propertyName]++
				continue
			}
			if key, ok := matchNormalized(acc.Properties, propertyName); ok {
				acc.Properties[key]++
			}
		}
		return nil
	})
}

// matchNormalized finds a registered property key whose normalized form
// equals the normalized candidate name.
func matchNormalized(properties map[string]int, name string) (string, bool) {
	want := names.Normalize(name)
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if names.Normalize(k) == want {
			return k, true
		}
	}
	return "", false
}

// QualifyingCount returns the number of templates for which at least one
// property appears in 10% or more of the template's usage instances.
func (b *Builder) QualifyingCount() int {
	count := 0
	for _, acc := range b.templates {
		if acc.qualifies() {
			count++
		}
	}
	return count
}

// TrackedTemplates returns the number of templates seen so far, before any
// qualification filtering.
func (b *Builder) TrackedTemplates() int {
	return len(b.templates)
}

// resolve applies the redirect table to a template name. Exactly one lookup;
// a name without a redirect resolves to itself.
func (b *Builder) resolve(name string) string {
	if target, ok := b.redirects[name]; ok {
		return target
	}
	return name
}

func (b *Builder) getOrCreate(name string) *Accumulator {
	if acc, ok := b.templates[name]; ok {
		return acc
	}
	acc := &Accumulator{Properties: make(map[string]int)}
	b.templates[name] = acc
	return acc
}

// recordPageTemplate appends the raw (unresolved) template name to the
// page's list, preserving first-seen order without duplicates. The fallback
// pass resolves redirects itself when it walks the index.
func (b *Builder) recordPageTemplate(page, template string) {
	list := b.pageTemplates[page]
	for _, t := range list {
		if t == template {
			return
		}
	}
	b.pageTemplates[page] = append(list, template)
}

func truncate(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
