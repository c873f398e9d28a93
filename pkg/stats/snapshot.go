package stats

// TemplateStats is the frozen per-template result: total usage count and
// per-property occurrence counts.
type TemplateStats struct {
	Count      int
	Properties map[string]int
}

// WikipediaStats is the final statistics snapshot for one language. It is
// assembled from deep copies of the builder's state; nothing mutates it
// after Build returns.
type WikipediaStats struct {
	Language  string
	Redirects map[string]string
	Templates map[string]TemplateStats
}

// Build applies the qualification filter and freezes the surviving
// accumulators into an immutable snapshot. Templates where no property
// reaches the 10% threshold are dropped so downstream mapping authors only
// see templates worth mapping.
func (b *Builder) Build() *WikipediaStats {
	templates := make(map[string]TemplateStats)
	for name, acc := range b.templates {
		if !acc.qualifies() {
			continue
		}
		props := make(map[string]int, len(acc.Properties))
		for prop, count := range acc.Properties {
			props[prop] = count
		}
		templates[name] = TemplateStats{Count: acc.Count, Properties: props}
	}

	redirects := make(map[string]string, len(b.redirects))
	for source, target := range b.redirects {
		redirects[source] = target
	}

	b.logger.Info("snapshot built", "language", b.cfg.Language,
		"templates", len(templates), "dropped", len(b.templates)-len(templates))

	return &WikipediaStats{
		Language:  b.cfg.Language,
		Redirects: redirects,
		Templates: templates,
	}
}
