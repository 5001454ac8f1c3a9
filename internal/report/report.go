// Package report renders audit and verification results as markdown and HTML.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"replayrng/domain/core"
	"replayrng/internal/quality"
	"replayrng/internal/validation"
)

// Report bundles the results of one audit run
type Report struct {
	Title        string
	GeneratedAt  core.Timestamp
	Audits       []*quality.Result
	Verification []validation.SeedReport
}

// New creates an empty report stamped with the current time
func New(title string) *Report {
	return &Report{Title: title, GeneratedAt: core.Now()}
}

// Passed reports whether every audit and verification check passed
func (r *Report) Passed() bool {
	for _, a := range r.Audits {
		if !a.Passed {
			return false
		}
	}
	for _, v := range r.Verification {
		if !v.Passed() {
			return false
		}
	}
	return true
}

// Markdown renders the report as markdown
func (r *Report) Markdown() []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", r.Title))
	b.WriteString(fmt.Sprintf("Generated %s. Overall: **%s**\n\n", r.GeneratedAt.Time().Format("2006-01-02 15:04:05 MST"), verdict(r.Passed())))

	if len(r.Audits) > 0 {
		b.WriteString("## Statistical audit\n\n")
		b.WriteString("| Seed | Samples | Mean | Std dev | Median | P05 | P95 | Chi-square | p-value | Lag-1 corr | Result |\n")
		b.WriteString("|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|:---|\n")
		for _, a := range r.Audits {
			b.WriteString(fmt.Sprintf("| %d | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.2f (df %d) | %.4f | %.4f | %s |\n",
				a.Seed, a.Samples, a.Summary.Mean, a.Summary.StdDev, a.Summary.Median,
				a.Summary.P05, a.Summary.P95, a.ChiSquare, a.DegreesOfFreedom,
				a.PValue, a.SerialCorrelation, verdict(a.Passed)))
		}
		b.WriteString(fmt.Sprintf("\nA seed passes when p >= %g and |lag-1 correlation| < %g.\n\n", quality.MinPValue, quality.MaxSerialCorrelation))
	}

	if len(r.Verification) > 0 {
		b.WriteString("## Determinism checks\n\n")
		b.WriteString("| Seed | Check | Result | Duration | Detail |\n")
		b.WriteString("|---:|:---|:---|---:|:---|\n")
		for _, v := range r.Verification {
			for _, c := range v.Checks {
				b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
					v.Seed, c.Name, verdict(c.Passed), c.Duration, escapeCell(c.Detail)))
			}
		}
		b.WriteString("\n")
	}

	return []byte(b.String())
}

// HTML renders the report as a standalone HTML page
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(r.Markdown())

	renderer := html.NewRenderer(html.RendererOptions{
		Title: r.Title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.Render(doc, renderer)
}

// WriteFile writes the report to path, as HTML when path ends in .html and
// as markdown otherwise.
func (r *Report) WriteFile(path string) error {
	content := r.Markdown()
	if strings.HasSuffix(strings.ToLower(path), ".html") {
		content = r.HTML()
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func verdict(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
