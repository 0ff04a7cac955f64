// Package renderer turns holdings, ledgers and analysis reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"cell": cell,
}

// RenderHoldings renders the list of held assets.
func RenderHoldings(h *Holdings) string {
	partials := map[string]string{
		"holdings_title": "holdings_title.md",
		"holdings_table": "holdings_table.md",
		"warnings":       "warnings.md",
	}
	return renderTemplate("holdings", "holdings.md", partials, h)
}

// RenderTransactions renders the ledger of an asset.
func RenderTransactions(t *Transactions) string {
	partials := map[string]string{
		"transactions_summary": "transactions_summary.md",
		"transactions_table":   "transactions_table.md",
	}
	return renderTemplate("transactions", "transactions.md", partials, t)
}

// RenderAnalysis renders the diversification analysis.
func RenderAnalysis(a *Analysis) string {
	partials := map[string]string{
		"analysis_scores":   "analysis_scores.md",
		"analysis_exposure": "analysis_exposure.md",
		"warnings":          "warnings.md",
	}
	return renderTemplate("analysis", "analysis.md", partials, a)
}

// Terminal renders markdown for a terminal of the given width, with styles
// adapted to its background.
func Terminal(markdown string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("cannot create terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("cannot render markdown: %w", err)
	}
	return out, nil
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
