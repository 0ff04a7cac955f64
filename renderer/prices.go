package renderer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/wealth"
)

// PricesMarkdown renders the quotes of symbols, and lists the symbols without
// a quote.
func PricesMarkdown(symbols []string, prices wealth.Prices) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Market Prices\n\n")
	fmt.Fprintln(&b, "| Symbol | Price | Currency |")
	fmt.Fprintln(&b, "|:---|---:|:---|")
	var missing []string
	for _, s := range symbols {
		q, ok := prices[s]
		if !ok {
			missing = append(missing, s)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(s), q.Price.String(), q.Currency)
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Missing\n\n")
		for _, s := range slices.Sorted(slices.Values(missing)) {
			fmt.Fprintf(w, "- %s\n", s)
		}
		return len(missing) > 0
	})
	return b.String()
}
