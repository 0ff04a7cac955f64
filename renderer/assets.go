package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/wealth"
)

// AssetsMarkdown renders the list of every asset of the book, held or sold.
func AssetsMarkdown(assets []wealth.Asset) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Assets\n\n")
	if len(assets) == 0 {
		fmt.Fprintln(&b, "No asset yet.")
		return b.String()
	}
	fmt.Fprintln(&b, "| ID | Name | Class | Currency | Transactions | Status |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|:---|")
	for _, a := range assets {
		c := a.Common()
		status := "held"
		if wealth.IsFullySold(a) {
			status = "sold"
		}
		txs := fmt.Sprint(len(c.Transactions))
		if len(c.Transactions) == 0 {
			txs = "legacy"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(c.ID),
			cell(c.Name),
			a.Kind().Label(),
			c.Currency,
			txs,
			status,
		)
	}
	return b.String()
}
