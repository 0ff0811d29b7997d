package renderer

import (
	"bytes"
	"maps"
	"slices"
	"strconv"

	"github.com/etnz/optionpl"
	md "github.com/nao1215/markdown"
)

// ProfitLoss renders the realized P/L of s per underlying.
func ProfitLoss(s *optionpl.State, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Realized P/L").LF()

	rows := [][]string{}
	for _, ticker := range slices.Sorted(maps.Keys(s.RealizedByTicker)) {
		rows = append(rows, []string{ticker, opts.signed(s.RealizedByTicker[ticker])})
	}
	rows = append(rows, []string{"**Total**", "**" + opts.signed(s.Realized) + "**"})
	doc.Table(md.TableSet{
		Header:    []string{"Underlying", "Realized"},
		Rows:      rows,
		Alignment: alignment(1, 2),
	})

	doc.BulletList(
		"Commissions: "+opts.money(s.Commissions),
		"Assignments and exercises: "+strconv.Itoa(s.Assignments),
		"Transactions: "+strconv.Itoa(len(s.Transactions)),
	)
	if len(s.Issues) > 0 {
		doc.LF().PlainTextf("%d transaction(s) raised an issue, see `opl issues`.", len(s.Issues))
	}
	return doc.String()
}
