package renderer

import (
	"bytes"

	"github.com/etnz/optionpl"
	md "github.com/nao1215/markdown"
)

// Issues renders the diagnostics raised while replaying a ledger.
func Issues(issues []optionpl.Issue) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Ledger Issues").LF()
	if len(issues) == 0 {
		doc.PlainText("No issue.")
		return doc.String()
	}
	rows := make([][]string, 0, len(issues))
	for _, i := range issues {
		outcome := "skipped"
		if !i.Kind.Skipped() {
			outcome = "applied"
		}
		ref := i.ID
		if ref == "" {
			ref = "-"
		}
		rows = append(rows, []string{i.Date.String(), string(i.Command), ref, i.Kind.String(), outcome, i.Detail})
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Command", "ID", "Issue", "Outcome", "Detail"},
		Rows:   rows,
	})
	return doc.String()
}
