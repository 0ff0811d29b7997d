package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/optionpl"
	md "github.com/nao1215/markdown"
)

// Transaction describes a transaction in one sentence.
func Transaction(tx optionpl.Transaction, opts Options) string {
	switch v := tx.(type) {
	case optionpl.BuyShare:
		return fmt.Sprintf("Bought %s %s at %s", v.Quantity, v.Ticker, opts.money(v.Price))
	case optionpl.SellShare:
		return fmt.Sprintf("Sold %s %s at %s", v.Quantity, v.Ticker, opts.money(v.Price))
	case optionpl.OpenOption:
		verb := "Bought"
		if v.Direction == optionpl.Short {
			verb = "Sold"
		}
		return fmt.Sprintf("%s to open %s %s for %s", verb, v.Quantity, v.OptionID, opts.money(v.Premium))
	case optionpl.CloseOption:
		return fmt.Sprintf("Closed %s %s for %s", v.Quantity, v.OptionID, opts.money(v.Premium))
	case optionpl.ExpireOption:
		return fmt.Sprintf("%s %s expired", v.Quantity, v.OptionID)
	case optionpl.AssignOrExercise:
		return fmt.Sprintf("%s %s assigned or exercised", v.Quantity, v.OptionID)
	default:
		return string(tx.What())
	}
}

// Transactions renders a list of transactions as a table.
func Transactions(txs []optionpl.Transaction, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Transactions").LF()
	if len(txs) == 0 {
		doc.PlainText("No transaction.")
		return doc.String()
	}
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{tx.When().String(), string(tx.What()), tx.Underlying(), Transaction(tx, opts)})
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Command", "Ticker", "Description"},
		Rows:   rows,
	})
	return doc.String()
}
