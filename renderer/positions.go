package renderer

import (
	"bytes"

	"github.com/etnz/optionpl"
	md "github.com/nao1215/markdown"
)

// Positions renders the open share and option positions of s.
func Positions(s *optionpl.State, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Open Positions")

	if len(s.Shares) == 0 && len(s.Options) == 0 {
		doc.PlainText("No open position.").LF()
	}

	if len(s.Shares) > 0 {
		doc.H2("Shares").LF()
		rows := make([][]string, 0, len(s.Shares))
		for _, p := range s.Shares {
			rows = append(rows, []string{
				p.Ticker,
				opts.quantity(p.Quantity),
				opts.money(p.AverageCost()),
				opts.money(p.CostBasis),
			})
		}
		doc.Table(md.TableSet{
			Header:    []string{"Ticker", "Quantity", "Average Cost", "Cost Basis"},
			Rows:      rows,
			Alignment: alignment(1, 4),
		})
	}

	if len(s.Options) > 0 {
		doc.H2("Options").LF()
		rows := make([][]string, 0, len(s.Options))
		for _, o := range s.Options {
			rows = append(rows, []string{
				o.OptionID,
				string(o.Direction),
				string(o.Kind),
				opts.money(o.Strike),
				o.Expiration.String(),
				opts.quantity(o.Quantity),
				opts.money(o.PremiumPerContract()),
				opts.signed(o.NetPremium),
			})
		}
		doc.Table(md.TableSet{
			Header:    []string{"Series", "Direction", "Kind", "Strike", "Expiration", "Contracts", "Premium", "Net Premium"},
			Rows:      rows,
			Alignment: alignment(3, 8),
		})
	}

	doc.PlainTextf("Realized P/L: **%s**", opts.signed(s.Realized))
	return doc.String()
}
