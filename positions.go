package optionpl

import (
	"slices"

	"github.com/etnz/optionpl/date"
)

// SharePosition is an open share holding. A negative Quantity is a short
// position whose CostBasis holds the negative net proceeds of the sale.
type SharePosition struct {
	Ticker    string
	Quantity  Quantity
	CostBasis Money // total dollars, commissions included
}

// AverageCost returns the cost basis per share. For a short position it is
// the average net proceeds per share.
func (p SharePosition) AverageCost() Money {
	if p.Quantity.IsZero() {
		return Money{}
	}
	return p.CostBasis.Div(p.Quantity)
}

// OptionPosition is the open part of an option contract series.
type OptionPosition struct {
	OptionID   string
	Ticker     string
	Kind       OptionKind
	Direction  Direction
	Strike     Money
	Expiration date.Date
	Quantity   Quantity // open contracts, always positive
	NetPremium Money    // positive credit for a short series, negative debit for a long one
	Commission Money    // commissions attributed to the open contracts
}

// IsShort reports whether the series was sold to open.
func (p OptionPosition) IsShort() bool { return p.Direction == Short }

// PremiumPerContract returns the average premium of one open contract, as a
// positive amount whatever the direction.
func (p OptionPosition) PremiumPerContract() Money {
	if p.Quantity.IsZero() {
		return Money{}
	}
	return p.NetPremium.Abs().Div(p.Quantity)
}

// reduce removes closed contracts from the series pro-rata and returns the
// average premium per contract before the reduction and the commission
// attributed to the closed contracts.
func (p *OptionPosition) reduce(closed Quantity) (avgPremium, commission Money) {
	avgPremium = p.PremiumPerContract()
	commission = p.Commission.prorata(closed, p.Quantity)
	p.NetPremium = p.NetPremium.Sub(p.NetPremium.prorata(closed, p.Quantity))
	p.Commission = p.Commission.Sub(commission)
	p.Quantity = p.Quantity.Sub(closed)
	return avgPremium, commission
}

// Positions is a snapshot of everything still open.
type Positions struct {
	Shares  []SharePosition  // sorted by ticker
	Options []OptionPosition // sorted by option id
}

// Share returns the open share position on ticker, if any.
func (p Positions) Share(ticker string) (SharePosition, bool) {
	for _, s := range p.Shares {
		if s.Ticker == ticker {
			return s, true
		}
	}
	return SharePosition{}, false
}

// Option returns the open option series with this id, if any.
func (p Positions) Option(optionID string) (OptionPosition, bool) {
	for _, o := range p.Options {
		if o.OptionID == optionID {
			return o, true
		}
	}
	return OptionPosition{}, false
}

// Tickers returns the underlyings with at least one open position, sorted.
func (p Positions) Tickers() []string {
	seen := make(map[string]struct{})
	var tickers []string
	add := func(t string) {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			tickers = append(tickers, t)
		}
	}
	for _, s := range p.Shares {
		add(s.Ticker)
	}
	for _, o := range p.Options {
		add(o.Ticker)
	}
	slices.Sort(tickers)
	return tickers
}

// ForTicker returns the subset of positions on a single underlying.
func (p Positions) ForTicker(ticker string) Positions {
	var sub Positions
	for _, s := range p.Shares {
		if s.Ticker == ticker {
			sub.Shares = append(sub.Shares, s)
		}
	}
	for _, o := range p.Options {
		if o.Ticker == ticker {
			sub.Options = append(sub.Options, o)
		}
	}
	return sub
}

// State is the result of replaying a ledger.
type State struct {
	Positions
	Realized         Money            // cumulative realized P/L across all legs
	RealizedByTicker map[string]Money // realized P/L per underlying
	Commissions      Money            // all commissions paid
	Assignments      int              // number of assign/exercise transactions applied
	Transactions     []Transaction    // replayed transactions in replay order
	Issues           []Issue
}
