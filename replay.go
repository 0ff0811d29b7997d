package optionpl

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// shareTrade is a signed share movement: positive quantity buys, negative
// quantity sells. Explicit trades and the share leg of an assignment both
// go through [replayer.applyShareTrade].
type shareTrade struct {
	ticker     string
	quantity   Quantity
	price      Money
	commission Money
}

// replayer holds the intermediate state of one Replay call.
type replayer struct {
	log         *zap.Logger
	shares      map[string]*SharePosition
	options     map[string]*OptionPosition
	realized    Money
	byTicker    map[string]Money
	commissions Money
	assignments int
	issues      []Issue
}

// Replay reduces transactions into the positions still open and the realized
// profit and loss.
//
// Transactions are processed by ascending date; ties keep the input order.
// The input slice is not modified. Replay never fails: anomalies are recorded
// in [State.Issues] and logged, see [IssueKind].
//
// Shares use average cost accounting. Selling more shares than held closes the
// long position and opens a short one with the excess; buying against a short
// position covers it first.
func Replay(transactions []Transaction, opts ...ReplayOption) *State {
	r := &replayer{
		log:      zap.NewNop(),
		shares:   make(map[string]*SharePosition),
		options:  make(map[string]*OptionPosition),
		byTicker: make(map[string]Money),
	}
	for _, opt := range opts {
		opt(r)
	}

	txs := slices.Clone(transactions)
	stableSort(txs)
	for _, tx := range txs {
		r.apply(tx)
	}
	return r.state(txs)
}

func (r *replayer) apply(tx Transaction) {
	switch v := tx.(type) {
	case BuyShare:
		if !r.validTrade(v, v.Quantity, v.Price, v.Commission) {
			return
		}
		r.commissions = r.commissions.Add(v.Commission)
		r.applyShareTrade(v, shareTrade{ticker: v.Ticker, quantity: v.Quantity, price: v.Price, commission: v.Commission})
	case SellShare:
		if !r.validTrade(v, v.Quantity, v.Price, v.Commission) {
			return
		}
		r.commissions = r.commissions.Add(v.Commission)
		r.applyShareTrade(v, shareTrade{ticker: v.Ticker, quantity: v.Quantity.Neg(), price: v.Price, commission: v.Commission})
	case OpenOption:
		r.open(v)
	case CloseOption:
		r.close(v)
	case ExpireOption:
		r.expire(v)
	case AssignOrExercise:
		r.assign(v)
	default:
		panic(fmt.Sprintf("unhandled transaction type %T", tx))
	}
}

// report records an issue about tx.
func (r *replayer) report(tx Transaction, kind IssueKind, format string, args ...any) {
	issue := Issue{
		Kind:    kind,
		Date:    tx.When(),
		Command: tx.What(),
		ID:      tx.Ref(),
		Detail:  fmt.Sprintf(format, args...),
	}
	r.issues = append(r.issues, issue)
	r.log.Warn("replay issue",
		zap.String("kind", kind.String()),
		zap.Stringer("date", issue.Date),
		zap.String("command", string(issue.Command)),
		zap.String("id", issue.ID),
		zap.Bool("skipped", kind.Skipped()),
		zap.String("detail", issue.Detail),
	)
}

func (r *replayer) realize(ticker string, amount Money) {
	r.realized = r.realized.Add(amount)
	r.byTicker[ticker] = r.byTicker[ticker].Add(amount)
}

func (r *replayer) validTrade(tx Transaction, quantity Quantity, price, commission Money) bool {
	switch {
	case !quantity.IsPositive():
		r.report(tx, InvalidNumericInput, "quantity must be positive, got %s", quantity)
	case price.IsNegative():
		r.report(tx, InvalidNumericInput, "price must not be negative, got %s", price)
	case commission.IsNegative():
		r.report(tx, InvalidNumericInput, "commission must not be negative, got %s", commission)
	default:
		return true
	}
	return false
}

// applyShareTrade folds a share movement into the position of its ticker.
//
// The part of the trade that goes against the current position closes it at
// the average cost and realizes the difference. The rest opens or extends a
// position in the direction of the trade. The commission is split pro-rata
// between both parts. A sale beyond the long shares held, including one from
// a flat or short position, is reported as Clamped.
func (r *replayer) applyShareTrade(tx Transaction, t shareTrade) {
	pos, ok := r.shares[t.ticker]
	if !ok {
		pos = &SharePosition{Ticker: t.ticker}
		r.shares[t.ticker] = pos
	}

	remaining := t.quantity.Abs()
	commission := t.commission
	if t.quantity.IsNegative() {
		long := pos.Quantity
		if long.IsNegative() {
			long = Quantity{}
		}
		if long.LessThan(remaining) {
			r.report(tx, Clamped, "sold %s shares of %s but only %s held, %s sold short",
				remaining, t.ticker, long, remaining.Sub(long))
		}
	}
	if !pos.Quantity.IsZero() && pos.Quantity.Sign() != t.quantity.Sign() {
		held := pos.Quantity.Abs()
		closed := MinQ(remaining, held)
		closingCommission := commission.prorata(closed, remaining)

		pl := t.price.Sub(pos.AverageCost()).Mul(closed)
		if pos.Quantity.IsNegative() {
			pl = pl.Neg()
		}
		r.realize(t.ticker, pl.Sub(closingCommission))

		pos.CostBasis = pos.CostBasis.Sub(pos.CostBasis.prorata(closed, held))
		if pos.Quantity.IsPositive() {
			pos.Quantity = pos.Quantity.Sub(closed)
		} else {
			pos.Quantity = pos.Quantity.Add(closed)
		}
		if pos.Quantity.IsNegligible() {
			pos.Quantity, pos.CostBasis = Quantity{}, Money{}
		}
		remaining = remaining.Sub(closed)
		commission = commission.Sub(closingCommission)
	}

	if !remaining.IsNegligible() {
		signed := remaining
		if t.quantity.IsNegative() {
			signed = remaining.Neg()
		}
		pos.Quantity = pos.Quantity.Add(signed)
		pos.CostBasis = pos.CostBasis.Add(t.price.Mul(signed)).Add(commission)
	}

	if pos.Quantity.IsNegligible() {
		delete(r.shares, t.ticker)
	}
}

func (r *replayer) open(tx OpenOption) {
	switch {
	case tx.Kind != Call && tx.Kind != Put:
		r.report(tx, Malformed, "unknown option kind %q", tx.Kind)
		return
	case tx.Direction != Long && tx.Direction != Short:
		r.report(tx, Malformed, "unknown direction %q", tx.Direction)
		return
	case tx.OptionID == "":
		r.report(tx, Malformed, "missing option id")
		return
	case !tx.Strike.IsPositive():
		r.report(tx, InvalidNumericInput, "strike must be positive, got %s", tx.Strike)
		return
	}
	if !r.validTrade(tx, tx.Quantity, tx.Premium, tx.Commission) {
		return
	}

	series, ok := r.options[tx.OptionID]
	if !ok {
		series = &OptionPosition{
			OptionID:   tx.OptionID,
			Ticker:     tx.Ticker,
			Kind:       tx.Kind,
			Direction:  tx.Direction,
			Strike:     tx.Strike,
			Expiration: tx.Expiration,
		}
		r.options[tx.OptionID] = series
	} else if series.Direction != tx.Direction {
		r.report(tx, DirectionMismatch, "series %s is %s, cannot open %s", tx.OptionID, series.Direction, tx.Direction)
		return
	}

	premium := tx.Premium.Mul(tx.Quantity)
	if tx.Direction == Long {
		premium = premium.Neg()
	}
	series.Quantity = series.Quantity.Add(tx.Quantity)
	series.NetPremium = series.NetPremium.Add(premium)
	series.Commission = series.Commission.Add(tx.Commission)
	r.commissions = r.commissions.Add(tx.Commission)
}

// take resolves the series a closing transaction refers to and clamps the
// requested quantity to what is open.
func (r *replayer) take(tx Transaction, optionID string, requested Quantity) (*OptionPosition, Quantity, bool) {
	series, ok := r.options[optionID]
	if !ok {
		r.report(tx, UnknownPosition, "no open series %q", optionID)
		return nil, Quantity{}, false
	}
	if !requested.IsPositive() {
		r.report(tx, InvalidNumericInput, "quantity must be positive, got %s", requested)
		return nil, Quantity{}, false
	}
	closed := MinQ(requested, series.Quantity)
	if closed.LessThan(requested) {
		r.report(tx, Clamped, "requested %s contracts of %s but only %s open", requested, optionID, series.Quantity)
	}
	return series, closed, true
}

// settle drops a series once all its contracts are gone.
func (r *replayer) settle(series *OptionPosition) {
	if series.Quantity.IsNegligible() {
		delete(r.options, series.OptionID)
	}
}

func (r *replayer) close(tx CloseOption) {
	if tx.Premium.IsNegative() || tx.Commission.IsNegative() {
		r.report(tx, InvalidNumericInput, "premium and commission must not be negative")
		return
	}
	series, closed, ok := r.take(tx, tx.OptionID, tx.Quantity)
	if !ok {
		return
	}
	avg, commission := series.reduce(closed)

	// short: kept the credit, paid the closing premium; long: the reverse.
	pl := avg.Sub(tx.Premium).Mul(closed)
	if !series.IsShort() {
		pl = pl.Neg()
	}
	r.realize(series.Ticker, pl.Sub(commission).Sub(tx.Commission))
	r.commissions = r.commissions.Add(tx.Commission)
	r.settle(series)
}

// expireLeg realizes closed contracts at zero value and returns a copy of the
// series as it was before the reduction.
func (r *replayer) expireLeg(series *OptionPosition, closed Quantity) OptionPosition {
	before := *series
	avg, commission := series.reduce(closed)
	pl := avg.Mul(closed)
	if !series.IsShort() {
		pl = pl.Neg()
	}
	r.realize(series.Ticker, pl.Sub(commission))
	r.settle(series)
	return before
}

func (r *replayer) expire(tx ExpireOption) {
	series, closed, ok := r.take(tx, tx.OptionID, tx.Quantity)
	if !ok {
		return
	}
	r.expireLeg(series, closed)
}

func (r *replayer) assign(tx AssignOrExercise) {
	if tx.Strike.IsNegative() || tx.Commission.IsNegative() {
		r.report(tx, InvalidNumericInput, "strike and commission must not be negative")
		return
	}
	series, closed, ok := r.take(tx, tx.OptionID, tx.Quantity)
	if !ok {
		return
	}
	before := r.expireLeg(series, closed)
	r.assignments++
	if trade, ok := syntheticTrade(before, tx, closed); ok {
		r.commissions = r.commissions.Add(trade.commission)
		r.applyShareTrade(tx, trade)
	}
}

// syntheticTrade returns the share trade implied by assigning or exercising
// contracts of series: a short call assigned or a long put exercised sells
// shares, a short put assigned or a long call exercised buys them.
func syntheticTrade(series OptionPosition, tx AssignOrExercise, contracts Quantity) (shareTrade, bool) {
	if contracts.IsNegligible() {
		return shareTrade{}, false
	}
	strike := tx.Strike
	if strike.IsZero() {
		strike = series.Strike
	}
	shares := contracts.Mul(Q(ContractMultiplier))
	buy := (series.Direction == Short) == (series.Kind == Put)
	if !buy {
		shares = shares.Neg()
	}
	return shareTrade{
		ticker:     series.Ticker,
		quantity:   shares,
		price:      strike,
		commission: tx.Commission,
	}, true
}

// state snapshots the open positions.
func (r *replayer) state(txs []Transaction) *State {
	s := &State{
		Realized:         r.realized,
		RealizedByTicker: r.byTicker,
		Commissions:      r.commissions,
		Assignments:      r.assignments,
		Transactions:     txs,
		Issues:           r.issues,
	}
	for _, ticker := range slices.Sorted(maps.Keys(r.shares)) {
		if pos := r.shares[ticker]; !pos.Quantity.IsNegligible() {
			s.Shares = append(s.Shares, *pos)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(r.options)) {
		if series := r.options[id]; !series.Quantity.IsNegligible() {
			s.Options = append(s.Options, *series)
		}
	}
	return s
}
