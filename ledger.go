package optionpl

import (
	"iter"
	"slices"

	"go.uber.org/zap"
)

// Ledger represents a list of transactions.
//
// In a Ledger transactions are always in chronological order. Transactions on
// the same day keep their insertion order.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates a ledger holding txs in chronological order.
func NewLedger(txs ...Transaction) *Ledger {
	l := &Ledger{transactions: make([]Transaction, 0, len(txs))}
	l.Append(txs...)
	return l
}

// Append appends transactions to this ledger and maintains the chronological order of transactions.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	stableSort(l.transactions)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator that yields each transaction accepted by
// all filters, in chronological order.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// OnTicker is a filter for [Ledger.Transactions] accepting a single underlying.
func OnTicker(ticker string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Underlying() == ticker }
}

// OnSeries is a filter for [Ledger.Transactions] accepting the transactions of
// one option series.
func OnSeries(optionID string) func(Transaction) bool {
	return func(tx Transaction) bool {
		switch v := tx.(type) {
		case OpenOption:
			return v.OptionID == optionID
		case CloseOption:
			return v.OptionID == optionID
		case ExpireOption:
			return v.OptionID == optionID
		case AssignOrExercise:
			return v.OptionID == optionID
		}
		return false
	}
}

// Replay replays the whole ledger. See [Replay].
func (l *Ledger) Replay(opts ...ReplayOption) *State {
	return Replay(l.transactions, opts...)
}

// stableSort sorts transactions by date, keeping the relative order of
// transactions on the same day.
func stableSort(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		switch {
		case a.When().Before(b.When()):
			return -1
		case a.When().After(b.When()):
			return 1
		default:
			return 0
		}
	})
}

// ReplayOption configures [Replay].
type ReplayOption func(*replayer)

// WithLogger sends every replay issue to log.
func WithLogger(log *zap.Logger) ReplayOption {
	return func(r *replayer) {
		if log != nil {
			r.log = log
		}
	}
}
