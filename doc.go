// Package optionpl values a book of shares and equity options from a ledger
// of trades.
//
// The ledger is a JSONL file of transactions: share buys and sells, option
// contracts opened, closed, expired, assigned or exercised. [Replay] folds
// them in chronological order into a [State]: the open share positions at
// average cost, the open option series with their net premium, and the
// realized profit and loss. Transactions that cannot be applied are kept as
// [Issue] values rather than failing the whole replay.
//
// Subpackages build on that state: pricing values a single contract with
// Black-Scholes, curve projects the P/L of the open positions over a range
// of underlying prices, and renderer turns both into markdown reports for
// the opl command line tool.
package optionpl
