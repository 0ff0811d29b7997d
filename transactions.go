package optionpl

import (
	"fmt"
	"strings"

	"github.com/etnz/optionpl/date"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy    CommandType = "buy"
	CmdSell   CommandType = "sell"
	CmdOpen   CommandType = "open"
	CmdClose  CommandType = "close"
	CmdExpire CommandType = "expire"
	CmdAssign CommandType = "assign"
)

// OptionKind is either a call or a put.
type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// IsCall reports whether k is a call.
func (k OptionKind) IsCall() bool { return k == Call }

// ParseOptionKind parses "call"/"c" or "put"/"p", case insensitive.
func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(s) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return "", fmt.Errorf("unknown option kind %q", s)
	}
}

// Direction tells whether an option series is held long (bought to open) or
// short (sold to open).
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Transaction defines the common interface for all events that can be
// recorded in the ledger. The set of implementations is closed: only the
// types of this package satisfy it.
type Transaction interface {
	What() CommandType  // What returns the command type of the transaction (e.g., "buy", "open").
	When() date.Date    // When returns the date on which the transaction occurred.
	Ref() string        // Ref returns the transaction unique id.
	Underlying() string // Underlying returns the ticker the transaction is about.
	sealed()
}

type baseCmd struct {
	Command CommandType `json:"command"`        // Command specifies the type of transaction.
	ID      string      `json:"id,omitempty"`   // ID is the unique id of the transaction in the log.
	Date    date.Date   `json:"date"`           // Date is the day the transaction took place.
	Ticker  string      `json:"ticker"`         // Ticker is the underlying security.
	Memo    string      `json:"memo,omitempty"` // Memo provides an optional note.
}

func (t baseCmd) What() CommandType  { return t.Command }
func (t baseCmd) When() date.Date    { return t.Date }
func (t baseCmd) Ref() string        { return t.ID }
func (t baseCmd) Underlying() string { return t.Ticker }
func (baseCmd) sealed()              {}

// write appends the base fields in canonical order.
func (t baseCmd) write(w *jsonObjectWriter) {
	w.Append("command", t.Command)
	w.Optional("id", t.ID)
	w.Append("date", t.Date)
	w.Append("ticker", t.Ticker)
	w.Optional("memo", t.Memo)
}

// BuyShare records the purchase of shares.
type BuyShare struct {
	baseCmd
	Quantity   Quantity `json:"quantity"`   // Quantity is the number of shares, always positive.
	Price      Money    `json:"price"`      // Price is paid per share.
	Commission Money    `json:"commission"` // Commission is the optional fee for the trade.
}

// NewBuyShare creates a new BuyShare transaction.
func NewBuyShare(day date.Date, id, ticker string, quantity Quantity, price, commission Money) BuyShare {
	return BuyShare{
		baseCmd:    baseCmd{Command: CmdBuy, ID: id, Date: day, Ticker: ticker},
		Quantity:   quantity,
		Price:      price,
		Commission: commission,
	}
}

// MarshalJSON implements the json.Marshaler interface for BuyShare.
func (t BuyShare) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.baseCmd.write(&w)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Optional("commission", t.Commission)
	return w.MarshalJSON()
}

// SellShare records the sale of shares.
type SellShare struct {
	baseCmd
	Quantity   Quantity `json:"quantity"`   // Quantity is the number of shares, always positive.
	Price      Money    `json:"price"`      // Price is received per share.
	Commission Money    `json:"commission"` // Commission is the optional fee for the trade.
}

// NewSellShare creates a new SellShare transaction.
func NewSellShare(day date.Date, id, ticker string, quantity Quantity, price, commission Money) SellShare {
	return SellShare{
		baseCmd:    baseCmd{Command: CmdSell, ID: id, Date: day, Ticker: ticker},
		Quantity:   quantity,
		Price:      price,
		Commission: commission,
	}
}

// MarshalJSON implements the json.Marshaler interface for SellShare.
func (t SellShare) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.baseCmd.write(&w)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Optional("commission", t.Commission)
	return w.MarshalJSON()
}

// OpenOption records a sell-to-open (Short) or buy-to-open (Long) of option
// contracts.
type OpenOption struct {
	baseCmd
	OptionID   string     `json:"optionId"`   // OptionID groups all transactions on the same contract series.
	Kind       OptionKind `json:"kind"`       // Kind is call or put.
	Direction  Direction  `json:"direction"`  // Direction is long or short.
	Strike     Money      `json:"strike"`     // Strike is the exercise price per share.
	Expiration date.Date  `json:"expiration"` // Expiration is the last day of the contract.
	Quantity   Quantity   `json:"quantity"`   // Quantity is a number of contracts.
	Premium    Money      `json:"premium"`    // Premium is the total price of one contract.
	Commission Money      `json:"commission"` // Commission is the optional fee for the trade.
}

// NewOpenOption creates a new OpenOption transaction. An empty optionID is
// replaced by the canonical identifier of the series.
func NewOpenOption(day date.Date, id, ticker, optionID string, kind OptionKind, direction Direction, strike Money, expiration date.Date, quantity Quantity, premium, commission Money) OpenOption {
	if optionID == "" {
		optionID = NewOptionID(ticker, kind, strike, expiration)
	}
	return OpenOption{
		baseCmd:    baseCmd{Command: CmdOpen, ID: id, Date: day, Ticker: ticker},
		OptionID:   optionID,
		Kind:       kind,
		Direction:  direction,
		Strike:     strike,
		Expiration: expiration,
		Quantity:   quantity,
		Premium:    premium,
		Commission: commission,
	}
}

// MarshalJSON implements the json.Marshaler interface for OpenOption.
func (t OpenOption) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.baseCmd.write(&w)
	w.Append("optionId", t.OptionID)
	w.Append("kind", t.Kind)
	w.Append("direction", t.Direction)
	w.Append("strike", t.Strike)
	w.Append("expiration", t.Expiration)
	w.Append("quantity", t.Quantity)
	w.Append("premium", t.Premium)
	w.Optional("commission", t.Commission)
	return w.MarshalJSON()
}

// CloseOption records a buy-to-close of a short series or a sell-to-close of
// a long one. The direction is that of the series being closed.
type CloseOption struct {
	baseCmd
	OptionID   string   `json:"optionId"`
	Quantity   Quantity `json:"quantity"`
	Premium    Money    `json:"premium"` // Premium is the total price of one contract.
	Commission Money    `json:"commission"`
}

// NewCloseOption creates a new CloseOption transaction.
func NewCloseOption(day date.Date, id, ticker, optionID string, quantity Quantity, premium, commission Money) CloseOption {
	return CloseOption{
		baseCmd:    baseCmd{Command: CmdClose, ID: id, Date: day, Ticker: ticker},
		OptionID:   optionID,
		Quantity:   quantity,
		Premium:    premium,
		Commission: commission,
	}
}

// MarshalJSON implements the json.Marshaler interface for CloseOption.
func (t CloseOption) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.baseCmd.write(&w)
	w.Append("optionId", t.OptionID)
	w.Append("quantity", t.Quantity)
	w.Append("premium", t.Premium)
	w.Optional("commission", t.Commission)
	return w.MarshalJSON()
}

// ExpireOption records contracts expiring worthless.
type ExpireOption struct {
	baseCmd
	OptionID string   `json:"optionId"`
	Quantity Quantity `json:"quantity"`
}

// NewExpireOption creates a new ExpireOption transaction.
func NewExpireOption(day date.Date, id, ticker, optionID string, quantity Quantity) ExpireOption {
	return ExpireOption{
		baseCmd:  baseCmd{Command: CmdExpire, ID: id, Date: day, Ticker: ticker},
		OptionID: optionID,
		Quantity: quantity,
	}
}

// MarshalJSON implements the json.Marshaler interface for ExpireOption.
func (t ExpireOption) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.baseCmd.write(&w)
	w.Append("optionId", t.OptionID)
	w.Append("quantity", t.Quantity)
	return w.MarshalJSON()
}

// AssignOrExercise records the assignment of a short series or the exercise
// of a long one. Besides closing the contracts it trades Quantity×100 shares
// at Strike.
type AssignOrExercise struct {
	baseCmd
	OptionID   string   `json:"optionId"`
	Quantity   Quantity `json:"quantity"`
	Strike     Money    `json:"strike"`     // Strike defaults to the series strike when zero.
	Commission Money    `json:"commission"` // Commission is charged to the share leg.
}

// NewAssignOrExercise creates a new AssignOrExercise transaction.
func NewAssignOrExercise(day date.Date, id, ticker, optionID string, quantity Quantity, strike, commission Money) AssignOrExercise {
	return AssignOrExercise{
		baseCmd:    baseCmd{Command: CmdAssign, ID: id, Date: day, Ticker: ticker},
		OptionID:   optionID,
		Quantity:   quantity,
		Strike:     strike,
		Commission: commission,
	}
}

// MarshalJSON implements the json.Marshaler interface for AssignOrExercise.
func (t AssignOrExercise) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	t.baseCmd.write(&w)
	w.Append("optionId", t.OptionID)
	w.Append("quantity", t.Quantity)
	w.Optional("strike", t.Strike)
	w.Optional("commission", t.Commission)
	return w.MarshalJSON()
}

// NewOptionID returns the canonical identifier of a contract series, e.g.
// "SPY-20250620-C-450".
func NewOptionID(ticker string, kind OptionKind, strike Money, expiration date.Date) string {
	cp := 'P'
	if kind.IsCall() {
		cp = 'C'
	}
	return fmt.Sprintf("%s-%s-%c-%s", strings.ToUpper(ticker), expiration.Format("20060102"), cp, strike.value.String())
}
