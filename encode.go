package optionpl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// DecodeLedger decodes transactions from a stream of JSONL data, one
// transaction per line, and returns a sorted Ledger.
//
// Lines are dispatched on their "command" property. Blank lines are ignored.
// Errors report the line number.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue // Skip empty lines
		}
		tx, err := decodeTransaction(line)
		if err != nil {
			return nil, fmt.Errorf("parse error on line %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return NewLedger(txs...), nil
}

// decodeTransaction decodes a single JSON object into its concrete transaction type.
func decodeTransaction(data []byte) (Transaction, error) {
	var identifier struct {
		Command CommandType `json:"command"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify command in %q: %w", string(data), err)
	}

	switch identifier.Command {
	case CmdBuy:
		return decodeAs[BuyShare](data)
	case CmdSell:
		return decodeAs[SellShare](data)
	case CmdOpen:
		tx, err := decodeAs[OpenOption](data)
		if err != nil {
			return nil, err
		}
		if tx.OptionID == "" {
			tx.OptionID = NewOptionID(tx.Ticker, tx.Kind, tx.Strike, tx.Expiration)
		}
		return tx, nil
	case CmdClose:
		return decodeAs[CloseOption](data)
	case CmdExpire:
		return decodeAs[ExpireOption](data)
	case CmdAssign:
		return decodeAs[AssignOrExercise](data)
	default:
		return nil, fmt.Errorf("unknown transaction command: %q", identifier.Command)
	}
}

func decodeAs[T Transaction](data []byte) (T, error) {
	var tx T
	if err := json.Unmarshal(data, &tx); err != nil {
		return tx, fmt.Errorf("invalid %T: %w", tx, err)
	}
	return tx, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	jsonData, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger in JSONL format, in chronological order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, tx := range ledger.Transactions() {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// LoadLedger decodes the ledger stored in filename.
func LoadLedger(filename string) (*Ledger, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", filename, err)
	}
	defer f.Close()
	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger %q: %w", filename, err)
	}
	return ledger, nil
}

// SaveLedger writes the ledger to filename, replacing its content.
func SaveLedger(filename string, ledger *Ledger) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", filename, err)
	}
	if err := EncodeLedger(f, ledger); err != nil {
		f.Close()
		return fmt.Errorf("persist error: write error on file %q: %w", filename, err)
	}
	return f.Close()
}
