package ledgercore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=ledger.go -destination=mocks/ledger.go -package=mocks

// Kind classifies a ledger row.
type Kind string

const (
	KindDeposit  Kind = "DEPOSIT"
	KindTransfer Kind = "TRANSFER"
	KindFee      Kind = "FEE"
)

const timestampLayout = "2006-01-02 15:04:05"

// Transaction is one completed monetary movement. Rows are derived
// history, never a source of truth for balances. TxID is informational
// only and is not a lookup key. For a deposit, sender and receiver are
// the same account.
type Transaction struct {
	TxID       string
	SenderID   int64
	ReceiverID int64
	Amount     decimal.Decimal
	Kind       Kind
	Timestamp  time.Time
}

// Ledger is the append-only journal of completed transactions.
type Ledger interface {
	Append(senderID, receiverID int64, amount decimal.Decimal, kind Kind) error

	// ReadAll visits, in append order, every transaction where filterID
	// is sender or receiver. fn returning stop=true or an error ends the
	// walk early.
	ReadAll(filterID int64, fn func(txn Transaction) (stop bool, err error)) error
}

// LedgerLog persists the journal as a CSV file with a single header row.
type LedgerLog struct {
	path string
	node *snowflake.Node
	log  *zerolog.Logger
}

var (
	_ Ledger = (*LedgerLog)(nil)

	csvHeader = []string{"TXID", "SenderID", "ReceiverID", "Amount", "Type", "Timestamp"}
)

func NewLedgerLog(path string, log *zerolog.Logger) (*LedgerLog, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	lg := &LedgerLog{
		path: path,
		node: node,
		log:  log,
	}
	return lg, nil
}

// Init writes the header row once, when the file is absent or empty.
func (lg *LedgerLog) Init() error {
	fi, err := os.Stat(lg.path)
	if err == nil && fi.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return ErrStoreUnavailable{Path: lg.path, Err: err}
	}

	f, err := os.OpenFile(lg.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return ErrStoreUnavailable{Path: lg.path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write(csvHeader); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (lg *LedgerLog) Append(senderID, receiverID int64, amount decimal.Decimal, kind Kind) error {
	f, err := os.OpenFile(lg.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return ErrStoreUnavailable{Path: lg.path, Err: err}
	}
	defer f.Close()

	txID := fmt.Sprintf("TX-%s", lg.node.Generate())
	row := []string{
		txID,
		strconv.FormatInt(senderID, 10),
		strconv.FormatInt(receiverID, 10),
		amount.StringFixed(2),
		string(kind),
		time.Now().Format(timestampLayout),
	}

	w := csv.NewWriter(f)
	if err = w.Write(row); err != nil {
		return fmt.Errorf("append ledger row %s: %w", txID, err)
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("append ledger row %s: %w", txID, err)
	}

	lg.log.Debug().
		Str("tx", txID).
		Int64("sender", senderID).
		Int64("receiver", receiverID).
		Str("kind", string(kind)).
		Msg("ledger row appended")
	return nil
}

func (lg *LedgerLog) ReadAll(filterID int64, fn func(txn Transaction) (bool, error)) error {
	f, err := os.Open(lg.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ErrStoreUnavailable{Path: lg.path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	// Header row.
	if _, err = r.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	for {
		row, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		txn, err := parseRow(row)
		if err != nil {
			return err
		}
		if txn.SenderID != filterID && txn.ReceiverID != filterID {
			continue
		}
		stop, err := fn(txn)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

func parseRow(row []string) (Transaction, error) {
	sender, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger row %s: bad sender: %w", row[0], err)
	}
	receiver, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger row %s: bad receiver: %w", row[0], err)
	}
	amount, err := decimal.NewFromString(row[3])
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger row %s: bad amount: %w", row[0], err)
	}
	ts, err := time.ParseInLocation(timestampLayout, row[5], time.Local)
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger row %s: bad timestamp: %w", row[0], err)
	}
	txn := Transaction{
		TxID:       row[0],
		SenderID:   sender,
		ReceiverID: receiver,
		Amount:     amount,
		Kind:       Kind(row[4]),
		Timestamp:  ts,
	}
	return txn, nil
}
