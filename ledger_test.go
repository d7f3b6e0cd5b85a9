package ledgercore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumpark/ledgercore"
)

func newTestLedger(t *testing.T) (*ledgercore.LedgerLog, string) {
	t.Helper()
	log := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	lg, err := ledgercore.NewLedgerLog(path, &log)
	require.NoError(t, err)
	require.NoError(t, lg.Init())
	return lg, path
}

func TestLedgerInit(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	lg, path := newTestLedger(t)

	bits, err := os.ReadFile(path)
	reqrd.NoError(err)
	as.Equal("TXID,SenderID,ReceiverID,Amount,Type,Timestamp\n", string(bits))

	// A second Init must not write a second header.
	reqrd.NoError(lg.Init())
	again, err := os.ReadFile(path)
	reqrd.NoError(err)
	as.Equal(bits, again)
}

func TestLedgerAppendFormat(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	lg, path := newTestLedger(t)

	reqrd.NoError(lg.Append(1, 2, decimal.NewFromInt(50), ledgercore.KindTransfer))

	bits, err := os.ReadFile(path)
	reqrd.NoError(err)
	lines := strings.Split(strings.TrimRight(string(bits), "\n"), "\n")
	reqrd.Len(lines, 2)

	fields := strings.Split(lines[1], ",")
	reqrd.Len(fields, 6)
	as.True(strings.HasPrefix(fields[0], "TX-"))
	as.Equal("1", fields[1])
	as.Equal("2", fields[2])
	as.Equal("50.00", fields[3], "amounts carry exactly two decimal places")
	as.Equal("TRANSFER", fields[4])
	_, err = time.ParseInLocation("2006-01-02 15:04:05", fields[5], time.Local)
	as.NoError(err)
}

func TestLedgerReadAllFilters(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	lg, _ := newTestLedger(t)

	reqrd.NoError(lg.Append(1, 2, decimal.NewFromInt(50), ledgercore.KindTransfer))
	reqrd.NoError(lg.Append(1, 0, decimal.RequireFromString("0.50"), ledgercore.KindFee))
	reqrd.NoError(lg.Append(3, 3, decimal.NewFromInt(25), ledgercore.KindDeposit))
	reqrd.NoError(lg.Append(2, 1, decimal.NewFromInt(10), ledgercore.KindTransfer))

	var kinds []ledgercore.Kind
	err := lg.ReadAll(1, func(txn ledgercore.Transaction) (bool, error) {
		kinds = append(kinds, txn.Kind)
		return false, nil
	})
	reqrd.NoError(err)
	as.Equal([]ledgercore.Kind{ledgercore.KindTransfer, ledgercore.KindFee, ledgercore.KindTransfer}, kinds,
		"rows where the account is sender or receiver, in append order")

	var rows int
	err = lg.ReadAll(3, func(txn ledgercore.Transaction) (bool, error) {
		rows++
		as.Equal(ledgercore.KindDeposit, txn.Kind)
		as.Equal(txn.SenderID, txn.ReceiverID, "deposits are self-addressed")
		return false, nil
	})
	reqrd.NoError(err)
	as.Equal(1, rows)
}

func TestLedgerReadAllStopsEarly(t *testing.T) {
	reqrd := require.New(t)
	lg, _ := newTestLedger(t)

	for i := 0; i < 5; i++ {
		reqrd.NoError(lg.Append(1, 2, decimal.NewFromInt(int64(i+1)), ledgercore.KindTransfer))
	}

	visited := 0
	err := lg.ReadAll(1, func(ledgercore.Transaction) (bool, error) {
		visited++
		return visited == 2, nil
	})
	reqrd.NoError(err)
	reqrd.Equal(2, visited)
}

func TestLedgerReadAllMissingFile(t *testing.T) {
	reqrd := require.New(t)
	log := zerolog.Nop()
	lg, err := ledgercore.NewLedgerLog(filepath.Join(t.TempDir(), "ledger.csv"), &log)
	reqrd.NoError(err)

	visited := 0
	err = lg.ReadAll(1, func(ledgercore.Transaction) (bool, error) {
		visited++
		return false, nil
	})
	reqrd.NoError(err)
	reqrd.Zero(visited)
}

func TestLedgerTxIDsUnique(t *testing.T) {
	reqrd := require.New(t)
	lg, _ := newTestLedger(t)

	for i := 0; i < 10; i++ {
		reqrd.NoError(lg.Append(1, 2, decimal.NewFromInt(1), ledgercore.KindTransfer))
	}

	seen := make(map[string]bool)
	err := lg.ReadAll(1, func(txn ledgercore.Transaction) (bool, error) {
		reqrd.False(seen[txn.TxID], "duplicate tx id %s", txn.TxID)
		seen[txn.TxID] = true
		return false, nil
	})
	reqrd.NoError(err)
	reqrd.Len(seen, 10)
}
