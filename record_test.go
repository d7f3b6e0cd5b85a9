package ledgercore

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCodec(t *testing.T) {
	t.Run("round trips an account", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)

		acct := Account{
			ID:         42,
			Name:       "Ada Lovelace",
			Credential: "s3cret",
			Balance:    decimal.RequireFromString("49.50"),
		}
		buf := encodeRecord(nil, acct)
		reqrd.Len(buf, RecordSize)

		got, ok := decodeRecord(buf)
		reqrd.True(ok)
		as.Equal(acct.ID, got.ID)
		as.Equal(acct.Name, got.Name)
		as.Equal(acct.Credential, got.Credential)
		as.True(acct.Balance.Equal(got.Balance), "want %s, got %s", acct.Balance, got.Balance)
	})

	t.Run("drops bytes past the field widths", func(tt *testing.T) {
		as := assert.New(tt)

		acct := Account{
			ID:         7,
			Name:       strings.Repeat("n", nameLen+10),
			Credential: strings.Repeat("p", credentialLen+3),
		}
		got, ok := decodeRecord(encodeRecord(nil, acct))
		as.True(ok)
		as.Equal(strings.Repeat("n", nameLen), got.Name)
		as.Equal(strings.Repeat("p", credentialLen), got.Credential)
	})

	t.Run("clears a reused buffer", func(tt *testing.T) {
		as := assert.New(tt)

		buf := encodeRecord(nil, Account{ID: 1, Name: "long-lived-name", Credential: "password12345"})
		buf = encodeRecord(buf, Account{ID: 2, Name: "x", Credential: "y"})
		got, ok := decodeRecord(buf)
		as.True(ok)
		as.Equal("x", got.Name)
		as.Equal("y", got.Credential)
	})

	t.Run("rejects a short buffer", func(tt *testing.T) {
		_, ok := decodeRecord(make([]byte, RecordSize-1))
		assert.False(tt, ok)
	})
}
