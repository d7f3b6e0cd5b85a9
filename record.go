package ledgercore

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/shopspring/decimal"
)

const (
	nameLen       = 50
	credentialLen = 20

	// RecordSize is the byte length of one account record on disk:
	// id int64 | name (NUL-padded) | credential (NUL-padded) | balance float64 bits.
	RecordSize = 8 + nameLen + credentialLen + 8
)

// Account is one record in the store. The balance travels as a decimal
// in memory and as float64 bits on disk.
type Account struct {
	ID         int64
	Name       string
	Credential string
	Balance    decimal.Decimal
}

// encodeRecord serializes an account into a fixed-size record.
// Name and credential bytes beyond their field widths are dropped.
func encodeRecord(dst []byte, acct Account) []byte {
	if cap(dst) < RecordSize {
		dst = make([]byte, RecordSize)
	} else {
		dst = dst[:RecordSize]
		for i := range dst {
			dst[i] = 0
		}
	}

	binary.LittleEndian.PutUint64(dst[0:8], uint64(acct.ID))
	copy(dst[8:8+nameLen], acct.Name)
	copy(dst[8+nameLen:8+nameLen+credentialLen], acct.Credential)
	binary.LittleEndian.PutUint64(dst[RecordSize-8:RecordSize], math.Float64bits(acct.Balance.InexactFloat64()))

	return dst
}

// decodeRecord parses a fixed-size account record.
func decodeRecord(src []byte) (Account, bool) {
	if len(src) < RecordSize {
		return Account{}, false
	}
	bal := math.Float64frombits(binary.LittleEndian.Uint64(src[RecordSize-8 : RecordSize]))
	if math.IsNaN(bal) || math.IsInf(bal, 0) {
		return Account{}, false
	}
	return Account{
		ID:         int64(binary.LittleEndian.Uint64(src[0:8])),
		Name:       trimPadding(src[8 : 8+nameLen]),
		Credential: trimPadding(src[8+nameLen : 8+nameLen+credentialLen]),
		Balance:    decimal.NewFromFloat(bal),
	}, true
}

func trimPadding(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
