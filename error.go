package ledgercore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInternal           = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type ErrBadRequest struct {
	Fields map[string]string
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

type ErrNotFound struct {
	ID int64 `json:"id"`
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("account %d not found", e.ID)
}

type ErrDuplicateID struct {
	ID int64 `json:"id"`
}

func (e ErrDuplicateID) Error() string {
	return fmt.Sprintf("account %d already exists", e.ID)
}

// ErrInsufficientFunds carries the amount the sender is short of,
// fee included.
type ErrInsufficientFunds struct {
	Shortfall decimal.Decimal
}

func (e ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds: short $%s", e.Shortfall.StringFixed(2))
}

// ErrStoreUnavailable means the backing file exists but cannot be opened.
type ErrStoreUnavailable struct {
	Path string
	Err  error
}

func (e ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("store %s unavailable: %v", e.Path, e.Err)
}

func (e ErrStoreUnavailable) Unwrap() error { return e.Err }

// ErrPartialWrite reports an I/O failure after validation passed and the
// write phase began. Failed names the writes that did not land; any write
// not listed was committed. There is no rollback.
type ErrPartialWrite struct {
	Op     string
	Failed []string
	Err    error
}

func (e ErrPartialWrite) Error() string {
	return fmt.Sprintf("%s: partial write, failed: %s: %v", e.Op, strings.Join(e.Failed, ", "), e.Err)
}

func (e ErrPartialWrite) Unwrap() error { return e.Err }
