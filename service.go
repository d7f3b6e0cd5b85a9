package ledgercore

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FeeRate is the flat rate charged on every transfer, credited to the
// fee-collector account. Process-wide; not configurable per call.
var FeeRate = decimal.NewFromFloat(0.01)

type CreateAccountReq struct {
	ID         int64
	Name       string
	Credential string
}

type AuthReq struct {
	ID         int64
	Credential string
}

type ChargeReq struct {
	AcctID int64
	Amount decimal.Decimal
}

type TransferReq struct {
	SenderID   int64
	ReceiverID int64
	Amount     decimal.Decimal
}

type BalanceReq struct {
	AcctID int64
}

type StatementReq struct {
	AcctID int64
}

// TransferReceipt reports a committed transfer: the amount credited to
// the receiver and the fee debited on top of it.
type TransferReceipt struct {
	Amount decimal.Decimal
	Fee    decimal.Decimal
}

// SystemSummary aggregates the whole store: user asset total, collected
// fees, and the number of non-system accounts.
type SystemSummary struct {
	ActiveAccounts int
	TotalLiquidity decimal.Decimal
	TotalRevenue   decimal.Decimal
}

type Service interface {
	CreateAccount(req CreateAccountReq) (*Account, error)
	Authenticate(req AuthReq) (*Account, error)
	Deposit(req ChargeReq) (*decimal.Decimal, error)
	Transfer(req TransferReq) (*TransferReceipt, error)
	Balance(req BalanceReq) (*decimal.Decimal, error)
	Statement(w io.Writer, req StatementReq) error
	Summary() (*SystemSummary, error)
}

// NewService wires the transfer engine to a record store and a ledger.
// It fails fast when the fee-collector account is missing: no transfer
// can commit without it.
func NewService(repo Repository, ledger Ledger, feeCollectorID int64, log *zerolog.Logger) (*serviceImpl, error) {
	if _, err := repo.Lookup(feeCollectorID); err != nil {
		return nil, fmt.Errorf("fee collector account %d: %w", feeCollectorID, err)
	}
	svc := &serviceImpl{
		repo:           repo,
		ledger:         ledger,
		feeCollectorID: feeCollectorID,
		log:            log,
	}
	return svc, nil
}

type serviceImpl struct {
	repo           Repository
	ledger         Ledger
	feeCollectorID int64
	log            *zerolog.Logger
}

var (
	_ Service = (*serviceImpl)(nil)
)

func (s *serviceImpl) CreateAccount(req CreateAccountReq) (*Account, error) {
	acct := Account{
		ID:         req.ID,
		Name:       req.Name,
		Credential: req.Credential,
		Balance:    decimal.Zero,
	}
	if err := s.repo.Append(acct); err != nil {
		return nil, err
	}
	s.log.Info().Int64("acct", acct.ID).Msg("account registered")
	return &acct, nil
}

// Authenticate compares id and credential in one pass and reports the
// same failure whichever of the two mismatched.
func (s *serviceImpl) Authenticate(req AuthReq) (*Account, error) {
	var match *Account
	err := s.repo.Scan(func(acct Account, _ int64) (bool, error) {
		if acct.ID == req.ID && acct.Credential == req.Credential {
			match = &acct
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrInvalidCredentials
	}
	return match, nil
}

func (s *serviceImpl) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	acct, offset, err := s.locate(req.AcctID)
	if err != nil {
		return nil, err
	}

	acct.Balance = acct.Balance.Add(req.Amount)
	if err = s.repo.UpdateAt(offset, *acct); err != nil {
		return nil, fmt.Errorf("deposit to account %d: %w", req.AcctID, err)
	}

	if err = s.ledger.Append(req.AcctID, req.AcctID, req.Amount, KindDeposit); err != nil {
		// The balance is committed; only history under-records.
		s.log.Err(err).Int64("acct", req.AcctID).Msg("deposit committed but not journaled")
		return nil, ErrPartialWrite{Op: "deposit", Failed: []string{"ledger"}, Err: err}
	}

	s.log.Info().
		Int64("acct", req.AcctID).
		Str("amount", req.Amount.StringFixed(2)).
		Msg("deposit committed")
	return &acct.Balance, nil
}

// Transfer moves amount from sender to receiver and the fee to the
// collector, as one read/validate/write cycle. The store is read once;
// validation completes before any write; the three writes then land in
// sender, receiver, collector order.
func (s *serviceImpl) Transfer(req TransferReq) (*TransferReceipt, error) {
	var (
		sender, receiver, collector          *Account
		senderOff, receiverOff, collectorOff int64
	)
	err := s.repo.Scan(func(acct Account, offset int64) (bool, error) {
		switch acct.ID {
		case req.SenderID:
			cp := acct
			sender, senderOff = &cp, offset
		case req.ReceiverID:
			cp := acct
			receiver, receiverOff = &cp, offset
		case s.feeCollectorID:
			cp := acct
			collector, collectorOff = &cp, offset
		}
		return sender != nil && receiver != nil && collector != nil, nil
	})
	if err != nil {
		return nil, err
	}
	switch {
	case sender == nil:
		return nil, ErrNotFound{ID: req.SenderID}
	case receiver == nil:
		return nil, ErrNotFound{ID: req.ReceiverID}
	case collector == nil:
		return nil, ErrNotFound{ID: s.feeCollectorID}
	}

	fee := req.Amount.Mul(FeeRate).Round(2)
	totalDebit := req.Amount.Add(fee)
	if sender.Balance.LessThan(totalDebit) {
		return nil, ErrInsufficientFunds{Shortfall: totalDebit.Sub(sender.Balance)}
	}

	sender.Balance = sender.Balance.Sub(totalDebit)
	receiver.Balance = receiver.Balance.Add(req.Amount)
	collector.Balance = collector.Balance.Add(fee)

	// Write phase. Best effort, no rollback: every write is attempted
	// even if an earlier one fails, so a fault never strands only a
	// subset on purpose.
	writes := []struct {
		name   string
		offset int64
		acct   *Account
	}{
		{"sender", senderOff, sender},
		{"receiver", receiverOff, receiver},
		{"collector", collectorOff, collector},
	}
	var (
		failed   []string
		writeErr error
	)
	for _, w := range writes {
		if err = s.repo.UpdateAt(w.offset, *w.acct); err != nil {
			failed = append(failed, w.name)
			if writeErr == nil {
				writeErr = err
			}
			s.log.Err(err).
				Str("record", w.name).
				Int64("offset", w.offset).
				Msg("transfer record write failed")
		}
	}
	if writeErr != nil {
		return nil, ErrPartialWrite{Op: "transfer", Failed: failed, Err: writeErr}
	}

	if err = s.ledger.Append(req.SenderID, req.ReceiverID, req.Amount, KindTransfer); err != nil {
		s.log.Err(err).Msg("transfer committed but not journaled")
		return nil, ErrPartialWrite{Op: "transfer", Failed: []string{"ledger"}, Err: err}
	}
	if err = s.ledger.Append(req.SenderID, s.feeCollectorID, fee, KindFee); err != nil {
		s.log.Err(err).Msg("transfer fee committed but not journaled")
		return nil, ErrPartialWrite{Op: "transfer", Failed: []string{"ledger"}, Err: err}
	}

	s.log.Info().
		Int64("sender", req.SenderID).
		Int64("receiver", req.ReceiverID).
		Str("amount", req.Amount.StringFixed(2)).
		Str("fee", fee.StringFixed(2)).
		Msg("transfer committed")

	receipt := &TransferReceipt{
		Amount: req.Amount,
		Fee:    fee,
	}
	return receipt, nil
}

func (s *serviceImpl) Balance(req BalanceReq) (*decimal.Decimal, error) {
	acct, err := s.repo.Lookup(req.AcctID)
	if err != nil {
		return nil, err
	}
	return &acct.Balance, nil
}

func (s *serviceImpl) Summary() (*SystemSummary, error) {
	sum := &SystemSummary{
		TotalLiquidity: decimal.Zero,
		TotalRevenue:   decimal.Zero,
	}
	err := s.repo.Scan(func(acct Account, _ int64) (bool, error) {
		if acct.ID == s.feeCollectorID {
			sum.TotalRevenue = acct.Balance
			return false, nil
		}
		sum.TotalLiquidity = sum.TotalLiquidity.Add(acct.Balance)
		sum.ActiveAccounts++
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *serviceImpl) locate(id int64) (*Account, int64, error) {
	var (
		match  *Account
		offset int64
	)
	err := s.repo.Scan(func(acct Account, off int64) (bool, error) {
		if acct.ID == id {
			match = &acct
			offset = off
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, 0, err
	}
	if match == nil {
		return nil, 0, ErrNotFound{ID: id}
	}
	return match, offset, nil
}
