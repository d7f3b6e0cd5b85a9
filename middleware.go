package ledgercore

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
)

type Middleware func(Service) Service

// validationMiddleware rejects malformed requests before they reach the
// engine, so the engine only ever sees positive amounts and distinct,
// non-system endpoints.
type validationMiddleware struct {
	next           Service
	feeCollectorID int64
}

var (
	_ Service = (*validationMiddleware)(nil)
)

func NewValidationMiddleware(feeCollectorID int64) Middleware {
	return func(svc Service) Service {
		return &validationMiddleware{
			next:           svc,
			feeCollectorID: feeCollectorID,
		}
	}
}

func (v *validationMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	fields := make(map[string]string)
	if req.ID < 0 {
		fields["id"] = "must not be negative"
	}
	if req.Name == "" {
		fields["name"] = "missing"
	} else if len(req.Name) > nameLen {
		fields["name"] = "too long"
	}
	if req.Credential == "" {
		fields["credential"] = "missing"
	} else if len(req.Credential) > credentialLen {
		fields["credential"] = "too long"
	}
	if len(fields) > 0 {
		return nil, ErrBadRequest{Fields: fields}
	}
	return v.next.CreateAccount(req)
}

func (v *validationMiddleware) Authenticate(req AuthReq) (*Account, error) {
	return v.next.Authenticate(req)
}

func (v *validationMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrBadRequest{Fields: map[string]string{"amount": "must be positive"}}
	}
	return v.next.Deposit(req)
}

func (v *validationMiddleware) Transfer(req TransferReq) (*TransferReceipt, error) {
	fields := make(map[string]string)
	if !req.Amount.IsPositive() {
		fields["amount"] = "must be positive"
	}
	if req.SenderID == req.ReceiverID {
		fields["receiverID"] = "must differ from sender"
	}
	if req.SenderID == v.feeCollectorID || req.ReceiverID == v.feeCollectorID {
		fields["acctID"] = "fee collector is not a transfer endpoint"
	}
	if len(fields) > 0 {
		return nil, ErrBadRequest{Fields: fields}
	}
	return v.next.Transfer(req)
}

func (v *validationMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	return v.next.Balance(req)
}

func (v *validationMiddleware) Statement(w io.Writer, req StatementReq) error {
	return v.next.Statement(w, req)
}

func (v *validationMiddleware) Summary() (*SystemSummary, error) {
	return v.next.Summary()
}

// serializeMiddleware grants the store to one operation at a time. The
// engine's read-then-write cycle assumes exclusive access for its whole
// duration; any embedding that calls the service from more than one
// goroutine gets that guarantee from this decorator instead of from the
// store itself.
type serializeMiddleware struct {
	next Service
	sem  *semaphore.Weighted
}

var (
	_ Service = (*serializeMiddleware)(nil)
)

func NewSerializeMiddleware() Middleware {
	return func(next Service) Service {
		return &serializeMiddleware{
			next: next,
			sem:  semaphore.NewWeighted(1),
		}
	}
}

func (l *serializeMiddleware) CreateAccount(req CreateAccountReq) (*Account, error) {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.CreateAccount(req)
}

func (l *serializeMiddleware) Authenticate(req AuthReq) (*Account, error) {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.Authenticate(req)
}

func (l *serializeMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.Deposit(req)
}

func (l *serializeMiddleware) Transfer(req TransferReq) (*TransferReceipt, error) {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.Transfer(req)
}

func (l *serializeMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.Balance(req)
}

func (l *serializeMiddleware) Statement(w io.Writer, req StatementReq) error {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.Statement(w, req)
}

func (l *serializeMiddleware) Summary() (*SystemSummary, error) {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.Summary()
}
