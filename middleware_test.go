package ledgercore_test

import (
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumpark/ledgercore"
)

// stubService records whether a call made it through the middleware chain.
type stubService struct {
	calls    int32
	inFlight int32
	overlap  int32
}

func (s *stubService) enter() {
	if atomic.AddInt32(&s.inFlight, 1) > 1 {
		atomic.AddInt32(&s.overlap, 1)
	}
	atomic.AddInt32(&s.calls, 1)
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&s.inFlight, -1)
}

func (s *stubService) CreateAccount(ledgercore.CreateAccountReq) (*ledgercore.Account, error) {
	s.enter()
	return &ledgercore.Account{}, nil
}

func (s *stubService) Authenticate(ledgercore.AuthReq) (*ledgercore.Account, error) {
	s.enter()
	return &ledgercore.Account{}, nil
}

func (s *stubService) Deposit(ledgercore.ChargeReq) (*decimal.Decimal, error) {
	s.enter()
	return &decimal.Zero, nil
}

func (s *stubService) Transfer(ledgercore.TransferReq) (*ledgercore.TransferReceipt, error) {
	s.enter()
	return &ledgercore.TransferReceipt{}, nil
}

func (s *stubService) Balance(ledgercore.BalanceReq) (*decimal.Decimal, error) {
	s.enter()
	return &decimal.Zero, nil
}

func (s *stubService) Statement(io.Writer, ledgercore.StatementReq) error {
	s.enter()
	return nil
}

func (s *stubService) Summary() (*ledgercore.SystemSummary, error) {
	s.enter()
	return &ledgercore.SystemSummary{}, nil
}

func TestValidationMiddleware(t *testing.T) {
	newSvc := func() (ledgercore.Service, *stubService) {
		stub := &stubService{}
		return ledgercore.NewValidationMiddleware(0)(stub), stub
	}

	t.Run("rejects a non-positive amount", func(tt *testing.T) {
		as := assert.New(tt)
		svc, stub := newSvc()

		var br ledgercore.ErrBadRequest
		_, err := svc.Deposit(ledgercore.ChargeReq{AcctID: 1, Amount: decimal.Zero})
		as.ErrorAs(err, &br)
		_, err = svc.Transfer(ledgercore.TransferReq{SenderID: 1, ReceiverID: 2, Amount: decimal.NewFromInt(-5)})
		as.ErrorAs(err, &br)
		as.Zero(stub.calls)
	})

	t.Run("rejects a self-transfer", func(tt *testing.T) {
		as := assert.New(tt)
		svc, stub := newSvc()

		var br ledgercore.ErrBadRequest
		_, err := svc.Transfer(ledgercore.TransferReq{SenderID: 3, ReceiverID: 3, Amount: decimal.NewFromInt(5)})
		as.ErrorAs(err, &br)
		as.Zero(stub.calls)
	})

	t.Run("rejects the fee collector as a transfer endpoint", func(tt *testing.T) {
		as := assert.New(tt)
		svc, stub := newSvc()

		var br ledgercore.ErrBadRequest
		_, err := svc.Transfer(ledgercore.TransferReq{SenderID: 0, ReceiverID: 2, Amount: decimal.NewFromInt(5)})
		as.ErrorAs(err, &br)
		_, err = svc.Transfer(ledgercore.TransferReq{SenderID: 1, ReceiverID: 0, Amount: decimal.NewFromInt(5)})
		as.ErrorAs(err, &br)
		as.Zero(stub.calls)
	})

	t.Run("rejects registration fields that do not fit a record", func(tt *testing.T) {
		as := assert.New(tt)
		svc, stub := newSvc()

		var br ledgercore.ErrBadRequest
		_, err := svc.CreateAccount(ledgercore.CreateAccountReq{ID: 1, Name: strings.Repeat("n", 51), Credential: "pw"})
		as.ErrorAs(err, &br)
		_, err = svc.CreateAccount(ledgercore.CreateAccountReq{ID: 1, Name: "ok", Credential: strings.Repeat("p", 21)})
		as.ErrorAs(err, &br)
		_, err = svc.CreateAccount(ledgercore.CreateAccountReq{ID: -1, Name: "ok", Credential: "pw"})
		as.ErrorAs(err, &br)
		_, err = svc.CreateAccount(ledgercore.CreateAccountReq{ID: 1, Name: "", Credential: "pw"})
		as.ErrorAs(err, &br)
		as.Zero(stub.calls)
	})

	t.Run("passes a well-formed request through", func(tt *testing.T) {
		reqrd := require.New(tt)
		svc, stub := newSvc()

		_, err := svc.Transfer(ledgercore.TransferReq{SenderID: 1, ReceiverID: 2, Amount: decimal.NewFromInt(5)})
		reqrd.NoError(err)
		_, err = svc.Deposit(ledgercore.ChargeReq{AcctID: 1, Amount: decimal.NewFromInt(5)})
		reqrd.NoError(err)
		_, err = svc.CreateAccount(ledgercore.CreateAccountReq{ID: 1, Name: "ok", Credential: "pw"})
		reqrd.NoError(err)
		reqrd.Equal(int32(3), stub.calls)
	})
}

func TestSerializeMiddleware(t *testing.T) {
	as := assert.New(t)

	stub := &stubService{}
	svc := ledgercore.NewSerializeMiddleware()(stub)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(ledgercore.TransferReq{SenderID: 1, ReceiverID: 2, Amount: decimal.NewFromInt(1)})
			_, _ = svc.Deposit(ledgercore.ChargeReq{AcctID: 1, Amount: decimal.NewFromInt(1)})
		}()
	}
	wg.Wait()

	as.Equal(int32(64), stub.calls)
	as.Zero(stub.overlap, "operations must not overlap")
}
