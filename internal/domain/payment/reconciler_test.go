//go:build unit

package payment_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gotrip-checkout/internal/domain/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	calls  atomic.Int32
	result payment.Verification
	err    error
	gate   chan struct{}
	params url.Values
}

func (f *fakeVerifier) Verify(ctx context.Context, params url.Values) (payment.Verification, error) {
	f.calls.Add(1)
	f.params = params
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
		}
	}
	return f.result, f.err
}

func gatewayParams(code string) url.Values {
	return url.Values{
		"vnp_ResponseCode":  {code},
		"vnp_TxnRef":        {"BK-20260615-001"},
		"vnp_Amount":        {"1260000000"},
		"vnp_SecureHash":    {"a1b2c3"},
		"vnp_TransactionNo": {"14012345"},
	}
}

func TestReconcileScenarios(t *testing.T) {
	snapshot := &payment.BookingSnapshot{ID: "BK-20260615-001", PaymentStatus: "paid"}

	t.Run("A: success code verified as success", func(t *testing.T) {
		v := &fakeVerifier{result: payment.Verification{Status: "success", Booking: snapshot}}
		r := payment.NewReconciler(v)

		got, err := r.Reconcile(context.Background(), payment.Entry{Params: gatewayParams("00")})

		require.NoError(t, err)
		assert.Equal(t, payment.StateSuccess, got.State)
		assert.Equal(t, payment.PathVerified, got.Path)
		assert.Equal(t, snapshot, got.Booking)
		assert.Equal(t, int32(1), v.calls.Load())
		assert.Equal(t, gatewayParams("00"), v.params, "all gateway params are forwarded verbatim")
		assert.Equal(t, payment.StateSuccess, r.State())
	})

	t.Run("B: non-success code fails without verification", func(t *testing.T) {
		v := &fakeVerifier{}
		r := payment.NewReconciler(v)

		got, err := r.Reconcile(context.Background(), payment.Entry{Params: gatewayParams("24")})

		require.NoError(t, err)
		assert.Equal(t, payment.StateFailed, got.State)
		assert.Equal(t, payment.PathDeclined, got.Path)
		assert.Equal(t, "24", got.ResponseCode)
		assert.Equal(t, int32(0), v.calls.Load())
	})

	t.Run("C: handoff snapshot succeeds without network", func(t *testing.T) {
		v := &fakeVerifier{}
		r := payment.NewReconciler(v)
		handoff := map[string]any{"orderId": "HT-123", "totalPrice": 419717}

		got, err := r.Reconcile(context.Background(), payment.Entry{Handoff: handoff})

		require.NoError(t, err)
		assert.Equal(t, payment.StateSuccess, got.State)
		assert.Equal(t, payment.PathHandoff, got.Path)
		assert.Equal(t, handoff, got.Handoff)
		assert.Equal(t, int32(0), v.calls.Load())
	})

	t.Run("D: verification error fails", func(t *testing.T) {
		v := &fakeVerifier{err: errors.New("connection refused")}
		r := payment.NewReconciler(v)

		got, err := r.Reconcile(context.Background(), payment.Entry{Params: gatewayParams("00")})

		require.NoError(t, err)
		assert.Equal(t, payment.StateFailed, got.State)
		assert.Equal(t, payment.MessageFailed, got.Message)
		assert.Equal(t, int32(1), v.calls.Load())
	})

	t.Run("verified but not success", func(t *testing.T) {
		v := &fakeVerifier{result: payment.Verification{Status: "failed", Code: "97"}}
		r := payment.NewReconciler(v)

		got, err := r.Reconcile(context.Background(), payment.Entry{Params: gatewayParams("00")})

		require.NoError(t, err)
		assert.Equal(t, payment.StateFailed, got.State)
	})

	t.Run("gateway code wins over handoff", func(t *testing.T) {
		v := &fakeVerifier{}
		r := payment.NewReconciler(v)

		got, err := r.Reconcile(context.Background(), payment.Entry{
			Params:  gatewayParams("51"),
			Handoff: map[string]any{"orderId": "HT-123"},
		})

		require.NoError(t, err)
		assert.Equal(t, payment.StateFailed, got.State)
	})

	t.Run("nothing to reconcile", func(t *testing.T) {
		r := payment.NewReconciler(&fakeVerifier{})

		_, err := r.Reconcile(context.Background(), payment.Entry{Params: url.Values{"vnp_ResponseCode": {""}}})

		require.ErrorIs(t, err, payment.ErrNothingToReconcile)
		assert.Equal(t, payment.StateLoading, r.State())
	})
}

func TestReconcileVerifiesAtMostOnce(t *testing.T) {
	v := &fakeVerifier{
		result: payment.Verification{Status: "success"},
		gate:   make(chan struct{}),
	}
	r := payment.NewReconciler(v)
	entry := payment.Entry{Params: gatewayParams("00")}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]payment.Outcome, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := r.Reconcile(context.Background(), entry)
			assert.NoError(t, err)
			results[i] = o
		}()
	}

	assert.Eventually(t, func() bool { return v.calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, payment.StateLoading, r.State())
	close(v.gate)
	wg.Wait()

	assert.Equal(t, int32(1), v.calls.Load())
	for _, o := range results {
		assert.Equal(t, payment.StateSuccess, o.State)
	}

	again, err := r.Reconcile(context.Background(), payment.Entry{Params: gatewayParams("24")})
	require.NoError(t, err)
	assert.Equal(t, payment.StateSuccess, again.State, "terminal state is cached")
	assert.Equal(t, int32(1), v.calls.Load())
}

func TestReconcileDiscardedAfterTeardown(t *testing.T) {
	v := &fakeVerifier{
		result: payment.Verification{Status: "success"},
		gate:   make(chan struct{}),
	}
	r := payment.NewReconciler(v)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Reconcile(ctx, payment.Entry{Params: gatewayParams("00")})
		errCh <- err
	}()

	assert.Eventually(t, func() bool { return v.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()

	err := <-errCh
	require.ErrorIs(t, err, payment.ErrDiscarded)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, payment.StateLoading, r.State())

	_, err = r.Reconcile(context.Background(), payment.Entry{Params: gatewayParams("00")})
	require.ErrorIs(t, err, payment.ErrDiscarded)
	assert.Equal(t, int32(1), v.calls.Load())
}
