package payment

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
)

const (
	ResponseCodeParam = "vnp_ResponseCode"
	TxnRefParam       = "vnp_TxnRef"
	TransactionNo     = "vnp_TransactionNo"
	SuccessCode       = "00"
	VerifiedStatus    = "success"
)

const (
	MessageSucceeded = "Thanh toán thành công."
	MessageFailed    = "Giao dịch của bạn đã bị hủy hoặc xảy ra lỗi trong quá trình xác thực."
)

var (
	// ErrNothingToReconcile means the entry carried neither a gateway code nor a handoff.
	ErrNothingToReconcile = errors.New("nothing to reconcile")
	// ErrDiscarded means the caller went away before the outcome was decided.
	ErrDiscarded = errors.New("reconciliation discarded")
)

type State string

const (
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

// Path records which entry condition decided the outcome.
type Path string

const (
	PathVerified Path = "gateway_verified"
	PathDeclined Path = "gateway_declined"
	PathHandoff  Path = "handoff"
	PathLedger   Path = "ledger"
)

// Entry is everything the result page was reached with.
type Entry struct {
	Params  url.Values
	Handoff map[string]any
}

// ResponseCode returns the gateway response code, if the entry has a non-empty one.
func (e Entry) ResponseCode() (string, bool) {
	if e.Params == nil {
		return "", false
	}
	code := strings.TrimSpace(e.Params.Get(ResponseCodeParam))
	return code, code != ""
}

// Verification is the canonical answer of the payment service, already unwrapped from any envelope.
type Verification struct {
	Status  string
	Message string
	Code    string
	Booking *BookingSnapshot
}

func (v Verification) Succeeded() bool {
	return v.Status == VerifiedStatus
}

type Verifier interface {
	Verify(ctx context.Context, params url.Values) (Verification, error)
}

type Outcome struct {
	State        State            `json:"state"`
	Path         Path             `json:"path"`
	Message      string           `json:"message"`
	ResponseCode string           `json:"responseCode,omitempty"`
	Booking      *BookingSnapshot `json:"booking,omitempty"`
	Handoff      map[string]any   `json:"handoff,omitempty"`
}

// Reconciler turns one result-page entry into a terminal state. It verifies at most once;
// concurrent callers wait for the first, and later callers get the cached outcome.
type Reconciler struct {
	verifier Verifier

	mu      sync.Mutex
	started bool
	done    chan struct{}
	outcome *Outcome
	err     error
}

func NewReconciler(verifier Verifier) *Reconciler {
	return &Reconciler{verifier: verifier, done: make(chan struct{})}
}

func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome == nil {
		return StateLoading
	}
	return r.outcome.State
}

func (r *Reconciler) Reconcile(ctx context.Context, e Entry) (Outcome, error) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		select {
		case <-r.done:
			return r.result()
		case <-ctx.Done():
			return Outcome{}, errors.Join(ErrDiscarded, ctx.Err())
		}
	}
	r.started = true
	r.mu.Unlock()

	o, err := r.decide(ctx, e)

	r.mu.Lock()
	if err != nil {
		r.err = err
	} else {
		r.outcome = &o
	}
	r.mu.Unlock()
	close(r.done)

	return o, err
}

func (r *Reconciler) result() (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcome != nil {
		return *r.outcome, nil
	}
	return Outcome{}, r.err
}

func (r *Reconciler) decide(ctx context.Context, e Entry) (Outcome, error) {
	code, hasCode := e.ResponseCode()

	switch {
	case hasCode && code == SuccessCode:
		v, err := r.verifier.Verify(ctx, e.Params)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, errors.Join(ErrDiscarded, ctxErr)
		}
		if err != nil || !v.Succeeded() {
			return Failed(PathVerified, code), nil
		}
		return Outcome{
			State:        StateSuccess,
			Path:         PathVerified,
			Message:      MessageSucceeded,
			ResponseCode: code,
			Booking:      v.Booking,
		}, nil

	case hasCode:
		return Failed(PathDeclined, code), nil

	case e.Handoff != nil:
		return Outcome{
			State:   StateSuccess,
			Path:    PathHandoff,
			Message: MessageSucceeded,
			Handoff: e.Handoff,
		}, nil

	default:
		return Outcome{}, ErrNothingToReconcile
	}
}

// Failed builds the generic failure outcome; verification detail is never shown to the customer.
func Failed(path Path, code string) Outcome {
	return Outcome{
		State:        StateFailed,
		Path:         path,
		Message:      MessageFailed,
		ResponseCode: code,
	}
}
