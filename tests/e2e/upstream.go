//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// Upstream fakes the booking, inventory and payment services on one listener.
type Upstream struct {
	Server *httptest.Server

	mu         sync.Mutex
	promotions map[string]map[string]any
	bookings   map[string]map[string]any
	verdicts   map[string]map[string]any
	lastToken  string

	BookingCreates atomic.Int32
	Verifications  atomic.Int32
}

func NewUpstream(t *testing.T) *Upstream {
	t.Helper()

	u := &Upstream{
		promotions: map[string]map[string]any{},
		bookings:   map[string]map[string]any{},
		verdicts:   map[string]map[string]any{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /promotions/code/{code}", u.findPromotion)
	mux.HandleFunc("GET /promotions/public/active", u.listPromotions)
	mux.HandleFunc("POST /bookings", u.createBooking)
	mux.HandleFunc("GET /bookings/{id}", u.getBooking)
	mux.HandleFunc("GET /payment/vnpay-return", u.verify)
	mux.HandleFunc("POST /payment/create-vnpay-url", u.createURL)

	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Server.Close)
	return u
}

func (u *Upstream) URL() string { return u.Server.URL }

func (u *Upstream) AddPromotion(code string, p map[string]any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p["code"] = code
	u.promotions[code] = p
}

// SetVerdict fixes the payment service answer for a TxnRef.
func (u *Upstream) SetVerdict(txnRef string, v map[string]any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.verdicts[txnRef] = v
}

func (u *Upstream) LastToken() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastToken
}

func (u *Upstream) Booking(id string) map[string]any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.bookings[id]
}

func (u *Upstream) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.promotions = map[string]map[string]any{}
	u.bookings = map[string]map[string]any{}
	u.verdicts = map[string]map[string]any{}
	u.lastToken = ""
	u.BookingCreates.Store(0)
	u.Verifications.Store(0)
}

func (u *Upstream) findPromotion(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	p, ok := u.promotions[r.PathValue("code")]
	u.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Promotion not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": p})
}

func (u *Upstream) listPromotions(w http.ResponseWriter, _ *http.Request) {
	u.mu.Lock()
	list := make([]map[string]any, 0, len(u.promotions))
	for _, p := range u.promotions {
		list = append(list, p)
	}
	u.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": list})
}

func (u *Upstream) createBooking(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad body"})
		return
	}
	n := u.BookingCreates.Add(1)
	id := fmt.Sprintf("BK-E2E-%d", n)

	u.mu.Lock()
	u.lastToken = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	body["_id"] = id
	body["pricing"] = map[string]any{"final_price": 14000000}
	u.bookings[id] = body
	u.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"bookingId": id}})
}

func (u *Upstream) getBooking(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	b, ok := u.bookings[r.PathValue("id")]
	u.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Booking not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": b})
}

func (u *Upstream) verify(w http.ResponseWriter, r *http.Request) {
	u.Verifications.Add(1)
	ref := r.URL.Query().Get("vnp_TxnRef")

	u.mu.Lock()
	v, ok := u.verdicts[ref]
	u.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "failed", "message": "Invalid signature"})
		return
	}
	// the payment service wraps its verdict in an HTTP envelope
	writeJSON(w, http.StatusOK, map[string]any{"data": v, "status": 200})
}

func (u *Upstream) createURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount    int64  `json:"amount"`
		BookingID string `json:"bookingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid amount"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paymentUrl": "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=" + body.BookingID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
