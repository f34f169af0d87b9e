package response

import "gotrip-checkout/internal/domain/payment"

type PaymentURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
	BookingID  string `json:"bookingId"`
	Amount     int64  `json:"amount"`
}

type PaymentResultResponse struct {
	State        string                   `json:"state"`
	Path         string                   `json:"path"`
	Message      string                   `json:"message"`
	ResponseCode string                   `json:"responseCode,omitempty"`
	Booking      *payment.BookingSnapshot `json:"booking,omitempty"`
	Handoff      map[string]any           `json:"handoff,omitempty"`
}

func FromOutcome(o *payment.Outcome) *PaymentResultResponse {
	return &PaymentResultResponse{
		State:        string(o.State),
		Path:         string(o.Path),
		Message:      o.Message,
		ResponseCode: o.ResponseCode,
		Booking:      o.Booking,
		Handoff:      o.Handoff,
	}
}
