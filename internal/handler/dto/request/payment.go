package request

import (
	"net/url"

	"gotrip-checkout/internal/usecase/commands"
)

type CreatePaymentURLRequest struct {
	SessionID string `json:"sessionId"`
	BookingID string `json:"bookingId"`
	BankCode  string `json:"bankCode"`
	Language  string `json:"language" binding:"omitempty,oneof=vn en"`
}

func (r CreatePaymentURLRequest) ToParams() commands.CreatePaymentURLParams {
	return commands.CreatePaymentURLParams{
		SessionID: r.SessionID,
		BookingID: r.BookingID,
		BankCode:  r.BankCode,
		Language:  r.Language,
	}
}

type MockPaymentRequest struct {
	SessionID string `json:"sessionId"`
	BookingID string `json:"bookingId"`
}

// PaymentResultRequest carries a result-page entry posted by the storefront: the gateway query
// parameters, if any, and the snapshot handed over by the payment page.
type PaymentResultRequest struct {
	SessionID string            `json:"sessionId"`
	Params    map[string]string `json:"params"`
	Handoff   map[string]any    `json:"handoff"`
}

func (r PaymentResultRequest) ToParams() commands.ReconcileParams {
	var params url.Values
	if len(r.Params) > 0 {
		params = make(url.Values, len(r.Params))
		for k, v := range r.Params {
			params.Set(k, v)
		}
	}
	return commands.ReconcileParams{
		SessionID: r.SessionID,
		Params:    params,
		Handoff:   r.Handoff,
	}
}
