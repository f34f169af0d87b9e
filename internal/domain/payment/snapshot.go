package payment

import "time"

type SnapshotItem struct {
	Snapshot struct {
		Title       string `json:"title"`
		Image       string `json:"image,omitempty"`
		DetailsText string `json:"details_text,omitempty"`
	} `json:"snapshot"`
	Quantity int `json:"quantity"`
}

type CustomerDetails struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address,omitempty"`
	Note     string `json:"note,omitempty"`
}

type Pricing struct {
	TotalBeforeDiscount int64 `json:"total_price_before_discount"`
	DiscountAmount      int64 `json:"discount_amount"`
	FinalPrice          int64 `json:"final_price"`
}

// BookingSnapshot is the booking as the payment and booking services report it.
type BookingSnapshot struct {
	ID              string          `json:"_id"`
	Items           []SnapshotItem  `json:"items"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	Pricing         Pricing         `json:"pricing"`
	PaymentStatus   string          `json:"payment_status,omitempty"`
	Status          string          `json:"status,omitempty"`
	CreatedAt       *time.Time      `json:"createdAt,omitempty"`
}
