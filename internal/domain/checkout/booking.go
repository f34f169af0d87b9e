package checkout

import "gotrip-checkout/internal/domain/pricing"

type BookingItem struct {
	ProductID    string        `json:"productId"`
	InventoryID  string        `json:"inventoryId"`
	ProductType  string        `json:"productType"`
	Quantity     int           `json:"quantity"`
	UnitPrice    pricing.Money `json:"unitPrice"`
	ProductTitle string        `json:"productTitle"`
	Image        string        `json:"image"`
	DetailsText  string        `json:"detailsText"`
}

type BookingPassenger struct {
	Type        string `json:"type"`
	FullName    string `json:"fullName"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
}

// BookingRequest is the body sent to the booking service. PromotionCode is null when none applies.
type BookingRequest struct {
	Items         []BookingItem      `json:"items"`
	PromotionCode *string            `json:"promotionCode"`
	Passengers    []BookingPassenger `json:"passengers"`
	ContactInfo   ContactInfo        `json:"contactInfo"`
}
