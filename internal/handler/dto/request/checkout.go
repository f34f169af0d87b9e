package request

import (
	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/usecase/commands"

	"github.com/jinzhu/copier"
)

// StartCheckoutRequest is what the product page hands over when the customer presses "book".
type StartCheckoutRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	InventoryID string `json:"inventoryId"`
	ProductType string `json:"productType"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	BasePrice   int64  `json:"basePrice" binding:"min=0,max=10000000000000"`
	DepartDate  string `json:"departDate"`
	BookingInfo struct {
		Adults   int `json:"adults" binding:"min=0,max=50"`
		Children int `json:"children" binding:"min=0,max=50"`
	} `json:"bookingInfo"`
}

func (r StartCheckoutRequest) ToParams(userID, token string) (commands.StartCheckoutParams, error) {
	var sel checkout.Selection
	if err := copier.Copy(&sel, &r); err != nil {
		return commands.StartCheckoutParams{}, err
	}
	sel.BasePrice = pricing.Money(r.BasePrice)

	return commands.StartCheckoutParams{
		Selection: sel,
		Adults:    r.BookingInfo.Adults,
		Children:  r.BookingInfo.Children,
		UserID:    userID,
		Token:     token,
	}, nil
}

type UpdateCountsRequest struct {
	Adult   int `json:"adult" binding:"min=1,max=50"`
	Child   int `json:"child" binding:"min=0,max=50"`
	Toddler int `json:"toddler" binding:"min=0,max=50"`
	Infant  int `json:"infant" binding:"min=0,max=50"`
}

func (r UpdateCountsRequest) ToCounts() pricing.PassengerCount {
	return pricing.PassengerCount{Adult: r.Adult, Child: r.Child, Toddler: r.Toddler, Infant: r.Infant}
}

// EditPassengerRequest only touches the fields that are present.
type EditPassengerRequest struct {
	FullName    *string `json:"fullName" binding:"omitempty,max=200"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"dateOfBirth"`
}

func (r EditPassengerRequest) ToParams(position int) commands.EditPassengerParams {
	return commands.EditPassengerParams{
		Position:    position,
		FullName:    r.FullName,
		Gender:      r.Gender,
		DateOfBirth: r.DateOfBirth,
	}
}

type ContactRequest struct {
	FullName string `json:"fullName" binding:"max=200"`
	Phone    string `json:"phone" binding:"max=32"`
	Email    string `json:"email" binding:"max=254"`
	Address  string `json:"address" binding:"max=500"`
	Note     string `json:"note" binding:"max=1000"`
}

func (r ContactRequest) ToContact() (checkout.ContactInfo, error) {
	var c checkout.ContactInfo
	if err := copier.Copy(&c, &r); err != nil {
		return checkout.ContactInfo{}, err
	}
	return c, nil
}

type AddOnsRequest struct {
	SingleRoom bool `json:"singleRoom"`
}

func (r AddOnsRequest) ToAddOns() pricing.AddOns {
	return pricing.AddOns{SingleRoom: r.SingleRoom}
}

type ApplyPromotionRequest struct {
	Code string `json:"code"`
}
