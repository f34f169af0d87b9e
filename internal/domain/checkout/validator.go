package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"gotrip-checkout/internal/domain/passenger"
)

const (
	FieldFullName = "fullName"
	FieldPhone    = "phone"
	FieldEmail    = "email"
)

const (
	msgContactNameRequired = "Vui lòng nhập họ tên người liên hệ."
	msgPhoneRequired       = "Vui lòng nhập số điện thoại."
	msgPhoneInvalid        = "Số điện thoại không hợp lệ (VD: 0901234567)."
	msgEmailRequired       = "Vui lòng nhập email."
	msgEmailInvalid        = "Email không đúng định dạng."
	msgPassengerName       = "Vui lòng nhập họ tên."
	msgPassengerDOB        = "Vui lòng chọn ngày sinh."
)

var (
	// Vietnamese mobile: 0 or 84 prefix, carrier digit 3/5/7/8/9, eight more digits.
	phoneRegex = regexp.MustCompile(`^(?:\+?84|0)[35789][0-9]{8}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func PassengerNameKey(pos int) string { return fmt.Sprintf("pass_name_%d", pos) }
func PassengerDOBKey(pos int) string  { return fmt.Sprintf("pass_dob_%d", pos) }

// FieldErrors maps a form field key to a user-facing message. Empty means submittable.
type FieldErrors map[string]string

func (e FieldErrors) Empty() bool { return len(e) == 0 }

// Validate collects every violation; it never stops at the first one.
func Validate(contact ContactInfo, passengers []passenger.Record) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(contact.FullName) == "" {
		errs[FieldFullName] = msgContactNameRequired
	}

	phone := strings.TrimSpace(contact.Phone)
	switch {
	case phone == "":
		errs[FieldPhone] = msgPhoneRequired
	case !phoneRegex.MatchString(phone):
		errs[FieldPhone] = msgPhoneInvalid
	}

	email := strings.TrimSpace(contact.Email)
	switch {
	case email == "":
		errs[FieldEmail] = msgEmailRequired
	case !emailRegex.MatchString(email):
		errs[FieldEmail] = msgEmailInvalid
	}

	for pos, p := range passengers {
		if strings.TrimSpace(p.FullName) == "" {
			errs[PassengerNameKey(pos)] = msgPassengerName
		}
		if strings.TrimSpace(p.DateOfBirth) == "" {
			errs[PassengerDOBKey(pos)] = msgPassengerDOB
		}
	}

	return errs
}
