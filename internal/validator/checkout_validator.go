package validator

import (
	"errors"
	"regexp"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	playground "github.com/go-playground/validator/v10"
)

const maxOrderNoteLength = 500

var (
	phonePattern      = regexp.MustCompile(`^01[0-9]-?[0-9]{3,4}-?[0-9]{4}$`)
	postalCodePattern = regexp.MustCompile(`^\d{5}$`)
)

var ErrShippingAddressRequired = errors.New("shipping address is required")

type checkoutValidator struct {
	v *playground.Validate
}

// Usecaseは interface を依存注入
func NewCheckoutValidator() usecase.CheckoutValidator {
	v := playground.New(playground.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl playground.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("postalcode5", func(fl playground.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	return &checkoutValidator{v: v}
}

// 配送先と注文メモを検証。エラーはそのまま利用者に見せられる文言で返す。
func (c *checkoutValidator) ValidateCheckout(addr *model.ShippingAddress, note *string) error {
	if addr == nil {
		return ErrShippingAddressRequired
	}

	if err := c.v.Struct(addr); err != nil {
		var fieldErrs playground.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.New(messageFor(fieldErrs[0]))
		}
		return err
	}

	if note != nil {
		if err := c.v.Var(*note, "max=500"); err != nil {
			return errors.New("order note must be at most 500 characters")
		}
	}
	return nil
}

func messageFor(e playground.FieldError) string {
	switch e.StructField() {
	case "Name":
		if e.Tag() == "max" {
			return "recipient name must be at most 50 characters"
		}
		return "recipient name must be at least 2 characters"
	case "Phone":
		return "invalid phone number format (e.g. 010-1234-5678)"
	case "PostalCode":
		return "postal code must be 5 digits"
	case "Address":
		return "address is required"
	default:
		return "invalid shipping address"
	}
}
