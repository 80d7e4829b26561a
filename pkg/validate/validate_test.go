package validate_test

import (
	"testing"

	"github.com/gametribe/backend/pkg/validate"
)

type checkoutInput struct {
	FullName      string `json:"full_name"      validate:"required,min=2,max=100"`
	Email         string `json:"email"          validate:"required,email"`
	Address       string `json:"address"        validate:"required"`
	PostalCode    string `json:"postal_code"    validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,in=creditCard,paypal"`
	Quantity      int    `json:"quantity"       validate:"required,integer,gte=1"`
	Website       string `json:"website"        validate:"nullable,url"`
}

func validCheckout() checkoutInput {
	return checkoutInput{
		FullName:      "Alex Hunter",
		Email:         "alex@example.com",
		Address:       "12 High St",
		PostalCode:    "AB1 2CD",
		PaymentMethod: "paypal",
		Quantity:      2,
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(validCheckout())
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(checkoutInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"full_name", "email", "payment_method"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	in := validCheckout()
	in.Email = "not-an-email"
	if _, ok := validate.Struct(in)["email"]; !ok {
		t.Error("expected email validation error")
	}
}

func TestInRuleKeepsMultiValueParam(t *testing.T) {
	in := validCheckout()
	in.PaymentMethod = "bitcoin"
	if _, ok := validate.Struct(in)["payment_method"]; !ok {
		t.Error("expected payment_method to be rejected")
	}

	in.PaymentMethod = "creditCard"
	if _, ok := validate.Struct(in)["payment_method"]; ok {
		t.Error("expected creditCard to be accepted")
	}
}

func TestNumericBounds(t *testing.T) {
	in := validCheckout()
	in.Quantity = 0
	if _, ok := validate.Struct(in)["quantity"]; !ok {
		t.Error("expected quantity 0 to fail required")
	}

	in.Quantity = -3
	if _, ok := validate.Struct(in)["quantity"]; !ok {
		t.Error("expected negative quantity to fail gte=1")
	}
}

func TestNullableSkipsWhenEmpty(t *testing.T) {
	in := validCheckout()
	in.Website = ""
	if _, ok := validate.Struct(in)["website"]; ok {
		t.Error("expected empty nullable field to pass")
	}

	in.Website = "ftp://nope"
	if _, ok := validate.Struct(in)["website"]; !ok {
		t.Error("expected non-http URL to fail")
	}
}
