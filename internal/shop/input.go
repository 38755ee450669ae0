package shop

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	return v
}

// FieldError is one failed rule, shaped for the form view.
type FieldError struct {
	Field   string `json:"param"`
	Value   string `json:"value"`
	Message string `json:"msg"`
}

// ValidationError carries every failed rule. Error() is the first message.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid input"
	}
	return e.Errors[0].Message
}

func invalid(field, value, msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Value: value, Message: msg}}}
}

// messages maps field and failed tag to the text shown to the user.
var messages = map[string]string{
	"title":           "Title must be at least 3 characters long.",
	"price":           "Price must be a positive number.",
	"description":     "Description must be between 5 and 400 characters.",
	"email":           "Please enter a valid email.",
	"password":        "Password must be at least 5 characters long.",
	"confirmPassword": "Passwords have to match!",
}

// check runs the struct rules on in and converts failures into a ValidationError.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range vErrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		value, _ := fe.Value().(string)
		out.Errors = append(out.Errors, FieldError{Field: fe.Field(), Value: value, Message: msg})
	}
	return out
}

type ProductInput struct {
	Title       string `form:"title" json:"title" validate:"min=3"`
	Price       string `form:"price" json:"price" validate:"price"`
	Description string `form:"description" json:"description" validate:"min=5,max=400"`
}

func (in *ProductInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Price = strings.TrimSpace(in.Price)
	in.Description = strings.TrimSpace(in.Description)
}

// Validate trims the fields in place and checks them.
func (in *ProductInput) Validate() error {
	in.normalize()
	return check(in)
}

// Amount is the parsed price. Call after Validate.
func (in ProductInput) Amount() decimal.Decimal {
	d, _ := decimal.NewFromString(in.Price)
	return d
}
