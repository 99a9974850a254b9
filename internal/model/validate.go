package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedPayload is returned when an inbound frame cannot be decoded
// into a notification.
var ErrMalformedPayload = errors.New("malformed notification payload")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their form or json name rather than the Go name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// ValidationError lists the fields that failed validation, in declaration order.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// Has reports whether field is among the failing fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// toValidationError converts validator output to a *ValidationError.
// Errors that are not field failures are returned unchanged.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Fields: make([]string, 0, len(verrs))}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fe.Field())
	}
	return ve
}

// ProductInput is the free-text product form as submitted by a user.
type ProductInput struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
	Price       string `form:"price" validate:"required,numeric"`
	Stock       string `form:"stock" validate:"required,number"`
	Image       string `form:"image" validate:"required"`
}

// ParseProduct trims and validates the form and converts it to a Product
// with a zero ID. Every field must be present; price must be a non-negative
// decimal and stock a non-negative integer.
func ParseProduct(in ProductInput) (Product, error) {
	in = ProductInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       strings.TrimSpace(in.Price),
		Stock:       strings.TrimSpace(in.Stock),
		Image:       strings.TrimSpace(in.Image),
	}

	ve := &ValidationError{}
	if err := validate.Struct(in); err != nil {
		converted := toValidationError(err)
		v, ok := converted.(*ValidationError)
		if !ok {
			return Product{}, converted
		}
		ve = v
	}

	var price float64
	if !ve.Has("price") {
		p, err := strconv.ParseFloat(in.Price, 64)
		if err != nil || p < 0 {
			ve.Fields = append(ve.Fields, "price")
		}
		price = p
	}

	var stock int
	if !ve.Has("stock") {
		s, err := strconv.Atoi(in.Stock)
		if err != nil {
			ve.Fields = append(ve.Fields, "stock")
		}
		stock = s
	}

	if len(ve.Fields) > 0 {
		return Product{}, ve
	}

	return Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Stock:       stock,
		Image:       in.Image,
	}, nil
}

// ValidateProduct checks an already-typed product, as loaded from config.
func ValidateProduct(p Product) error {
	if err := validate.Struct(p); err != nil {
		return toValidationError(err)
	}
	return nil
}

// DecodeNotification decodes a JSON text frame into a Notification.
//
// The timestamp may be an RFC 3339 string or a number of milliseconds since
// the Unix epoch. type, message and timestamp are all required. Any failure
// wraps [ErrMalformedPayload].
func DecodeNotification(data []byte) (Notification, error) {
	var raw struct {
		Type      string          `json:"type"`
		Message   string          `json:"message"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return Notification{}, fmt.Errorf("%w: timestamp: %v", ErrMalformedPayload, err)
	}

	n := Notification{
		Type:      raw.Type,
		Message:   raw.Message,
		Timestamp: ts,
	}
	if err := validate.Struct(n); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformedPayload, toValidationError(err))
	}
	return n, nil
}

// parseTimestamp accepts a quoted RFC 3339 string or epoch milliseconds.
// A missing or null value yields the zero time.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}

	ms, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch milliseconds %q", raw)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
