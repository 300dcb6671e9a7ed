package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"billdesk/internal/domain"
)

var (
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	mobilePattern  = regexp.MustCompile(`^[0-9]{10}$`)
)

// amountTolerance is the largest accepted difference between an item's
// amount and quantity × rate.
var amountTolerance = decimal.NewFromFloat(0.01)

// Storage limits of the money (NUMERIC(14,2)) and quantity (NUMERIC(12,3))
// columns.
const (
	moneyPlaces    = 2
	quantityPlaces = 3
)

var (
	moneyLimit    = decimal.New(1, 12)
	quantityLimit = decimal.New(1, 9)
)

// FieldErrors maps a JSON field path such as "items[0].rate" to a message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets callers classify FieldErrors as invalid input.
func (e FieldErrors) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

// add records msg for path unless an earlier message exists.
func (e FieldErrors) add(path, msg string) {
	if _, ok := e[path]; !ok {
		e[path] = msg
	}
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("registering %s validation: %v", tag, err))
		}
	}
	must("gstin", func(fl validator.FieldLevel) bool { return gstinPattern.MatchString(fl.Field().String()) })
	must("pincode", func(fl validator.FieldLevel) bool { return pincodePattern.MatchString(fl.Field().String()) })
	must("mobile", func(fl validator.FieldLevel) bool { return mobilePattern.MatchString(fl.Field().String()) })
	must("billdate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	must("paymentstatus", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParsePaymentStatus(fl.Field().String())
		return ok
	})
	return v
}

// ParseDate accepts the date layouts clients and extraction produce and
// returns the calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"02-01-2006",
		"02/01/2006",
	}
	s = strings.TrimSpace(s)
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %s", s)
}

var tagMessages = map[string]string{
	"required":      "is required",
	"gstin":         "must be a valid 15-character GSTIN",
	"pincode":       "must be a 6-digit pincode",
	"mobile":        "must be a 10-digit mobile number",
	"billdate":      "must be a valid date (YYYY-MM-DD)",
	"paymentstatus": `must be either "paid" or "unpaid"`,
	"uuid":          "must be a valid UUID",
	"gt":            "must be greater than 0",
	"email":         "must be a valid email address",
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s entry", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	}
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	return "is invalid"
}

func varMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return messageFor(verrs[0])
	}
	return "is invalid"
}

// structErrors runs tag validation on form and merges failures into errs.
// Paths drop the root struct name, so "billForm.items[0].rate" becomes
// "items[0].rate"; prefix is prepended when non-empty.
func structErrors(form interface{}, prefix string, errs FieldErrors) {
	err := validate.Struct(form)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("body", err.Error())
		return
	}
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		errs.add(path, messageFor(fe))
	}
}

func checkItemAmounts(items []itemForm, errs FieldErrors) {
	for i, it := range items {
		if !it.Quantity.IsPositive() || !it.Rate.IsPositive() || !it.Amount.IsPositive() {
			continue
		}
		expected := it.Quantity.Mul(it.Rate)
		if expected.Sub(it.Amount).Abs().GreaterThan(amountTolerance) {
			errs.add(fmt.Sprintf("items[%d].amount", i),
				fmt.Sprintf("must equal quantity × rate (%s)", expected.StringFixed(2)))
		}
	}
}

// checkPrecision rejects positive values the store would round or overflow.
// Non-positive values are left to the gt=0 rule.
func checkPrecision(errs FieldErrors, path string, d decimal.Decimal, places int32, limit decimal.Decimal) {
	if !d.IsPositive() {
		return
	}
	switch {
	case !d.Equal(d.Round(places)):
		errs.add(path, fmt.Sprintf("must have at most %d decimal places", places))
	case d.GreaterThanOrEqual(limit):
		errs.add(path, fmt.Sprintf("must be less than %s", limit.String()))
	}
}

func checkItemPrecision(items []itemForm, errs FieldErrors) {
	for i, it := range items {
		p := fmt.Sprintf("items[%d]", i)
		checkPrecision(errs, p+".quantity", it.Quantity, quantityPlaces, quantityLimit)
		checkPrecision(errs, p+".rate", it.Rate, moneyPlaces, moneyLimit)
		checkPrecision(errs, p+".amount", it.Amount, moneyPlaces, moneyLimit)
	}
}

// BindingErrors converts a gin binding failure into FieldErrors. Request DTOs
// bound by gin carry no json tag name func, so field names are lower-cased.
func BindingErrors(err error) FieldErrors {
	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("body", "must be a valid JSON object")
		return errs
	}
	for _, fe := range verrs {
		errs.add(strings.ToLower(fe.Field()), messageFor(fe))
	}
	return errs
}
