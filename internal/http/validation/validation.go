package validation

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldErrors map[string]string

const (
	MsgRequired = "This field is required."
	MsgEmail    = "Enter a valid email address."
	MsgPrice    = "Enter a price of 0 or more."
	MsgInvalid  = "Invalid value."
	MsgForm     = "The form could not be read."
)

var registerOnce sync.Once

// Register adds the custom tags used by the form structs to gin's validator.
// It is safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("price", validPrice)
		}
	})
}

// decimalRe is the syntax of a browser number input: no sign, hex, Inf or NaN.
var decimalRe = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// validPrice accepts a finite non-negative decimal, the way a number input
// with step 0.01 does.
func validPrice(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	if !decimalRe.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// FromBindError maps a bind/validation error to form field -> message.
// dst is the bound struct pointer; its form tags name the fields.
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(dst, fe.StructField())] = messageForTag(fe.Tag())
		}
		return out
	}

	out["_"] = MsgForm
	return out
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag, _, _ := strings.Cut(f.Tag.Get("form"), ",")
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return MsgRequired
	case "email":
		return MsgEmail
	case "price":
		return MsgPrice
	default:
		return MsgInvalid
	}
}
