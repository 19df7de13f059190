package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/bcit-connector/pkg/response"
)

// Messages maps "field.tag" or "field" to the message returned for it.
type Messages map[string]string

const location = "body"

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers aliases and the custom tags used by request types.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=6")
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	})
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// Bind decodes the JSON body into dst and validates it. An empty body is
// validated as an empty object so every missing field is reported.
func Bind(ctx *gin.Context, dst any) error {
	err := ctx.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(dst)
	}
	return err
}

// ToErrors converts binding/validation errors into response items, one per
// failing field, in struct order.
func ToErrors(err error, msgs Messages) []response.ErrorItem {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []response.ErrorItem{{Msg: "Invalid JSON payload", Param: "payload", Location: location}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]response.ErrorItem, 0, len(verrs))
		seen := make(map[string]bool, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			if seen[field] {
				continue
			}
			seen[field] = true
			out = append(out, response.ErrorItem{Msg: message(fe, msgs), Param: field, Location: location})
		}
		return out
	}

	return []response.ErrorItem{{Msg: "Invalid payload", Param: "payload", Location: location}}
}

func message(fe validator.FieldError, msgs Messages) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if m, ok := msgs[fe.Field()]; ok {
		return m
	}
	return fe.Field() + " " + formatFieldError(fe)
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "date":
		return "must be a valid date"
	case "pwd":
		return "must be at least 6 characters long"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return "failed '" + tag + "' with parameter '" + param + "'"
		}
		return "failed '" + tag + "'"
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
