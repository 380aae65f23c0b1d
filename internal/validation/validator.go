package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator to integrate with Gin.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// ValidateStruct checks payload and, on failure, writes the error response and
// aborts. It reports whether the handler may continue.
func (v *Validator) ValidateStruct(ctx *gin.Context, payload any) bool {
	if err := v.v.Struct(payload); err != nil {
		ctx.AbortWithStatusJSON(Status(err), gin.H{"error": Message(err)})
		return false
	}
	return true
}

// Status maps a validation failure to a response code: a missing field is a
// bad request, a present but unacceptable value is unprocessable.
func Status(err error) int {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return http.StatusBadRequest
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return http.StatusBadRequest
		}
	}
	return http.StatusUnprocessableEntity
}

// Message renders the first field failure for humans.
func Message(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
