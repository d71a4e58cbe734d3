package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/storemate/backend/internal/domain/shared"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Request DTOs carry their rules in binding tags.
	v.SetTagName("binding")
	// Report field names the way callers spell them in JSON payloads.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct checks a request DTO against its binding tags and converts any
// failure into a coded domain error naming the offending fields.
func Struct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		parts := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			parts = append(parts, fe.Field()+" failed on '"+fe.Tag()+"'")
		}
		return shared.NewDomainError("INVALID_INPUT", "Validation failed: "+strings.Join(parts, "; "))
	}
	return shared.NewDomainError("INVALID_INPUT", "Validation failed: "+err.Error())
}
