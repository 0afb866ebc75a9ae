package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/contacts-backend/internal/platform/apierr"
)

const (
	ruleFullName = "min=2,max=120"
	ruleEmail    = "email,max=255"
	rulePhone    = "max=32"
	ruleTags     = "dive,required,max=64"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// fieldErrors flattens validator output into per-field API detail.
func fieldErrors(err error) []apierr.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]apierr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apierr.FieldError{
			Field:   fieldPath(fe),
			Message: ruleMessage(fe),
		})
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// checkVar validates a single value and tags any failure with field.
func checkVar(field string, value any, rules string) []apierr.FieldError {
	err := getValidator().Var(value, rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apierr.FieldError{{Field: field, Message: err.Error()}}
	}
	out := make([]apierr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		name := field
		// dive errors carry the element index, e.g. "[2]"
		if idx := fe.Field(); strings.HasPrefix(idx, "[") {
			name = field + idx
		}
		out = append(out, apierr.FieldError{Field: name, Message: ruleMessage(fe)})
	}
	return out
}
