package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("funko_model", isValidModel)
		_ = v.RegisterValidation("notblank", isNotBlank)
		validate = v
	})
	return validate
}

var isValidModel validator.Func = func(fl validator.FieldLevel) bool {
	return Model(fl.Field().String()).Valid()
}

var isNotBlank validator.Func = func(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationError lists the rules a funko broke.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range []string{"ID", "Name", "Model", "Price"} {
		if msg, ok := e.Fields[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return "invalid funko: " + strings.Join(parts, "; ")
}

// Validate checks the domain rules a funko must satisfy before it is stored.
func (f Funko) Validate() error {
	err := validatorInstance().Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be empty"
	case "funko_model":
		return fmt.Sprintf("unknown model %q", fe.Value())
	case "gt":
		return "must be greater than " + fe.Param()
	case "uuid":
		return "must be a UUID"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "failed on " + fe.Tag()
}
