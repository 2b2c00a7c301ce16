// Package validate checks user-supplied identifiers before any request is made.
package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/discord-lookup/internal/apperror"
)

// idRules: "number" only accepts ASCII digits (^[0-9]+$), no sign or decimal point.
const idRules = "required,number"

var idValidator = validator.New()

// ID trims raw and checks that it is a non-empty run of decimal digits.
//
// The trimmed identifier is returned on success. Failures are
// apperror.ErrEmptyInput or apperror.ErrInvalidFormat.
func ID(raw string) (string, error) {
	id := strings.TrimSpace(raw)

	err := idValidator.Var(id, idRules)
	if err == nil {
		return id, nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		if validationErrors[0].Tag() == "required" {
			return "", apperror.EmptyInput("id")
		}
	}
	return "", apperror.InvalidFormat("id")
}
