package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"whosbook/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct 校验失败统一转成 ErrInvalidInput
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return domain.ErrInvalidInput.WithCause(err)
	}
	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return domain.ErrInvalidInput.WithMessage("invalid input: " + strings.Join(parts, ", "))
}
