package validator

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a validator.v10 instance with the custom rules used by the
// request DTOs.
type Validator struct {
	validate *validator.Validate
}

// ValidationError carries per-field messages ready for an error response.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for field, msg := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	registerCustomRules(v)
	return &Validator{validate: v}
}

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-chat-role", validateChatRole)
	mustRegister("is-message-type", validateMessageType)
}

// Validate checks a DTO and converts validator errors into a ValidationError.
func (v *Validator) Validate(obj interface{}) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs[fe.Field()] = messageForTag(fe)
	}
	return &ValidationError{Errors: errs}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "is-chat-role":
		return "must be one of: user, admin, owner"
	case "is-message-type":
		return "must be one of: text, image, audio, video, system"
	default:
		return fmt.Sprintf("failed validation rule '%s'", fe.Tag())
	}
}

func validateChatRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // required handles empty values
	}
	switch value {
	case "user", "admin", "owner":
		return true
	default:
		return false
	}
}

func validateMessageType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch value {
	case "text", "image", "audio", "video", "system":
		return true
	default:
		return false
	}
}
