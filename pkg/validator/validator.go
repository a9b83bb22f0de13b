package validator

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"anoa.com/freelancehub/pkg/apperror"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PhonePattern accepts '44076356', '(+222)44076356' and '+22244076356' style numbers.
var PhonePattern = regexp.MustCompile(`^(\+?\d{8,15}|\(\+?\d{1,3}\)\d{7,14}|\+\d{1,3}\d{7,14})$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom rules on gin's validator engine. It must run
// before any request binding; repeated calls are no-ops.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
	})
	return registerErr
}

// Validate checks the binding tags of s outside of a request, returning an
// invalid-input AppError with readable messages.
func Validate(s any) error {
	if err := Register(); err != nil {
		return err
	}
	err := binding.Validator.ValidateStruct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return apperror.New(http.StatusBadRequest, FormatValidationError(ve), apperror.ErrInvalidInput)
	}
	return err
}

func IsValidPhone(phone string) bool {
	return PhonePattern.MatchString(phone)
}

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone":
		return fmt.Sprintf("%s must look like '44076356', '(+222)44076356' or '+22244076356'", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, getFieldName(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Email":          "Email",
		"Password":       "Password",
		"Role":           "Role",
		"FullName":       "Full name",
		"Phone":          "Phone number",
		"Specialization": "Specialization",
		"JobTitle":       "Job title",
		"Title":          "Title",
		"BudgetMin":      "Minimum budget",
		"BudgetMax":      "Maximum budget",
		"Deadline":       "Deadline",
		"Message":        "Message",
		"Score":          "Score",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
