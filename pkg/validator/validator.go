package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"slotskolan.se/forum/pkg/apperror"
)

// BindError converts a gin binding error into a 400 with a readable Swedish message.
func BindError(err error) error {
	return apperror.BadRequest(FormatValidationError(err))
}

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return "Ogiltig förfrågan"
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s måste anges", field)
	case "email":
		return fmt.Sprintf("%s måste vara en giltig e-postadress", field)
	case "uuid":
		return fmt.Sprintf("%s har ett ogiltigt format", field)
	case "oneof":
		return fmt.Sprintf("%s måste vara ett av: %s", field, fe.Param())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s måste vara minst %s tecken", field, fe.Param())
		}
		return fmt.Sprintf("%s måste vara minst %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s får vara högst %s tecken", field, fe.Param())
		}
		return fmt.Sprintf("%s får vara högst %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s är ogiltigt", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":   "Användarnamn",
		"Email":      "E-post",
		"Password":   "Lösenord",
		"Role":       "Roll",
		"Title":      "Titel",
		"Content":    "Innehåll",
		"CategoryID": "Kategori",
		"PostID":     "Inlägg",
		"ReportID":   "Rapport",
		"Reason":     "Anledning",
		"Resolution": "Beslut",
		"Status":     "Status",
		"Name":       "Namn",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
