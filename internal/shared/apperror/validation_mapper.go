package apperror

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first validator error into an error code
// plus a user-facing detail line. Field names come from json tags (see
// Init).
func MapValidationError(err error) (string, any) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return CodeInvalidInput, RequiredField(humanReadableField).Message
		default:
			return CodeInvalidInput, InvalidField(humanReadableField).Message
		}
	}

	return CodeInvalidInput, nil
}
