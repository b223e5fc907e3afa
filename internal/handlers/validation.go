package handlers

import (
	"errors"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
)

// validationFailed answers 400 with every failed constraint message,
// flattened into a single list.
func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": "Validation failed",
		"errors":  flattenValidation(err),
	})
}

func flattenValidation(err error) []string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, verrs[f].Error())
	}
	return msgs
}
