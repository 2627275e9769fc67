package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// bindError reports which fields failed which validation tag.
func bindError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return ErrorResponse{Error: "Validation failed", Fields: fields}
	}
	return ErrorResponse{Error: "Invalid request body"}
}
