// Package inputval decodes and validates typed request bodies at the
// handler boundary. Store logic never sees an unvalidated field.
package inputval

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"devlink/internal/app/system/apierr"
	"devlink/internal/app/system/limits"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON reads the request body into v. A missing or malformed body
// is a validation failure, not a server error. Bodies over
// limits.MaxJSONBodySize are rejected the same way.
func DecodeJSON(r *http.Request, v any) *apierr.Error {
	if r.Body == nil {
		return apierr.Validation("Invalid request body")
	}
	body := io.LimitReader(r.Body, limits.MaxJSONBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil && err != io.EOF {
		return apierr.Validation("Invalid request body")
	}
	return nil
}

// Struct validates v against its `validate` tags. messages maps a struct
// field name to the message reported when any rule on that field fails;
// fields without an entry report "<field> is invalid".
func Struct(v any, messages map[string]string) *apierr.Error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierr.Validation("Invalid request body")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, found := messages[fe.Field()]; found {
			msgs = append(msgs, msg)
		} else {
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return apierr.Validation(msgs...)
}
