package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
)

const maxBodySize = 1 << 20 // 1 MB

var validate = validator.New()

// registrationRequest is the body of POST /events/{id}/registrations.
type registrationRequest struct {
	UserName  string `json:"userName" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,contains=@"`
}

// normalize trims surrounding whitespace so blank fields fail validation.
func (r *registrationRequest) normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.UserEmail = strings.TrimSpace(r.UserEmail)
}

// decodeJSON checks the Content-Type, enforces the 1MB body limit, and
// decodes the body into v.
func decodeJSON(r *http.Request, v any) error {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		return fmt.Errorf("unsupported Content-Type %q, expected application/json", r.Header.Get("Content-Type"))
	}

	limited := io.LimitReader(r.Body, maxBodySize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(body) > maxBodySize {
		return fmt.Errorf("request body exceeds 1MB limit")
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("request body is not valid JSON: %w", err)
	}
	return nil
}

// validationMessage turns validator errors into a short client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe.Field())))
		case "contains":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fieldName(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fieldName(fe.Field())))
		}
	}
	return strings.Join(msgs, "; ")
}

func fieldName(goName string) string {
	if goName == "" {
		return goName
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}
