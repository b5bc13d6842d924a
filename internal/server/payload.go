package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"flashdeck/internal/app"
	"flashdeck/pkg/domain"
)

var (
	errInvalidBody  = errors.New("invalid JSON body")
	errBodyTooLarge = errors.New("request body too large")
)

// requestPayload reads and decodes the body when the app asks for it.
// An empty body decodes to the zero value so validation reports the missing
// fields. Broken JSON and non-object bodies fail with errInvalidBody; fields
// of the wrong type come back as an *app.ValidationError.
func requestPayload[T any](w http.ResponseWriter, r *http.Request, limit int64) app.Payload[T] {
	return func() (T, error) {
		var zero T
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return zero, errBodyTooLarge
			}
			return zero, fmt.Errorf("%w: could not read request body", errInvalidBody)
		}
		return decodeBody[T](body)
	}
}

func decodeBody[T any](body []byte) (T, error) {
	var v T
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return v, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return v, errInvalidBody
		}
		return v, fmt.Errorf("%w: expected a JSON object", errInvalidBody)
	}
	err := json.Unmarshal(body, &v)
	if err == nil {
		return v, nil
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return v, errInvalidBody
	}
	// Unmarshal stops reporting after the first mismatch; check each field
	// on its own to name every offender.
	fields := domain.FieldErrors{}
	for key, value := range raw {
		var one T
		single, _ := json.Marshal(map[string]json.RawMessage{key: value})
		if err := json.Unmarshal(single, &one); errors.As(err, &typeErr) {
			fields[key] = key + " has an invalid type"
		}
	}
	if len(fields) == 0 {
		fields[typeErr.Field] = typeErr.Field + " has an invalid type"
	}
	return v, &app.ValidationError{Fields: fields}
}
