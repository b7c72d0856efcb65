package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"village-route-service/internal/domain"
	"village-route-service/internal/platform/obs"
)

// maxBodyBytes bounds request bodies; 500 villages fit well within it.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names in validation messages.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &domain.ValidationError{Field: "body", Reason: fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit)}
		}
		return &domain.ValidationError{Field: "body", Reason: "invalid json body"}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &domain.ValidationError{Field: "body", Reason: "body must contain only one JSON object"}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), reflect.Indirect(reflect.ValueOf(dst)).Type().Name()+".")
			return &domain.ValidationError{Field: field, Reason: fmt.Sprintf("failed %q validation", fe.Tag())}
		}
		return &domain.ValidationError{Field: "body", Reason: err.Error()}
	}

	return nil
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, r, http.StatusBadRequest, ve.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		log.Printf("req_id=%s %s: %v", obs.RequestID(r.Context()), op, err)
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			writeError(w, r, http.StatusNotFound, nf.Error())
			return
		}
		writeError(w, r, http.StatusNotFound, "not found")
	default:
		log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
