package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/vytor/chesspulse/internal/errors"
	"github.com/vytor/chesspulse/internal/logger"
	"github.com/vytor/chesspulse/internal/models"
)

var validate = validator.New()

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads a JSON body into dst and validates its struct tags.
func decodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if err == io.EOF {
			return errors.NewBadRequestError("request body is empty")
		}
		return errors.NewBadRequestError("invalid JSON body")
	}
	if err := validate.Struct(dst); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewValidationError(strings.ToLower(fe.Field()), "is "+fe.Tag())
		}
		return errors.NewBadRequestError(err.Error())
	}
	return nil
}

// statsFilter reads ?player= and ?days= from the query string.
func statsFilter(r *http.Request) (models.StatsFilter, error) {
	q := r.URL.Query()
	f := models.StatsFilter{Player: q.Get("player")}
	if raw := strings.TrimSpace(q.Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return f, errors.NewValidationError("days", "must be a positive integer")
		}
		f.Days = days
	}
	return f, nil
}
