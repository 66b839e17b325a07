package handlers

import (
	"time"
)

// Client-facing validation messages
const (
	msgRequiredFields = "month and value are required"
	msgInvalidDate    = "invalid date format"
	msgInvalidBody    = "invalid request body"
)

// Accepted month layouts, tried in order. Day and month take one or two digits.
var monthLayouts = []string{
	"2006-1-2",
	"2/1/2006",
}

const storedMonthLayout = "2006-01-02"

// ValidationError represents rejected client input
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ShipmentRequest is the body of POST /registro_expedicao.
// mes/valor are accepted as aliases of month/value.
type ShipmentRequest struct {
	Month *string  `json:"month"`
	Value *float64 `json:"value"`
	Mes   *string  `json:"mes"`
	Valor *float64 `json:"valor"`
}

// Validate checks presence of both fields and normalizes the month to
// YYYY-MM-DD.
func (req ShipmentRequest) Validate() (month string, value float64, err error) {
	rawMonth := req.Month
	if rawMonth == nil {
		rawMonth = req.Mes
	}
	rawValue := req.Value
	if rawValue == nil {
		rawValue = req.Valor
	}

	if rawMonth == nil || *rawMonth == "" || rawValue == nil {
		return "", 0, &ValidationError{Message: msgRequiredFields}
	}

	parsed, err := ParseMonth(*rawMonth)
	if err != nil {
		return "", 0, err
	}

	return parsed.Format(storedMonthLayout), *rawValue, nil
}

// ParseMonth accepts YYYY-MM-DD first, then DD/MM/YYYY.
func ParseMonth(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range monthLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &ValidationError{Message: msgInvalidDate, Err: lastErr}
}
