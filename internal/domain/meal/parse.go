package meal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// RequestFormatError — некорректный запрос на расчёт. Отдаётся клиенту,
// процесс продолжает работу.
type RequestFormatError struct {
	Field  string
	Reason string
}

func (e *RequestFormatError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

func formatErr(field, format string, args ...any) *RequestFormatError {
	return &RequestFormatError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseRequest разбирает тело POST /calculate: {"food_items": {"rice": 200, ...}}.
func ParseRequest(body []byte) (Request, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, formatErr("", "empty body")
	}

	var raw struct {
		FoodItems json.RawMessage `json:"food_items"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, formatErr("", "body must be a JSON object: %v", err)
	}
	if len(raw.FoodItems) == 0 || bytes.Equal(raw.FoodItems, []byte("null")) {
		return nil, formatErr("food_items", "field is required")
	}

	var items map[string]json.RawMessage
	if err := json.Unmarshal(raw.FoodItems, &items); err != nil {
		return nil, formatErr("food_items", "must be an object of food name to grams")
	}

	req := make(Request, len(items))
	for name, v := range items {
		field := "food_items." + name
		if strings.TrimSpace(name) == "" {
			return nil, formatErr("food_items", "food name must not be empty")
		}
		var q float64
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, formatErr(field, "quantity is required")
		}
		if err := json.Unmarshal(v, &q); err != nil {
			return nil, formatErr(field, "quantity must be a number, got %s", string(v))
		}
		if err := checkQuantity(q); err != nil {
			return nil, formatErr(field, "%s", err.Error())
		}
		req[name] = q
	}
	return req, nil
}

func checkQuantity(q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return fmt.Errorf("quantity must be finite")
	}
	if q < 0 {
		return fmt.Errorf("quantity must not be negative, got %v", q)
	}
	return nil
}
