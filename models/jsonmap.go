package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

// JSONMap stores a free-form object column (additional items, step data).
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return utils.MarshalToJSON(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("cannot scan JSONMap column")
	}
	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}
	return utils.UnmarshalFromJSON(b, m)
}

// JSONList stores a free-form array column (dynamic material costs, cost items).
// Each entry is expected to carry at least a "name" and a "cost".
type JSONList []map[string]interface{}

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return utils.MarshalToJSON(l)
}

func (l *JSONList) Scan(value interface{}) error {
	if value == nil {
		*l = JSONList{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("cannot scan JSONList column")
	}
	if len(b) == 0 {
		*l = JSONList{}
		return nil
	}
	return utils.UnmarshalFromJSON(b, l)
}

// SumCosts totals the "cost" entries, tolerating strings and numbers.
func (l JSONList) SumCosts() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		raw, ok := item["cost"]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			total = total.Add(decimal.NewFromFloat(v))
		case int:
			total = total.Add(decimal.NewFromInt(int64(v)))
		case string:
			if d, err := decimal.NewFromString(v); err == nil {
				total = total.Add(d)
			}
		case json.Number:
			if d, err := decimal.NewFromString(v.String()); err == nil {
				total = total.Add(d)
			}
		}
	}
	return total
}
