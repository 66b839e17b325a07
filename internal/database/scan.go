package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saltyorg/plantapi/internal/rowjson"
)

// scanRows reads every remaining row into a column-name mapping.
// The result is never nil.
func scanRows(rows *sql.Rows) ([]rowjson.Row, error) {
	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := make([]rowjson.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(rowjson.Row, len(columns))
		for i, col := range columns {
			val, err := nativeValue(col.DatabaseTypeName(), values[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name(), err)
			}
			row[col.Name()] = val
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// nativeValue normalizes driver values: raw bytes become strings, DATE
// columns become rowjson.Date and decimal columns delivered as text become
// decimal.Decimal.
func nativeValue(typeName string, val any) (any, error) {
	if b, ok := val.([]byte); ok {
		val = string(b)
	}

	if t, ok := val.(time.Time); ok && strings.EqualFold(typeName, "DATE") {
		return rowjson.Date(t), nil
	}

	s, ok := val.(string)
	if !ok || !isDecimalType(typeName) {
		return val, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

func isDecimalType(typeName string) bool {
	upper := strings.ToUpper(typeName)
	return strings.HasPrefix(upper, "NUMERIC") || strings.HasPrefix(upper, "DECIMAL")
}
