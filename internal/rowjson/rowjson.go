// Package rowjson converts database rows into flat JSON-safe mappings.
//
// Temporal values become ISO-8601 strings (Date as YYYY-MM-DD, time.Time as
// RFC 3339) and arbitrary-precision decimals are widened to float64, which
// may lose precision.
package rowjson

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Row maps a column name to its value.
type Row map[string]any

const dateLayout = "2006-01-02"

// Date is a calendar day read from a DATE column.
type Date time.Time

// Serialize returns a copy of row with every value made JSON-safe.
// Values of unrecognized types pass through unchanged.
func Serialize(row Row) Row {
	out := make(Row, len(row))
	for key, val := range row {
		out[key] = Value(val)
	}
	return out
}

// SerializeAll serializes every row. The result is never nil.
func SerializeAll(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, Serialize(row))
	}
	return out
}

// Value converts a single store-native value.
func Value(val any) any {
	switch v := val.(type) {
	case Date:
		return time.Time(v).Format(dateLayout)
	case *Date:
		if v == nil {
			return nil
		}
		return time.Time(*v).Format(dateLayout)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.Format(time.RFC3339Nano)
	case decimal.Decimal:
		return v.InexactFloat64()
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		return v.InexactFloat64()
	case decimal.NullDecimal:
		if !v.Valid {
			return nil
		}
		return v.Decimal.InexactFloat64()
	case *big.Rat:
		if v == nil {
			return nil
		}
		f, _ := v.Float64()
		return f
	case *big.Float:
		if v == nil {
			return nil
		}
		f, _ := v.Float64()
		return f
	default:
		return val
	}
}
