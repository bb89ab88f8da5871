package tabular

import (
	"math"
	"strings"
	"time"

	"askchart/models"
)

type columnType struct {
	kind models.ColumnType
	decl string
}

var (
	integerColumn  = columnType{kind: models.ColumnNumeric, decl: "INTEGER"}
	realColumn     = columnType{kind: models.ColumnNumeric, decl: "REAL"}
	textColumn     = columnType{kind: models.ColumnText, decl: "TEXT"}
	temporalColumn = columnType{kind: models.ColumnTemporal, decl: "TIMESTAMP"}
)

// inferTypes picks a column type from the non-nil values of each column.
// A column with no values at all is text.
func inferTypes(result *models.QueryResult) []columnType {
	types := make([]columnType, len(result.Columns))
	for i, col := range result.Columns {
		types[i] = inferColumn(result.Column(col))
	}
	return types
}

func inferColumn(values []any) columnType {
	seen, integral, numeric, temporal := 0, true, true, true
	for _, v := range values {
		if v == nil {
			continue
		}
		seen++
		switch t := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
			temporal = false
		case float32:
			temporal = false
			integral = integral && float64(t) == math.Trunc(float64(t))
		case float64:
			temporal = false
			integral = integral && t == math.Trunc(t)
		case time.Time:
			numeric = false
		default:
			numeric, temporal = false, false
		}
	}

	switch {
	case seen == 0:
		return textColumn
	case numeric && integral:
		return integerColumn
	case numeric:
		return realColumn
	case temporal:
		return temporalColumn
	}
	return textColumn
}

func typeFromDecl(decl string) models.ColumnType {
	switch strings.ToUpper(decl) {
	case "INTEGER", "REAL", "NUMERIC":
		return models.ColumnNumeric
	case "TIMESTAMP", "DATETIME", "DATE":
		return models.ColumnTemporal
	}
	return models.ColumnText
}
