package utils

//nolint:depguard
import (
	"math"

	"github.com/go-gota/gota/dataframe"
)

// ColumnTotals sums each named float column of df. Missing columns total zero.
func ColumnTotals(df dataframe.DataFrame, columns []string) map[string]float64 {
	totals := make(map[string]float64, len(columns))
	for _, col := range columns {
		if !hasCol(df, col) {
			totals[col] = 0
			continue
		}
		sum := 0.0
		for _, v := range df.Col(col).Float() {
			if !math.IsNaN(v) {
				sum += v
			}
		}
		totals[col] = sum
	}
	return totals
}

// hasCol checks whether a DataFrame contains a given column
func hasCol(df dataframe.DataFrame, colName string) bool {
	for _, name := range df.Names() {
		if name == colName {
			return true
		}
	}
	return false
}
