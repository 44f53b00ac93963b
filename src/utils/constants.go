package utils

const ShortDashDateLayout = "2006-01-02"

// MonthLayout formats the period label of scheduled depreciation entries.
const MonthLayout = "2006-01"

const (
	RegisterSheetName   = "Assets"
	RegisterHeaderColor = "#DCE6F1"
	RegisterTotalsLabel = "Total"
)
