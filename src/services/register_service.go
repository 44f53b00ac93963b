package services

import (
	"context"
	"fmt"
	"strconv"

	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const (
	colName         = "Name"
	colCategory     = "Category"
	colAccount      = "Account"
	colPurchaseDate = "Purchase date"
	colPurchase     = "Purchase value"
	colCurrent      = "Current value"
	colMethod       = "Depreciation method"
	colCurrency     = "Currency"
)

var moneyColumns = []string{colPurchase, colCurrent}

type RegisterServiceI interface {
	BuildAssetRegister(ctx context.Context, scope repositories.Scope, workspaceID string) (*excelize.File, error)
}

// RegisterService exports the asset register of a workspace as a spreadsheet.
type RegisterService struct {
	assets AssetServiceI
}

func NewRegisterService(assets AssetServiceI) *RegisterService {
	return &RegisterService{assets: assets}
}

func (rs *RegisterService) BuildAssetRegister(ctx context.Context, scope repositories.Scope, workspaceID string) (*excelize.File, error) {
	assets, err := rs.assets.ListAssets(ctx, scope, workspaceID)
	if err != nil {
		return nil, err
	}

	df := rs.assetsToDataFrame(assets)
	if df.Err != nil {
		return nil, df.Err
	}

	f, err := rs.convertDataframeToExcel(df, utils.RegisterSheetName)
	if err != nil {
		return nil, err
	}
	if err := rs.applyStyles(f, utils.RegisterSheetName, df.Ncol(), df.Nrow()); err != nil {
		return nil, err
	}
	return f, nil
}

func (rs *RegisterService) assetsToDataFrame(assets []models.Asset) dataframe.DataFrame {
	n := len(assets)
	names := make([]string, n)
	categories := make([]string, n)
	accounts := make([]string, n)
	dates := make([]string, n)
	purchase := make([]float64, n)
	current := make([]float64, n)
	methods := make([]string, n)
	currencies := make([]string, n)

	for i, a := range assets {
		names[i] = a.Name
		if a.Category != nil {
			categories[i] = a.Category.Name
		}
		if a.Account != nil {
			accounts[i] = a.Account.Name
		}
		if a.PurchaseDate != nil {
			dates[i] = a.PurchaseDate.String()
		}
		purchase[i] = a.PurchaseValue.Decimal.InexactFloat64()
		current[i] = a.CurrentValue.Decimal.InexactFloat64()
		if a.DepreciationMethod != nil {
			methods[i] = string(*a.DepreciationMethod)
		}
		currencies[i] = a.Currency
	}

	return dataframe.New(
		series.New(names, series.String, colName),
		series.New(categories, series.String, colCategory),
		series.New(accounts, series.String, colAccount),
		series.New(dates, series.String, colPurchaseDate),
		series.New(purchase, series.Float, colPurchase),
		series.New(current, series.Float, colCurrent),
		series.New(methods, series.String, colMethod),
		series.New(currencies, series.String, colCurrency),
	)
}

// convertDataframeToExcel writes the header, one row per record and a totals row.
func (rs *RegisterService) convertDataframeToExcel(df dataframe.DataFrame, sheetName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	isMoney := map[int]bool{}
	for i, col := range df.Names() {
		for _, m := range moneyColumns {
			if col == m {
				isMoney[i] = true
			}
		}
	}

	records := df.Records()
	for rowIndex, row := range records {
		for colIndex, cellValue := range row {
			cell := fmt.Sprintf("%s%d", rs.toAlphaString(colIndex+1), rowIndex+1)
			if rowIndex > 0 && isMoney[colIndex] {
				numCellValue, err := strconv.ParseFloat(cellValue, 64)
				if err == nil {
					if err := f.SetCellValue(sheetName, cell, numCellValue); err != nil {
						return nil, err
					}
					if err := f.SetCellStyle(sheetName, cell, cell, moneyStyle); err != nil {
						return nil, err
					}
					continue
				}
			}
			if err := f.SetCellValue(sheetName, cell, cellValue); err != nil {
				return nil, err
			}
		}
	}

	totalsRow := len(records) + 1
	if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalsRow), utils.RegisterTotalsLabel); err != nil {
		return nil, err
	}
	totals := utils.ColumnTotals(df, moneyColumns)
	for colIndex := range df.Names() {
		if !isMoney[colIndex] {
			continue
		}
		cell := fmt.Sprintf("%s%d", rs.toAlphaString(colIndex+1), totalsRow)
		if err := f.SetCellValue(sheetName, cell, totals[df.Names()[colIndex]]); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, moneyStyle); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (rs *RegisterService) toAlphaString(column int) string {
	result := ""
	for column > 0 {
		column--
		result = string(rune('A'+column%26)) + result
		column /= 26
	}
	return result
}

func (rs *RegisterService) applyStyles(f *excelize.File, sheetName string, ncol, nrow int) error {
	lastCol := rs.toAlphaString(ncol)
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{utils.RegisterHeaderColor}, Pattern: 1},
		Border: border,
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	totalsStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
		NumFmt: 4,
	})
	if err != nil {
		return err
	}
	totalsRow := nrow + 2
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("%s%d", lastCol, totalsRow), totalsStyle); err != nil {
		return err
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	return f.SetColWidth(sheetName, "A", lastCol, 18)
}
