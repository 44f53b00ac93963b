package services_test

import (
	"context"
	"testing"

	"autobooks/src/models"
	"autobooks/src/services"
	"autobooks/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildAssetRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	truck := e.createRequest("Truck")
	truck.PurchaseValue = dec("30000")
	truck.PurchaseDate = date(t, "2024-01-15")
	truck.DepreciationMethod = method(models.DepreciationStraightLine)
	e.create(t, truck)

	laptop := e.createRequest("Laptop")
	laptop.PurchaseValue = dec("2000.50")
	e.create(t, laptop)

	svc := services.NewRegisterService(e.assets)
	f, err := svc.BuildAssetRegister(ctx, e.scope, e.workspaceID)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{utils.RegisterSheetName}, f.GetSheetList())

	rows, err := f.GetRows(utils.RegisterSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Current value", rows[0][5])
	assert.Equal(t, "Laptop", rows[1][0])
	assert.Equal(t, "Electronics", rows[1][1])
	assert.Equal(t, "Truck", rows[2][0])
	assert.Equal(t, "2024-01-15", rows[2][3])
	assert.Equal(t, "straight_line", rows[2][6])
	assert.Equal(t, utils.RegisterTotalsLabel, rows[3][0])

	total, err := f.GetCellValue(utils.RegisterSheetName, "E4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "32000.5", total)
}
