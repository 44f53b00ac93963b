package utils_test

import (
	"testing"
	"time"

	"autobooks/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthBounds(t *testing.T) {
	first, last := utils.MonthBounds(time.Date(2024, 2, 17, 13, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", first.Format(utils.ShortDashDateLayout))
	assert.Equal(t, "2024-02-29", last.Format(utils.ShortDashDateLayout))

	first, last = utils.MonthBounds(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2023-12-01", first.Format(utils.ShortDashDateLayout))
	assert.Equal(t, "2023-12-31", last.Format(utils.ShortDashDateLayout))
}

func TestParseDateParam(t *testing.T) {
	fallback := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	got, err := utils.ParseDateParam("", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	got, err = utils.ParseDateParam("2024-06-30", fallback)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Day())

	_, err = utils.ParseDateParam("30/06/2024", fallback)
	assert.Error(t, err)
}
