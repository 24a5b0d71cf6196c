package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mizutamari/gallery/utils"
)

func TestValidDate(t *testing.T) {
	assert.True(t, utils.ValidDate("2024-01-01"))
	assert.True(t, utils.ValidDate("2024-02-29")) // leap day
	assert.True(t, utils.ValidDate("1999-12-31"))

	assert.False(t, utils.ValidDate(""))
	assert.False(t, utils.ValidDate("2024-13-01"))
	assert.False(t, utils.ValidDate("2024-02-30"))
	assert.False(t, utils.ValidDate("2024-1-1"))
	assert.False(t, utils.ValidDate("2024-01-01x"))
	assert.False(t, utils.ValidDate("01/02/2024"))
	assert.False(t, utils.ValidDate("yesterday"))
}

func TestFormatDateCN(t *testing.T) {
	assert.Equal(t, "2024年1月1日（星期一）", utils.FormatDateCN("2024-01-01"))
	assert.Equal(t, "2024年12月31日（星期二）", utils.FormatDateCN("2024-12-31"))
	assert.Equal(t, "2023年10月8日（星期日）", utils.FormatDateCN("2023-10-08"))
}

func TestFormatDateCN_UnparseablePassesThrough(t *testing.T) {
	assert.Equal(t, "not-a-date", utils.FormatDateCN("not-a-date"))
	assert.Equal(t, "2024/01/01", utils.FormatDateCN("2024/01/01"))
	assert.Equal(t, "", utils.FormatDateCN(""))
}

func TestTodayString_IsValidDate(t *testing.T) {
	today := utils.TodayString()
	assert.True(t, utils.ValidDate(today), "TodayString returned %q", today)
}
