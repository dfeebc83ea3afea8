package lifecycle

import (
	"errors"
	"testing"

	"servicehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPlans = []domain.Plan{
	{ID: "starter", Name: "Starter", PriceMonthly: 0, MaxProperties: 1, IsActive: true},
	{ID: "growth", Name: "Growth", PriceMonthly: 2999, MaxProperties: 5, IsActive: true},
	{ID: "legacy", Name: "Legacy", PriceMonthly: 999, MaxProperties: 10, IsActive: false},
	{ID: "scale", Name: "Scale", PriceMonthly: 7999, MaxProperties: -1, IsActive: true},
}

func TestCheckPropertyLimit(t *testing.T) {
	assert.NoError(t, CheckPropertyLimit(&testPlans[0], 0, testPlans))
	assert.NoError(t, CheckPropertyLimit(&testPlans[3], 500, testPlans))

	err := CheckPropertyLimit(&testPlans[0], 1, testPlans)
	require.Error(t, err)

	var le *LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Current)
	assert.Equal(t, 1, le.Limit)
	assert.Equal(t, "growth", le.UpgradeTo)
	assert.True(t, errors.Is(err, ErrPropertyLimitReached))
	assert.True(t, errors.Is(err, domain.ErrLimitReached))

	err = CheckPropertyLimit(&testPlans[1], 5, testPlans)
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "scale", le.UpgradeTo)

	assert.True(t, errors.Is(CheckPropertyLimit(nil, 0, testPlans), domain.ErrAccessDenied))
}
