package parking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeForFiveAndAHalfHours(t *testing.T) {
	vehicle := NewVehicle(Handicapped, time.Date(2024, 7, 20, 10, 0, 0, 0, time.Local))
	exit := time.Date(2024, 7, 20, 15, 30, 0, 0, time.Local)

	assert.InDelta(t, 5.5, vehicle.Duration(exit), 1e-9)

	fee, err := RateTable{Handicapped: 10}.ChargeFor(vehicle, exit)
	require.NoError(t, err)
	assert.InDelta(t, 55.0, fee.Amount, 1e-9)
	assert.Equal(t, "55.00", fee.String())
	assert.Equal(t, Handicapped, fee.Category)
	assert.InDelta(t, 10.0, fee.HourlyRate, 1e-9)
}

func TestDefaultRatesMatchDemoCharges(t *testing.T) {
	rates := DefaultRates()
	tests := []struct {
		category Category
		arrival  string
		exit     string
		want     string
	}{
		{Handicapped, "2024-07-20T10:00:00Z", "2024-07-20T15:30:00Z", "55.00"},
		{SmallMidsize, "2024-07-20T11:30:00Z", "2024-07-20T16:45:00Z", "78.75"},
		{Large, "2024-07-20T12:45:00Z", "2024-07-20T18:00:00Z", "105.00"},
	}

	for _, tt := range tests {
		arrival, err := time.Parse(time.RFC3339, tt.arrival)
		require.NoError(t, err)
		exit, err := time.Parse(time.RFC3339, tt.exit)
		require.NoError(t, err)

		fee, err := rates.ChargeFor(NewVehicle(tt.category, arrival), exit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, FormatAmount(fee.Amount), tt.category.String())
	}
}

func TestChargeIsNotRounded(t *testing.T) {
	assert.InDelta(t, 3.3333333, Charge(1.0/3.0, 10), 1e-6)
	assert.Equal(t, "3.33", FormatAmount(Charge(1.0/3.0, 10)))
}

func TestChargeForMissingRate(t *testing.T) {
	_, err := RateTable{}.ChargeFor(NewVehicle(Large, time.Now()), time.Now())
	assert.True(t, errors.Is(err, ErrNoRate))
}

func TestNegativeDurationProducesNegativeCharge(t *testing.T) {
	now := time.Now()
	fee, err := DefaultRates().ChargeFor(NewVehicle(Handicapped, now), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, -10.0, fee.Amount, 1e-9)
}
