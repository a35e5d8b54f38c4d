package parking

import (
	"fmt"
	"time"
)

// Charge multiplies the parked hours by the hourly rate. Nothing is
// rounded; FormatAmount rounds for display only.
func Charge(durationHours, hourlyRate float64) float64 {
	return durationHours * hourlyRate
}

func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

type RateTable map[Category]float64

func DefaultRates() RateTable {
	return RateTable{
		Handicapped:  10,
		SmallMidsize: 15,
		Large:        20,
	}
}

func (r RateTable) Rate(category Category) (float64, error) {
	rate, ok := r[category]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoRate, category)
	}
	return rate, nil
}

type Fee struct {
	Category      Category `json:"category"`
	DurationHours float64  `json:"duration_hours"`
	HourlyRate    float64  `json:"hourly_rate"`
	Amount        float64  `json:"amount"`
}

func (f Fee) String() string {
	return FormatAmount(f.Amount)
}

func (r RateTable) ChargeFor(vehicle *Vehicle, exitTime time.Time) (Fee, error) {
	return r.charge(vehicle.Category, vehicle, exitTime)
}

// charge bills at the rate of the pool the vehicle occupied.
func (r RateTable) charge(category Category, vehicle *Vehicle, exitTime time.Time) (Fee, error) {
	rate, err := r.Rate(category)
	if err != nil {
		return Fee{}, err
	}
	duration := vehicle.Duration(exitTime)
	return Fee{
		Category:      category,
		DurationHours: duration,
		HourlyRate:    rate,
		Amount:        Charge(duration, rate),
	}, nil
}
