package parking

import "time"

type Vehicle struct {
	Category           Category  `json:"category"`
	RegistrationNumber string    `json:"registration,omitempty"`
	ArrivalTime        time.Time `json:"arrival_time"`
}

func NewVehicle(category Category, arrivalTime time.Time) *Vehicle {
	return &Vehicle{
		Category:    category,
		ArrivalTime: arrivalTime,
	}
}

// Duration reports the hours parked up to exitTime, fractional and unrounded.
// The result is negative when exitTime precedes the arrival.
func (v *Vehicle) Duration(exitTime time.Time) float64 {
	return exitTime.Sub(v.ArrivalTime).Hours()
}
