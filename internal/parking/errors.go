package parking

import "errors"

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrCategoryFull     = errors.New("no free slot in category")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotAlreadyEmpty = errors.New("slot is already empty")
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrNoRate           = errors.New("no hourly rate for category")
	ErrNoVehicle        = errors.New("no vehicle to park")
)
