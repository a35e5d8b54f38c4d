package parking

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"tiered-parking-lot/internal/logging"
)

// Departure is the outcome of releasing a slot.
type Departure struct {
	Slot     SlotRef   `json:"slot"`
	Vehicle  *Vehicle  `json:"vehicle"`
	ExitTime time.Time `json:"exit_time"`
	Fee      Fee       `json:"fee"`
}

// Status is a snapshot of the whole lot.
type Status struct {
	Name       string     `json:"name"`
	Floors     int        `json:"floors"`
	Capacities SlotCounts `json:"capacities"`
	Empty      SlotCounts `json:"empty"`
	Occupied   SlotCounts `json:"occupied"`
	Slots      []SlotInfo `json:"slots"`
}

// InstrumentedParkingLot serialises access to a ParkingLot and records a
// span, metrics and a log line for every operation.
type InstrumentedParkingLot struct {
	mu        sync.Mutex
	lot       *ParkingLot
	rates     RateTable
	telemetry *TelemetryProvider

	// Metrics
	parkingOperations metric.Int64Counter
	leavingOperations metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	operationDuration metric.Float64Histogram
	totalSlotsGauge   metric.Int64UpDownCounter
	feesCollected     metric.Float64Counter
}

func NewInstrumentedParkingLot(lot *ParkingLot, rates RateTable, telemetry *TelemetryProvider) (*InstrumentedParkingLot, error) {
	meter := telemetry.Meter()

	parkingOperations, err := meter.Int64Counter("parking_operations_total",
		metric.WithDescription("Total number of parking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	leavingOperations, err := meter.Int64Counter("leaving_operations_total",
		metric.WithDescription("Total number of leaving operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	feesCollected, err := meter.Float64Counter("parking_fees_total",
		metric.WithDescription("Sum of fees charged on departure"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	ipl := &InstrumentedParkingLot{
		lot:               lot,
		rates:             rates,
		telemetry:         telemetry,
		parkingOperations: parkingOperations,
		leavingOperations: leavingOperations,
		occupancyGauge:    occupancyGauge,
		operationDuration: operationDuration,
		totalSlotsGauge:   totalSlotsGauge,
		feesCollected:     feesCollected,
	}

	ctx := context.Background()
	capacities := lot.Capacities()
	for _, category := range Categories() {
		totalSlotsGauge.Add(ctx, int64(capacities.Get(category)),
			metric.WithAttributes(attribute.String("category", category.String())))
	}

	return ipl, nil
}

func (ipl *InstrumentedParkingLot) Park(ctx context.Context, category Category, vehicle *Vehicle) (SlotRef, error) {
	var registration string
	if vehicle != nil {
		registration = vehicle.RegistrationNumber
	}
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.park",
		trace.WithAttributes(
			attribute.String("vehicle.category", category.String()),
			attribute.String("vehicle.registration_number", registration),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_available_slot")

	ipl.mu.Lock()
	slot, err := ipl.lot.Park(category, vehicle)
	var ref SlotRef
	if err == nil {
		ref = slot.Ref()
	}
	ipl.mu.Unlock()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "park"),
		attribute.String("category", category.String()),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", failureStatus(err)))
		logging.Warn(ctx, "park rejected", "category", category.String(), "error", err)
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.Int("allocated_slot_number", ref.Number))
		span.AddEvent("slot_allocated", trace.WithAttributes(
			attribute.Int("slot_number", ref.Number),
		))
		ipl.occupancyGauge.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category.String())))
		logging.Info(ctx, "vehicle parked",
			"category", category.String(),
			"slot_number", ref.Number,
			"registration", registration)
	}

	ipl.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return ref, err
}

// Leave releases the slot addressed by category and number and charges
// the vehicle up to exitTime.
func (ipl *InstrumentedParkingLot) Leave(ctx context.Context, category Category, slotNumber int, exitTime time.Time) (*Departure, error) {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.leave",
		trace.WithAttributes(
			attribute.String("slot.category", category.String()),
			attribute.Int("slot_number", slotNumber),
		))
	defer span.End()

	return ipl.depart(ctx, span, "leave", exitTime, func() (*Slot, error) {
		return ipl.lot.Slot(category, slotNumber)
	})
}

// RemoveVehicle releases by slot number alone, using ParkingLot.RemoveVehicle
// scan order to pick the pool.
func (ipl *InstrumentedParkingLot) RemoveVehicle(ctx context.Context, slotNumber int, exitTime time.Time) (*Departure, error) {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.remove_vehicle",
		trace.WithAttributes(
			attribute.Int("slot_number", slotNumber),
		))
	defer span.End()

	return ipl.depart(ctx, span, "remove", exitTime, func() (*Slot, error) {
		return ipl.lot.SlotForNumber(slotNumber)
	})
}

func (ipl *InstrumentedParkingLot) depart(ctx context.Context, span trace.Span, operation string, exitTime time.Time, locate func() (*Slot, error)) (*Departure, error) {
	start := time.Now()

	span.AddEvent("releasing_slot")

	ipl.mu.Lock()
	departure, err := ipl.release(exitTime, locate)
	ipl.mu.Unlock()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", operation),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", failureStatus(err)))
		logging.Warn(ctx, "release rejected", "operation", operation, "error", err)
	} else {
		category := departure.Slot.Category.String()
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.String("category", category),
		)
		span.SetAttributes(
			attribute.String("slot.category", category),
			attribute.Int("released_slot_number", departure.Slot.Number),
			attribute.String("vehicle.registration_number", departure.Vehicle.RegistrationNumber),
			attribute.Float64("parking.duration_hours", departure.Fee.DurationHours),
			attribute.Float64("parking.fee", departure.Fee.Amount),
		)
		span.AddEvent("slot_released")
		ipl.occupancyGauge.Add(ctx, -1, metric.WithAttributes(attribute.String("category", category)))
		// Counters are monotonic; an exit before arrival yields a negative fee.
		if departure.Fee.Amount >= 0 {
			ipl.feesCollected.Add(ctx, departure.Fee.Amount, metric.WithAttributes(attribute.String("category", category)))
		}
		logging.Info(ctx, "vehicle left",
			"category", category,
			"slot_number", departure.Slot.Number,
			"duration_hours", departure.Fee.DurationHours,
			"fee", FormatAmount(departure.Fee.Amount))
	}

	ipl.leavingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return departure, err
}

// release must be called with ipl.mu held. The rate is resolved before the
// slot is touched so a missing rate leaves the vehicle parked.
func (ipl *InstrumentedParkingLot) release(exitTime time.Time, locate func() (*Slot, error)) (*Departure, error) {
	slot, err := locate()
	if err != nil {
		return nil, err
	}
	if !slot.IsOccupied {
		return nil, errSlotEmpty(slot)
	}
	fee, err := ipl.rates.charge(slot.Category, slot.Vehicle, exitTime)
	if err != nil {
		return nil, err
	}
	ref := slot.Ref()
	vehicle := slot.Leave()
	return &Departure{
		Slot:     ref,
		Vehicle:  vehicle,
		ExitTime: exitTime,
		Fee:      fee,
	}, nil
}

func (ipl *InstrumentedParkingLot) FindAvailableSlot(ctx context.Context, category Category) (SlotRef, error) {
	_, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.find_available_slot",
		trace.WithAttributes(attribute.String("slot.category", category.String())))
	defer span.End()

	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	slot, err := ipl.lot.FindAvailableSlot(category)
	if err != nil {
		span.AddEvent("no_slot_available")
		return SlotRef{}, err
	}
	span.SetAttributes(attribute.Int("slot_number", slot.Number))
	return slot.Ref(), nil
}

func (ipl *InstrumentedParkingLot) EmptySlotCounts(ctx context.Context) SlotCounts {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.empty_slot_counts")
	defer span.End()

	start := time.Now()

	ipl.mu.Lock()
	counts := ipl.lot.EmptySlotCounts()
	ipl.mu.Unlock()

	span.SetAttributes(
		attribute.Int("empty.handicapped", counts.Handicapped),
		attribute.Int("empty.small_midsize", counts.SmallMidsize),
		attribute.Int("empty.large", counts.Large),
	)

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "empty_slot_counts"),
		attribute.String("status", "success"),
	))

	return counts
}

func (ipl *InstrumentedParkingLot) GetStatus(ctx context.Context) Status {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.get_status")
	defer span.End()

	start := time.Now()

	span.AddEvent("retrieving_status")

	ipl.mu.Lock()
	status := Status{
		Name:       ipl.lot.Name(),
		Floors:     ipl.lot.Floors(),
		Capacities: ipl.lot.Capacities(),
		Empty:      ipl.lot.EmptySlotCounts(),
		Occupied:   ipl.lot.OccupiedSlotCounts(),
	}
	for _, category := range Categories() {
		for _, slot := range ipl.lot.Slots(category) {
			status.Slots = append(status.Slots, slot.Info())
		}
	}
	ipl.mu.Unlock()

	span.SetAttributes(
		attribute.Int("occupied_slots_count", status.Occupied.Total()),
		attribute.Int("total_capacity", status.Capacities.Total()),
	)

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "get_status"),
		attribute.String("status", "success"),
	))

	return status
}

// OccupiedSlots lists copies of the occupied slots in scan order.
func (ipl *InstrumentedParkingLot) OccupiedSlots(ctx context.Context) []SlotInfo {
	_, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.occupied_slots")
	defer span.End()

	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	occupied := ipl.lot.GetStatus()
	infos := make([]SlotInfo, 0, len(occupied))
	for _, slot := range occupied {
		infos = append(infos, slot.Info())
	}
	span.SetAttributes(attribute.Int("occupied_slots_count", len(infos)))
	return infos
}

func (ipl *InstrumentedParkingLot) GetSlotByRegistrationNumber(ctx context.Context, registrationNumber string) (SlotInfo, error) {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.get_slot_by_registration",
		trace.WithAttributes(
			attribute.String("registration_number", registrationNumber),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("searching_by_registration")

	ipl.mu.Lock()
	var info SlotInfo
	slot, err := ipl.lot.GetSlotByRegistrationNumber(registrationNumber)
	if err == nil {
		info = slot.Info()
	}
	ipl.mu.Unlock()

	labels := []attribute.KeyValue{
		attribute.String("operation", "get_slot_by_registration"),
	}

	if err != nil {
		span.AddEvent("vehicle_not_found")
		labels = append(labels, attribute.String("status", "not_found"))
	} else {
		span.SetAttributes(
			attribute.String("slot.category", info.Category.String()),
			attribute.Int("found_slot_number", info.Number),
		)
		span.AddEvent("vehicle_found", trace.WithAttributes(
			attribute.Int("slot_number", info.Number),
		))
		labels = append(labels, attribute.String("status", "found"))
	}

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return info, err
}

func failureStatus(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, ErrCategoryFull):
		return "category_full"
	case errors.Is(err, ErrSlotNotFound):
		return "not_found"
	case errors.Is(err, ErrSlotAlreadyEmpty):
		return "already_empty"
	case errors.Is(err, ErrNoRate):
		return "no_rate"
	case errors.Is(err, ErrNoVehicle):
		return "no_vehicle"
	}
	return "failed"
}
