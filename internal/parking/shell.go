package parking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Shell struct {
	lots      *LotHolder
	scanner   *bufio.Scanner
	out       io.Writer
	telemetry *TelemetryProvider
	rates     RateTable
	now       func() time.Time
}

// NewShell reads commands from in. A nil holder gives the shell a lot of
// its own.
func NewShell(telemetry *TelemetryProvider, rates RateTable, lots *LotHolder, in io.Reader, out io.Writer) *Shell {
	if lots == nil {
		lots = NewLotHolder()
	}
	return &Shell{
		lots:      lots,
		scanner:   bufio.NewScanner(in),
		out:       out,
		telemetry: telemetry,
		rates:     rates,
		now:       time.Now,
	}
}

// UseParkingLot makes the shell operate on an existing lot.
func (s *Shell) UseParkingLot(lot *InstrumentedParkingLot) {
	s.lots.Set(lot)
}

// SetClock replaces the source of arrival and exit times.
func (s *Shell) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Shell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for ctx.Err() == nil {
		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		// Create a new span for each command
		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Shell) processCommand(ctx context.Context, input string) {
	span := trace.SpanFromContext(ctx)

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	switch command {
	case "create_parking_lot":
		s.handleCreateParkingLot(ctx, parts)
	case "park":
		s.handlePark(ctx, parts)
	case "next_slot":
		s.handleNextSlot(ctx, parts)
	case "leave":
		s.handleLeave(ctx, parts)
	case "remove":
		s.handleRemove(ctx, parts)
	case "status":
		s.handleStatus(ctx)
	case "empty_slots":
		s.handleEmptySlots(ctx)
	case "slot_number_for_registration_number":
		s.handleSlotNumberForRegistrationNumber(ctx, parts)
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		s.printf("Unknown command: %s\n", command)
	}
}

func (s *Shell) handleCreateParkingLot(ctx context.Context, parts []string) {
	_, span := s.telemetry.Tracer().Start(ctx, "shell.create_parking_lot")
	defer span.End()

	if len(parts) != 6 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: create_parking_lot <name> <floors> <handicapped> <small_midsize> <large>")
		return
	}

	counts := make([]int, 4)
	for i, raw := range parts[2:] {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			span.RecordError(fmt.Errorf("invalid count: %s", raw))
			span.AddEvent("invalid_capacity")
			s.println("Invalid capacity")
			return
		}
		counts[i] = n
	}

	lot := NewParkingLot(parts[1], counts[0], counts[1], counts[2], counts[3])
	span.SetAttributes(
		attribute.String("parking_lot.name", lot.Name()),
		attribute.Int("parking_lot.capacity", lot.Capacities().Total()),
	)

	instrumentedParkingLot, err := NewInstrumentedParkingLot(lot, s.rates, s.telemetry)
	if err != nil {
		span.RecordError(err)
		s.printf("Error creating parking lot: %s\n", err.Error())
		return
	}

	s.lots.Set(instrumentedParkingLot)
	span.AddEvent("parking_lot_created")
	s.printf("Created parking lot %s with %d handicapped, %d small/midsize and %d large slots\n",
		lot.Name(), counts[1], counts[2], counts[3])
}

func (s *Shell) requireLot(span trace.Span) *InstrumentedParkingLot {
	lot := s.lots.Get()
	if lot == nil {
		span.AddEvent("parking_lot_not_created")
		s.println("Parking lot not created")
	}
	return lot
}

func (s *Shell) handlePark(ctx context.Context, parts []string) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.park_command")
	defer span.End()

	lot := s.requireLot(span)
	if lot == nil {
		return
	}

	if len(parts) < 2 || len(parts) > 3 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: park <category> [registration_number]")
		return
	}

	category, err := ParseCategory(parts[1])
	if err != nil {
		span.RecordError(err)
		s.printf("Unknown category: %s\n", parts[1])
		return
	}

	vehicle := NewVehicle(category, s.now())
	if len(parts) == 3 {
		vehicle.RegistrationNumber = parts[2]
	}

	ref, err := lot.Park(ctx, category, vehicle)
	if err != nil {
		span.AddEvent("parking_failed")
		s.printf("Sorry, no %s slot available\n", category)
		return
	}

	span.AddEvent("parking_successful", trace.WithAttributes(
		attribute.Int("allocated_slot", ref.Number),
	))
	s.printf("Allocated %s slot number: %d\n", ref.Category, ref.Number)
}

func (s *Shell) handleNextSlot(ctx context.Context, parts []string) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.next_slot_command")
	defer span.End()

	lot := s.requireLot(span)
	if lot == nil {
		return
	}

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: next_slot <category>")
		return
	}

	category, err := ParseCategory(parts[1])
	if err != nil {
		span.RecordError(err)
		s.printf("Unknown category: %s\n", parts[1])
		return
	}

	ref, err := lot.FindAvailableSlot(ctx, category)
	if err != nil {
		s.printf("Sorry, no %s slot available\n", category)
		return
	}
	s.printf("Next free %s slot number: %d\n", ref.Category, ref.Number)
}

func (s *Shell) handleLeave(ctx context.Context, parts []string) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.leave_command")
	defer span.End()

	lot := s.requireLot(span)
	if lot == nil {
		return
	}

	if len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: leave <category> <slot_number>")
		return
	}

	category, err := ParseCategory(parts[1])
	if err != nil {
		span.RecordError(err)
		s.printf("Unknown category: %s\n", parts[1])
		return
	}

	slotNumber, ok := s.parseSlotNumber(span, parts[2])
	if !ok {
		return
	}

	departure, err := lot.Leave(ctx, category, slotNumber, s.now())
	s.reportDeparture(span, departure, err)
}

func (s *Shell) handleRemove(ctx context.Context, parts []string) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.remove_command")
	defer span.End()

	lot := s.requireLot(span)
	if lot == nil {
		return
	}

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: remove <slot_number>")
		return
	}

	slotNumber, ok := s.parseSlotNumber(span, parts[1])
	if !ok {
		return
	}

	departure, err := lot.RemoveVehicle(ctx, slotNumber, s.now())
	s.reportDeparture(span, departure, err)
}

func (s *Shell) parseSlotNumber(span trace.Span, raw string) (int, bool) {
	slotNumber, err := strconv.Atoi(raw)
	if err != nil {
		span.RecordError(fmt.Errorf("invalid slot number: %s", raw))
		span.AddEvent("invalid_slot_number")
		s.println("Invalid slot number")
		return 0, false
	}
	span.SetAttributes(attribute.Int("slot_number", slotNumber))
	return slotNumber, true
}

func (s *Shell) reportDeparture(span trace.Span, departure *Departure, err error) {
	if err != nil {
		span.AddEvent("leave_failed")
		switch {
		case errors.Is(err, ErrSlotNotFound):
			s.println("Error: slot not found")
		case errors.Is(err, ErrSlotAlreadyEmpty):
			s.println("Error: slot is already empty")
		default:
			s.printf("Error: %s\n", err.Error())
		}
		return
	}

	span.AddEvent("leave_successful")
	s.printf("Slot number %d (%s) is free\n", departure.Slot.Number, departure.Slot.Category)
	s.printf("Duration: %.2f hours\n", departure.Fee.DurationHours)
	s.printf("Vehicle charge: $%s\n", FormatAmount(departure.Fee.Amount))
}

func (s *Shell) handleStatus(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.status_command")
	defer span.End()

	lot := s.requireLot(span)
	if lot == nil {
		return
	}

	occupiedSlots := lot.OccupiedSlots(ctx)
	if len(occupiedSlots) == 0 {
		span.AddEvent("parking_lot_empty")
		s.println("Parking lot is empty")
		return
	}

	span.SetAttributes(attribute.Int("occupied_slots_count", len(occupiedSlots)))
	span.AddEvent("status_retrieved")

	s.println("Category\tSlot No.\tRegistration No\tArrival")
	for _, slot := range occupiedSlots {
		s.printf("%s\t%d\t\t%s\t%s\n",
			slot.Category, slot.Number, slot.Vehicle.RegistrationNumber,
			slot.Vehicle.ArrivalTime.Format(time.RFC3339))
	}
}

func (s *Shell) handleEmptySlots(ctx context.Context) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.empty_slots_command")
	defer span.End()

	lot := s.requireLot(span)
	if lot == nil {
		return
	}

	counts := lot.EmptySlotCounts(ctx)
	s.println("Empty Slots:")
	s.printf("Handicapped: %d\n", counts.Handicapped)
	s.printf("Small/Midsize: %d\n", counts.SmallMidsize)
	s.printf("Large: %d\n", counts.Large)
}

func (s *Shell) handleSlotNumberForRegistrationNumber(ctx context.Context, parts []string) {
	ctx, span := s.telemetry.Tracer().Start(ctx, "shell.find_slot_by_registration")
	defer span.End()

	lot := s.requireLot(span)
	if lot == nil {
		return
	}

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		s.println("Usage: slot_number_for_registration_number <registration_number>")
		return
	}

	registrationNumber := parts[1]
	span.SetAttributes(attribute.String("registration_number", registrationNumber))

	info, err := lot.GetSlotByRegistrationNumber(ctx, registrationNumber)
	if err != nil {
		span.AddEvent("vehicle_not_found")
		s.println("Not found")
		return
	}

	span.AddEvent("vehicle_found", trace.WithAttributes(
		attribute.Int("slot_number", info.Number),
	))
	s.printf("%s %d\n", info.Category, info.Number)
}
