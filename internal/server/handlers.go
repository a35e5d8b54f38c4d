package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"tiered-parking-lot/internal/logging"
	"tiered-parking-lot/internal/parking"
)

type Handler struct {
	serviceName string
	telemetry   *parking.TelemetryProvider
	rates       parking.RateTable
	validate    *validator.Validate
	now         func() time.Time
	lots        *parking.LotHolder
}

// NewHandler serves the lot held by lots. A nil holder gives the handler
// a lot of its own.
func NewHandler(serviceName string, telemetry *parking.TelemetryProvider, rates parking.RateTable, lots *parking.LotHolder) *Handler {
	if lots == nil {
		lots = parking.NewLotHolder()
	}
	return &Handler{
		serviceName: serviceName,
		telemetry:   telemetry,
		rates:       rates,
		lots:        lots,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// UseParkingLot serves an existing lot until a new one is created.
func (h *Handler) UseParkingLot(lot *parking.InstrumentedParkingLot) {
	h.lots.Set(lot)
}

// SetClock replaces the source of arrival and exit times.
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

// decode reads and validates a JSON body, writing the 400 itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			WriteError(ctx, w, http.StatusBadRequest, "Invalid field "+verrs[0].Field()+": failed "+verrs[0].Tag())
			return false
		}
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) requireLot(w http.ResponseWriter, r *http.Request) *parking.InstrumentedParkingLot {
	lot := h.lots.Get()
	if lot == nil {
		WriteError(r.Context(), w, http.StatusBadRequest, "Parking lot not created. Create parking lot first")
	}
	return lot
}

func (h *Handler) CreateParkingLot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ParkingLotCreateRequest
	if !h.decode(w, r, &req) {
		return
	}

	lot := parking.NewParkingLot(req.Name, req.Floors, req.Handicapped, req.SmallMidsize, req.Large)
	parkingLot, err := parking.NewInstrumentedParkingLot(lot, h.rates, h.telemetry)
	if err != nil {
		logging.Error(ctx, "create parking lot failed", "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to create parking lot")
		return
	}

	h.UseParkingLot(parkingLot)
	logging.Info(ctx, "parking lot created", "name", req.Name, "floors", req.Floors,
		"handicapped", req.Handicapped, "small_midsize", req.SmallMidsize, "large", req.Large)

	WriteSuccess(ctx, w, "Parking lot created successfully", lot.Capacities())
}

func (h *Handler) ParkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot := h.requireLot(w, r)
	if lot == nil {
		return
	}

	var req ParkVehicleRequest
	if !h.decode(w, r, &req) {
		return
	}

	category, err := parking.ParseCategory(req.Category)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	vehicle := parking.NewVehicle(category, h.now())
	vehicle.RegistrationNumber = req.Registration

	ref, err := lot.Park(ctx, category, vehicle)
	if err != nil {
		writeParkingError(w, r, err)
		return
	}

	WriteSuccess(ctx, w, "Vehicle parked successfully", ParkVehicleResponse{
		Category:     ref.Category,
		SlotNumber:   ref.Number,
		Registration: req.Registration,
		ArrivalTime:  vehicle.ArrivalTime.Format(time.RFC3339),
	})
}

func (h *Handler) LeaveSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot := h.requireLot(w, r)
	if lot == nil {
		return
	}

	var req LeaveSlotRequest
	if !h.decode(w, r, &req) {
		return
	}

	category, err := parking.ParseCategory(req.Category)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	departure, err := lot.Leave(ctx, category, req.SlotNumber, h.now())
	if err != nil {
		writeParkingError(w, r, err)
		return
	}

	WriteSuccess(ctx, w, "Slot vacated successfully", newDepartureResponse(departure))
}

// RemoveVehicle releases by slot number alone; the first pool in scan
// order that has the number wins.
func (h *Handler) RemoveVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot := h.requireLot(w, r)
	if lot == nil {
		return
	}

	var req RemoveVehicleRequest
	if !h.decode(w, r, &req) {
		return
	}

	departure, err := lot.RemoveVehicle(ctx, req.SlotNumber, h.now())
	if err != nil {
		writeParkingError(w, r, err)
		return
	}

	WriteSuccess(ctx, w, "Slot vacated successfully", newDepartureResponse(departure))
}

func newDepartureResponse(d *parking.Departure) DepartureResponse {
	return DepartureResponse{
		Category:      d.Slot.Category,
		SlotNumber:    d.Slot.Number,
		Registration:  d.Vehicle.RegistrationNumber,
		ArrivalTime:   d.Vehicle.ArrivalTime.Format(time.RFC3339),
		ExitTime:      d.ExitTime.Format(time.RFC3339),
		DurationHours: d.Fee.DurationHours,
		HourlyRate:    d.Fee.HourlyRate,
		Charge:        parking.FormatAmount(d.Fee.Amount),
	}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot := h.requireLot(w, r)
	if lot == nil {
		return
	}

	status := lot.GetStatus(ctx)

	response := StatusResponse{
		Name:      status.Name,
		Floors:    status.Floors,
		Capacity:  status.Capacities.Total(),
		Occupied:  status.Occupied.Total(),
		Available: status.Empty.Total(),
	}

	for _, category := range parking.Categories() {
		pool := PoolStatus{
			Category:  category,
			Capacity:  status.Capacities.Get(category),
			Occupied:  status.Occupied.Get(category),
			Available: status.Empty.Get(category),
			Slots:     []SlotStatus{},
		}
		for _, slot := range status.Slots {
			if slot.Category != category {
				continue
			}
			s := SlotStatus{SlotNumber: slot.Number, Occupied: slot.Occupied}
			if slot.Vehicle != nil {
				s.Registration = slot.Vehicle.RegistrationNumber
				s.ArrivalTime = slot.Vehicle.ArrivalTime.Format(time.RFC3339)
			}
			pool.Slots = append(pool.Slots, s)
		}
		response.Pools = append(response.Pools, pool)
	}

	WriteSuccess(ctx, w, "Status retrieved successfully", response)
}

func (h *Handler) EmptySlots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot := h.requireLot(w, r)
	if lot == nil {
		return
	}

	WriteSuccess(ctx, w, "Empty slots retrieved successfully", lot.EmptySlotCounts(ctx))
}

func (h *Handler) FindByRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lot := h.requireLot(w, r)
	if lot == nil {
		return
	}

	registration := chi.URLParam(r, "registration")
	if registration == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Registration number is required")
		return
	}

	info, err := lot.GetSlotByRegistrationNumber(ctx, registration)
	if err != nil {
		writeParkingError(w, r, err)
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", FindVehicleResponse{
		Category:     info.Category,
		SlotNumber:   info.Number,
		Registration: info.Vehicle.RegistrationNumber,
		ArrivalTime:  info.Vehicle.ArrivalTime.Format(time.RFC3339),
	})
}

func writeParkingError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, parking.ErrUnknownCategory), errors.Is(err, parking.ErrNoVehicle):
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, parking.ErrSlotNotFound), errors.Is(err, parking.ErrVehicleNotFound):
		WriteError(ctx, w, http.StatusNotFound, err.Error())
	case errors.Is(err, parking.ErrCategoryFull), errors.Is(err, parking.ErrSlotAlreadyEmpty):
		WriteError(ctx, w, http.StatusConflict, err.Error())
	default:
		logging.Error(ctx, "parking operation failed", "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, "Internal server error")
	}
}
