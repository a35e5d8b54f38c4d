package server

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"tiered-parking-lot/internal/parking"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type ParkingLotCreateRequest struct {
	Name         string `json:"name" validate:"required"`
	Floors       int    `json:"floors" validate:"gte=0"`
	Handicapped  int    `json:"handicapped" validate:"gte=0"`
	SmallMidsize int    `json:"small_midsize" validate:"gte=0"`
	Large        int    `json:"large" validate:"gte=0"`
}

type ParkVehicleRequest struct {
	Category     string `json:"category" validate:"required"`
	Registration string `json:"registration" validate:"omitempty,max=32"`
}

type LeaveSlotRequest struct {
	Category   string `json:"category" validate:"required"`
	SlotNumber int    `json:"slot_number" validate:"gt=0"`
}

type RemoveVehicleRequest struct {
	SlotNumber int `json:"slot_number" validate:"gt=0"`
}

type ParkVehicleResponse struct {
	Category     parking.Category `json:"category"`
	SlotNumber   int              `json:"slot_number"`
	Registration string           `json:"registration,omitempty"`
	ArrivalTime  string           `json:"arrival_time"`
}

type DepartureResponse struct {
	Category      parking.Category `json:"category"`
	SlotNumber    int              `json:"slot_number"`
	Registration  string           `json:"registration,omitempty"`
	ArrivalTime   string           `json:"arrival_time"`
	ExitTime      string           `json:"exit_time"`
	DurationHours float64          `json:"duration_hours"`
	HourlyRate    float64          `json:"hourly_rate"`
	Charge        string           `json:"charge"`
}

type FindVehicleResponse struct {
	Category     parking.Category `json:"category"`
	SlotNumber   int              `json:"slot_number"`
	Registration string           `json:"registration"`
	ArrivalTime  string           `json:"arrival_time"`
}

type SlotStatus struct {
	SlotNumber   int    `json:"slot_number"`
	Registration string `json:"registration,omitempty"`
	ArrivalTime  string `json:"arrival_time,omitempty"`
	Occupied     bool   `json:"occupied"`
}

type PoolStatus struct {
	Category  parking.Category `json:"category"`
	Capacity  int              `json:"capacity"`
	Occupied  int              `json:"occupied"`
	Available int              `json:"available"`
	Slots     []SlotStatus     `json:"slots"`
}

type StatusResponse struct {
	Name      string       `json:"name"`
	Floors    int          `json:"floors"`
	Capacity  int          `json:"capacity"`
	Occupied  int          `json:"occupied"`
	Available int          `json:"available"`
	Pools     []PoolStatus `json:"pools"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
