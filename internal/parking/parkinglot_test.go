package parking

import (
	"errors"
	"testing"
	"time"
)

var arrival = time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC)

func TestNewParkingLot(t *testing.T) {
	pl := NewParkingLot("Shopping Mall Parking", 3, 10, 20, 15)

	if pl.Name() != "Shopping Mall Parking" {
		t.Errorf("Expected name Shopping Mall Parking, got %s", pl.Name())
	}
	if pl.Floors() != 3 {
		t.Errorf("Expected 3 floors, got %d", pl.Floors())
	}

	want := SlotCounts{Handicapped: 10, SmallMidsize: 20, Large: 15}
	if got := pl.Capacities(); got != want {
		t.Errorf("Expected capacities %+v, got %+v", want, got)
	}

	for _, category := range Categories() {
		for i, slot := range pl.Slots(category) {
			if slot.Number != i+1 {
				t.Errorf("Expected %s slot number %d, got %d", category, i+1, slot.Number)
			}
			if slot.Category != category {
				t.Errorf("Expected slot category %s, got %s", category, slot.Category)
			}
			if slot.IsOccupied {
				t.Errorf("Expected %s slot %d to be unoccupied", category, i+1)
			}
		}
	}
}

func TestNewParkingLotNegativeCount(t *testing.T) {
	pl := NewParkingLot("lot", 1, -2, 1, 0)
	if pl.Capacity(Handicapped) != 0 {
		t.Errorf("Expected negative capacity to become 0, got %d", pl.Capacity(Handicapped))
	}
}

func TestFindAvailableSlotAfterConstruction(t *testing.T) {
	pl := NewParkingLot("lot", 1, 2, 0, 5)

	for _, category := range []Category{Handicapped, Large} {
		slot, err := pl.FindAvailableSlot(category)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %s", category, err.Error())
		}
		if slot.Number != 1 {
			t.Errorf("Expected first free %s slot to be 1, got %d", category, slot.Number)
		}
	}

	_, err := pl.FindAvailableSlot(SmallMidsize)
	if !errors.Is(err, ErrCategoryFull) {
		t.Errorf("Expected ErrCategoryFull for empty pool, got %v", err)
	}

	_, err = pl.FindAvailableSlot(Category(42))
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestParkingLotParkFillsPoolInOrder(t *testing.T) {
	const n = 4
	pl := NewParkingLot("lot", 1, 1, n, 1)

	for i := 1; i <= n; i++ {
		slot, err := pl.Park(SmallMidsize, NewVehicle(SmallMidsize, arrival))
		if err != nil {
			t.Fatalf("Unexpected error on park %d: %s", i, err.Error())
		}
		if slot.Number != i {
			t.Errorf("Expected slot number %d, got %d", i, slot.Number)
		}
	}

	vehicle := NewVehicle(SmallMidsize, arrival)
	slot, err := pl.Park(SmallMidsize, vehicle)
	if !errors.Is(err, ErrCategoryFull) {
		t.Errorf("Expected ErrCategoryFull when pool is full, got %v", err)
	}
	if slot != nil {
		t.Error("Expected no slot when pool is full")
	}

	if got := pl.EmptySlotCounts(); got.Handicapped != 1 || got.Large != 1 {
		t.Errorf("Expected other pools untouched, got %+v", got)
	}
}

func TestParkingLotParkSetsMissingCategory(t *testing.T) {
	pl := NewParkingLot("lot", 1, 1, 1, 1)
	vehicle := &Vehicle{ArrivalTime: arrival}

	slot, err := pl.Park(Large, vehicle)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if vehicle.Category != Large || slot.Category != Large {
		t.Errorf("Expected vehicle and slot to be large, got %s and %s", vehicle.Category, slot.Category)
	}
}

func TestParkingLotLeave(t *testing.T) {
	pl := NewParkingLot("lot", 1, 2, 2, 2)
	first := NewVehicle(Handicapped, arrival)
	pl.Park(Handicapped, first)
	pl.Park(Handicapped, NewVehicle(Handicapped, arrival))

	vehicle, err := pl.Leave(Handicapped, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if vehicle != first {
		t.Error("Expected Leave to return the parked vehicle instance")
	}
	if got := pl.EmptySlotCounts().Handicapped; got != 1 {
		t.Errorf("Expected 1 empty handicapped slot, got %d", got)
	}

	slot, err := pl.Park(Handicapped, NewVehicle(Handicapped, arrival))
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if slot.Number != 1 {
		t.Errorf("Expected to reuse slot 1, got slot %d", slot.Number)
	}
}

func TestParkingLotLeaveFailures(t *testing.T) {
	pl := NewParkingLot("lot", 1, 2, 2, 2)
	pl.Park(Large, NewVehicle(Large, arrival))
	before := pl.EmptySlotCounts()

	tests := []struct {
		name     string
		category Category
		number   int
		want     error
	}{
		{"never occupied", Large, 2, ErrSlotAlreadyEmpty},
		{"out of range", Large, 3, ErrSlotNotFound},
		{"zero", Large, 0, ErrSlotNotFound},
		{"unknown category", Category(9), 1, ErrUnknownCategory},
	}

	for _, tt := range tests {
		vehicle, err := pl.Leave(tt.category, tt.number)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
		if vehicle != nil {
			t.Errorf("%s: expected no vehicle", tt.name)
		}
	}

	if _, err := pl.Leave(Large, 1); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if _, err := pl.Leave(Large, 1); !errors.Is(err, ErrSlotAlreadyEmpty) {
		t.Errorf("Expected second release to fail with ErrSlotAlreadyEmpty, got %v", err)
	}

	after := pl.EmptySlotCounts()
	if after.Large != before.Large+1 || after.Handicapped != before.Handicapped || after.SmallMidsize != before.SmallMidsize {
		t.Errorf("Expected only the one successful release to change counts, before %+v after %+v", before, after)
	}
}

func TestRemoveVehicleUsesScanOrder(t *testing.T) {
	pl := NewParkingLot("lot", 1, 2, 2, 2)
	handicapped := NewVehicle(Handicapped, arrival)
	small := NewVehicle(SmallMidsize, arrival)
	pl.Park(Handicapped, handicapped)
	pl.Park(SmallMidsize, small)

	vehicle, err := pl.RemoveVehicle(1)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if vehicle != handicapped {
		t.Error("Expected RemoveVehicle(1) to release the handicapped slot first")
	}

	counts := pl.EmptySlotCounts()
	if counts.Handicapped != 2 || counts.SmallMidsize != 1 {
		t.Errorf("Expected small/midsize slot 1 to stay occupied, got %+v", counts)
	}

	// Handicapped slot 1 is now the first match and it is empty.
	if _, err := pl.RemoveVehicle(1); !errors.Is(err, ErrSlotAlreadyEmpty) {
		t.Errorf("Expected ErrSlotAlreadyEmpty, got %v", err)
	}

	if _, err := pl.RemoveVehicle(7); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Expected ErrSlotNotFound, got %v", err)
	}
}

func TestRemoveVehicleFallsThroughToLaterPool(t *testing.T) {
	pl := NewParkingLot("lot", 1, 1, 1, 3)
	large := NewVehicle(Large, arrival)
	pl.Park(Large, NewVehicle(Large, arrival))
	pl.Park(Large, NewVehicle(Large, arrival))
	pl.Park(Large, large)

	vehicle, err := pl.RemoveVehicle(3)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if vehicle != large {
		t.Error("Expected slot 3 to be found in the large pool")
	}
}

func TestEmptyPlusOccupiedEqualsCapacity(t *testing.T) {
	pl := NewParkingLot("lot", 1, 3, 4, 2)
	check := func() {
		t.Helper()
		empty := pl.EmptySlotCounts()
		occupied := pl.OccupiedSlotCounts()
		capacities := pl.Capacities()
		for _, category := range Categories() {
			if empty.Get(category)+occupied.Get(category) != capacities.Get(category) {
				t.Errorf("%s: empty %d + occupied %d != total %d", category,
					empty.Get(category), occupied.Get(category), capacities.Get(category))
			}
		}
	}

	check()
	pl.Park(Handicapped, NewVehicle(Handicapped, arrival))
	pl.Park(SmallMidsize, NewVehicle(SmallMidsize, arrival))
	pl.Park(Large, NewVehicle(Large, arrival))
	pl.Park(Large, NewVehicle(Large, arrival))
	pl.Park(Large, NewVehicle(Large, arrival))
	check()
	pl.Leave(Large, 2)
	pl.RemoveVehicle(1)
	pl.Leave(Handicapped, 3)
	check()
}

func TestParkingLotGetSlotByRegistrationNumber(t *testing.T) {
	pl := NewParkingLot("lot", 1, 3, 3, 3)
	first := NewVehicle(SmallMidsize, arrival)
	first.RegistrationNumber = "KA01HH1234"
	second := NewVehicle(Large, arrival)
	second.RegistrationNumber = "KA01HH9999"
	pl.Park(SmallMidsize, first)
	pl.Park(Large, second)

	slot, err := pl.GetSlotByRegistrationNumber("KA01HH9999")
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if slot.Category != Large || slot.Number != 1 {
		t.Errorf("Expected large slot 1, got %s slot %d", slot.Category, slot.Number)
	}

	_, err = pl.GetSlotByRegistrationNumber("NOTFOUND")
	if !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("Expected ErrVehicleNotFound, got %v", err)
	}
}

func TestParkingLotGetStatus(t *testing.T) {
	pl := NewParkingLot("lot", 1, 2, 3, 2)
	pl.Park(Large, NewVehicle(Large, arrival))
	pl.Park(SmallMidsize, NewVehicle(SmallMidsize, arrival))
	pl.Park(SmallMidsize, NewVehicle(SmallMidsize, arrival))
	pl.Park(SmallMidsize, NewVehicle(SmallMidsize, arrival))
	pl.Park(Handicapped, NewVehicle(Handicapped, arrival))

	pl.Leave(SmallMidsize, 2)

	status := pl.GetStatus()
	expected := []SlotRef{
		{Handicapped, 1},
		{SmallMidsize, 1},
		{SmallMidsize, 3},
		{Large, 1},
	}

	if len(status) != len(expected) {
		t.Fatalf("Expected %d occupied slots, got %d", len(expected), len(status))
	}

	for i, slot := range status {
		if slot.Ref() != expected[i] {
			t.Errorf("Expected %+v at position %d, got %+v", expected[i], i, slot.Ref())
		}
	}
}

func TestParkNilVehicle(t *testing.T) {
	pl := NewParkingLot("lot", 1, 1, 1, 1)

	_, err := pl.Park(Large, nil)
	if !errors.Is(err, ErrNoVehicle) {
		t.Errorf("Expected ErrNoVehicle, got %v", err)
	}
	if got := pl.EmptySlotCounts().Large; got != 1 {
		t.Errorf("Expected 1 empty large slot, got %d", got)
	}
}
