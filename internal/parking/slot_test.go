package parking

import (
	"testing"
	"time"
)

func TestNewSlot(t *testing.T) {
	slotNumber := 1
	slot := NewSlot(Large, slotNumber)

	if slot.Number != slotNumber {
		t.Errorf("Expected slot number %d, got %d", slotNumber, slot.Number)
	}

	if slot.Category != Large {
		t.Errorf("Expected category %s, got %s", Large, slot.Category)
	}

	if slot.IsOccupied {
		t.Error("Expected new slot to be unoccupied")
	}

	if slot.Vehicle != nil {
		t.Error("Expected new slot to have no vehicle")
	}
}

func TestSlotPark(t *testing.T) {
	slot := NewSlot(Handicapped, 1)
	vehicle := NewVehicle(Handicapped, time.Now())

	slot.Park(vehicle)

	if !slot.IsOccupied {
		t.Error("Expected slot to be occupied after parking")
	}

	if slot.Vehicle != vehicle {
		t.Error("Expected slot to contain the parked vehicle")
	}
}

func TestSlotLeave(t *testing.T) {
	slot := NewSlot(Handicapped, 1)
	vehicle := NewVehicle(Handicapped, time.Now())

	slot.Park(vehicle)
	leavingVehicle := slot.Leave()

	if slot.IsOccupied {
		t.Error("Expected slot to be unoccupied after leaving")
	}

	if slot.Vehicle != nil {
		t.Error("Expected slot to have no vehicle after leaving")
	}

	if leavingVehicle != vehicle {
		t.Error("Expected leaving vehicle to be the same as parked vehicle")
	}
}

func TestSlotLeaveWhenFree(t *testing.T) {
	slot := NewSlot(SmallMidsize, 4)

	if v := slot.Leave(); v != nil {
		t.Errorf("Expected nil vehicle from a free slot, got %+v", v)
	}

	if slot.IsOccupied || slot.Vehicle != nil {
		t.Error("Expected free slot to stay free")
	}
}

func TestSlotInfoCopiesVehicle(t *testing.T) {
	slot := NewSlot(Large, 2)
	vehicle := NewVehicle(Large, time.Now())
	vehicle.RegistrationNumber = "KA01HH1234"
	slot.Park(vehicle)

	info := slot.Info()
	info.Vehicle.RegistrationNumber = "CHANGED"

	if vehicle.RegistrationNumber != "KA01HH1234" {
		t.Error("Expected SlotInfo to hold a copy of the vehicle")
	}
	if info.Category != Large || info.Number != 2 || !info.Occupied {
		t.Errorf("Unexpected slot info %+v", info)
	}
}
