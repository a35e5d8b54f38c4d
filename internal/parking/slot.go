package parking

type Slot struct {
	Number     int
	Category   Category
	IsOccupied bool
	Vehicle    *Vehicle
}

func NewSlot(category Category, number int) *Slot {
	return &Slot{
		Number:     number,
		Category:   category,
		IsOccupied: false,
		Vehicle:    nil,
	}
}

// Park binds the vehicle without checking occupancy; callers only park
// into slots they found free.
func (s *Slot) Park(vehicle *Vehicle) {
	s.Vehicle = vehicle
	s.IsOccupied = true
}

func (s *Slot) Leave() *Vehicle {
	if !s.IsOccupied {
		return nil
	}
	vehicle := s.Vehicle
	s.Vehicle = nil
	s.IsOccupied = false
	return vehicle
}

// SlotRef addresses a slot by pool and number; numbers alone repeat.
type SlotRef struct {
	Category Category `json:"category"`
	Number   int      `json:"slot_number"`
}

func (s *Slot) Ref() SlotRef {
	return SlotRef{Category: s.Category, Number: s.Number}
}

// SlotInfo is a point-in-time copy of a slot.
type SlotInfo struct {
	SlotRef
	Occupied bool     `json:"occupied"`
	Vehicle  *Vehicle `json:"vehicle,omitempty"`
}

func (s *Slot) Info() SlotInfo {
	info := SlotInfo{SlotRef: s.Ref(), Occupied: s.IsOccupied}
	if s.Vehicle != nil {
		v := *s.Vehicle
		info.Vehicle = &v
	}
	return info
}
