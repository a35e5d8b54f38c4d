package parking

import "fmt"

// SlotCounts holds one number per category.
type SlotCounts struct {
	Handicapped  int `json:"handicapped"`
	SmallMidsize int `json:"small_midsize"`
	Large        int `json:"large"`
}

func (c SlotCounts) Get(category Category) int {
	switch category {
	case Handicapped:
		return c.Handicapped
	case SmallMidsize:
		return c.SmallMidsize
	case Large:
		return c.Large
	}
	return 0
}

func (c *SlotCounts) set(category Category, n int) {
	switch category {
	case Handicapped:
		c.Handicapped = n
	case SmallMidsize:
		c.SmallMidsize = n
	case Large:
		c.Large = n
	}
}

func (c SlotCounts) Total() int {
	return c.Handicapped + c.SmallMidsize + c.Large
}

// ParkingLot owns one fixed-size pool of slots per category. It is not safe
// for concurrent use; see InstrumentedParkingLot.
type ParkingLot struct {
	name   string
	floors int
	pools  map[Category][]*Slot
}

func NewParkingLot(name string, floors, totalHandicapped, totalSmallMidsize, totalLarge int) *ParkingLot {
	return &ParkingLot{
		name:   name,
		floors: floors,
		pools: map[Category][]*Slot{
			Handicapped:  newPool(Handicapped, totalHandicapped),
			SmallMidsize: newPool(SmallMidsize, totalSmallMidsize),
			Large:        newPool(Large, totalLarge),
		},
	}
}

func newPool(category Category, size int) []*Slot {
	if size < 0 {
		size = 0
	}
	slots := make([]*Slot, size)
	for i := 0; i < size; i++ {
		slots[i] = NewSlot(category, i+1)
	}
	return slots
}

func (pl *ParkingLot) Name() string { return pl.name }

func (pl *ParkingLot) Floors() int { return pl.floors }

func (pl *ParkingLot) pool(category Category) ([]*Slot, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(category))
	}
	return pl.pools[category], nil
}

// FindAvailableSlot returns the lowest-numbered free slot of the category.
func (pl *ParkingLot) FindAvailableSlot(category Category) (*Slot, error) {
	slots, err := pl.pool(category)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		if !slot.IsOccupied {
			return slot, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCategoryFull, category)
}

func (pl *ParkingLot) Park(category Category, vehicle *Vehicle) (*Slot, error) {
	if vehicle == nil {
		return nil, fmt.Errorf("park %s: %w", category, ErrNoVehicle)
	}
	slot, err := pl.FindAvailableSlot(category)
	if err != nil {
		return nil, err
	}
	if !vehicle.Category.Valid() {
		vehicle.Category = category
	}
	slot.Park(vehicle)
	return slot, nil
}

// Leave releases the slot identified by category and number.
func (pl *ParkingLot) Leave(category Category, slotNumber int) (*Vehicle, error) {
	slots, err := pl.pool(category)
	if err != nil {
		return nil, err
	}
	if slotNumber < 1 || slotNumber > len(slots) {
		return nil, fmt.Errorf("%w: %s slot %d", ErrSlotNotFound, category, slotNumber)
	}
	return release(slots[slotNumber-1])
}

// RemoveVehicle releases a slot by number alone. Numbers repeat across
// pools, so the first slot carrying that number in scan order
// (handicapped, smallMidsize, large) is the one released, even when it
// is empty and a later pool's slot with the same number is occupied.
func (pl *ParkingLot) RemoveVehicle(slotNumber int) (*Vehicle, error) {
	slot := pl.findByNumber(slotNumber)
	if slot == nil {
		return nil, fmt.Errorf("%w: slot %d", ErrSlotNotFound, slotNumber)
	}
	return release(slot)
}

// SlotForNumber reports which slot RemoveVehicle would act on.
func (pl *ParkingLot) SlotForNumber(slotNumber int) (*Slot, error) {
	slot := pl.findByNumber(slotNumber)
	if slot == nil {
		return nil, fmt.Errorf("%w: slot %d", ErrSlotNotFound, slotNumber)
	}
	return slot, nil
}

func (pl *ParkingLot) findByNumber(slotNumber int) *Slot {
	for _, category := range Categories() {
		for _, slot := range pl.pools[category] {
			if slot.Number == slotNumber {
				return slot
			}
		}
	}
	return nil
}

func release(slot *Slot) (*Vehicle, error) {
	if !slot.IsOccupied {
		return nil, errSlotEmpty(slot)
	}
	return slot.Leave(), nil
}

func errSlotEmpty(slot *Slot) error {
	return fmt.Errorf("%w: %s slot %d", ErrSlotAlreadyEmpty, slot.Category, slot.Number)
}

// Slot returns the slot without changing it.
func (pl *ParkingLot) Slot(category Category, slotNumber int) (*Slot, error) {
	slots, err := pl.pool(category)
	if err != nil {
		return nil, err
	}
	if slotNumber < 1 || slotNumber > len(slots) {
		return nil, fmt.Errorf("%w: %s slot %d", ErrSlotNotFound, category, slotNumber)
	}
	return slots[slotNumber-1], nil
}

func (pl *ParkingLot) EmptySlotCounts() SlotCounts {
	var counts SlotCounts
	for _, category := range Categories() {
		empty := 0
		for _, slot := range pl.pools[category] {
			if !slot.IsOccupied {
				empty++
			}
		}
		counts.set(category, empty)
	}
	return counts
}

func (pl *ParkingLot) OccupiedSlotCounts() SlotCounts {
	capacities := pl.Capacities()
	empty := pl.EmptySlotCounts()
	var counts SlotCounts
	for _, category := range Categories() {
		counts.set(category, capacities.Get(category)-empty.Get(category))
	}
	return counts
}

func (pl *ParkingLot) Capacity(category Category) int {
	return len(pl.pools[category])
}

func (pl *ParkingLot) Capacities() SlotCounts {
	var counts SlotCounts
	for _, category := range Categories() {
		counts.set(category, len(pl.pools[category]))
	}
	return counts
}

// Slots returns the pool in slot number order. The slice is a copy; the
// slots are not.
func (pl *ParkingLot) Slots(category Category) []*Slot {
	slots := make([]*Slot, len(pl.pools[category]))
	copy(slots, pl.pools[category])
	return slots
}

// GetStatus lists occupied slots in scan order, ascending within each pool.
func (pl *ParkingLot) GetStatus() []*Slot {
	var occupiedSlots []*Slot
	for _, category := range Categories() {
		for _, slot := range pl.pools[category] {
			if slot.IsOccupied {
				occupiedSlots = append(occupiedSlots, slot)
			}
		}
	}
	return occupiedSlots
}

func (pl *ParkingLot) GetSlotByRegistrationNumber(registrationNumber string) (*Slot, error) {
	for _, slot := range pl.GetStatus() {
		if slot.Vehicle.RegistrationNumber == registrationNumber {
			return slot, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, registrationNumber)
}
