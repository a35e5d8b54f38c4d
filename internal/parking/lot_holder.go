package parking

import "sync"

// LotHolder holds the lot currently in service. The shell and the HTTP
// handler share one holder, so creating a lot on either side replaces it
// for both.
type LotHolder struct {
	mu  sync.RWMutex
	lot *InstrumentedParkingLot
}

func NewLotHolder() *LotHolder {
	return &LotHolder{}
}

// Get returns the current lot, or nil before one has been created.
func (h *LotHolder) Get() *InstrumentedParkingLot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lot
}

func (h *LotHolder) Set(lot *InstrumentedParkingLot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lot = lot
}
