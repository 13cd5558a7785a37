package service

import "sync"

// carLocker serializes booking writes per car id so the overlap check
// and the write that follows it act as a single step. Two concurrent
// requests for the same car cannot both pass the check before either
// persists.
type carLocker struct {
	locks sync.Map
}

func (l *carLocker) lock(carID string) func() {
	val, _ := l.locks.LoadOrStore(carID, &sync.Mutex{})
	mu, _ := val.(*sync.Mutex)
	mu.Lock()

	return mu.Unlock
}
