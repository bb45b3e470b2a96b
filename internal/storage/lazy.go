package storage

import "sync"

// Lazy holds an ImageStore that is initialized after startup (the object
// store connection is dialed in the background). Handlers that need the
// store before it is ready surface ErrNotReady as a 503 instead of
// scattering nil checks.
type Lazy struct {
	mu    sync.RWMutex
	store ImageStore
}

func NewLazy() *Lazy {
	return &Lazy{}
}

// Set installs the backing store; later calls replace it.
func (l *Lazy) Set(s ImageStore) {
	l.mu.Lock()
	l.store = s
	l.mu.Unlock()
}

// Get returns the store, or false while initialization is still pending.
func (l *Lazy) Get() (ImageStore, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store, l.store != nil
}
