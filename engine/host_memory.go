package engine

import (
	"sync"
	"time"
)

type hostEntry struct {
	engineName string
	expiresAt  time.Time
}

// HostMemory remembers which engine last produced an accepted page for each
// host. Entries expire after the configured TTL and are pruned periodically.
type HostMemory struct {
	store    sync.Map // host (string) -> *hostEntry
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewHostMemory creates a HostMemory with the given TTL and starts a
// background goroutine that prunes expired entries.
func NewHostMemory(ttl time.Duration) *HostMemory {
	hm := &HostMemory{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go hm.cleanupLoop()
	return hm
}

// Get returns the remembered engine name for host, or "" if unknown or expired.
func (hm *HostMemory) Get(host string) string {
	val, ok := hm.store.Load(host)
	if !ok {
		return ""
	}
	entry := val.(*hostEntry)
	if time.Now().After(entry.expiresAt) {
		hm.store.Delete(host)
		return ""
	}
	return entry.engineName
}

// Set records which engine succeeded for host.
func (hm *HostMemory) Set(host, engineName string) {
	hm.store.Store(host, &hostEntry{
		engineName: engineName,
		expiresAt:  time.Now().Add(hm.ttl),
	})
}

// Delete forgets host, e.g. after the remembered engine failed.
func (hm *HostMemory) Delete(host string) {
	hm.store.Delete(host)
}

// Stop terminates the background cleanup goroutine.
func (hm *HostMemory) Stop() {
	hm.stopOnce.Do(func() { close(hm.done) })
}

func (hm *HostMemory) cleanupLoop() {
	interval := hm.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-hm.done:
			return
		case <-ticker.C:
			now := time.Now()
			hm.store.Range(func(key, value any) bool {
				if now.After(value.(*hostEntry).expiresAt) {
					hm.store.Delete(key)
				}
				return true
			})
		}
	}
}
