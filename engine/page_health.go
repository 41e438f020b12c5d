package engine

import (
	"math"
	"time"
)

// Retirement thresholds for a browser tab.
const (
	maxErrScore = 3.0
	maxTabUses  = 50
	maxTabAge   = 50 * time.Minute
)

// pageHealth scores a pooled browser tab. A success lowers the error score by
// 0.5 (min 0), a failure raises it by 1. Tabs are only touched by the
// goroutine that took them from the pool, so no locking is needed.
type pageHealth struct {
	errScore float64
	useCount int
	created  time.Time
}

func newPageHealth() pageHealth {
	return pageHealth{created: time.Now()}
}

func (h *pageHealth) recordSuccess() {
	h.useCount++
	h.errScore = math.Max(0, h.errScore-0.5)
}

func (h *pageHealth) recordFailure() {
	h.useCount++
	h.errScore += 1.0
}

// shouldRetire reports whether the tab has failed too often, served too many
// lookups or lived too long.
func (h *pageHealth) shouldRetire(now time.Time) bool {
	return h.errScore >= maxErrScore ||
		h.useCount >= maxTabUses ||
		now.Sub(h.created) >= maxTabAge
}
