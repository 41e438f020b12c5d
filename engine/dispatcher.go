package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// AcceptFunc decides whether a fetched body is usable.
type AcceptFunc func(body []byte) bool

// Dispatcher runs engines with staged escalation. The first engine starts
// immediately; each following engine starts after its delay, or at once when
// every engine started so far has failed. The first accepted result wins.
type Dispatcher struct {
	engines []Engine
	delays  []time.Duration
	accept  AcceptFunc
	memory  *HostMemory
}

// NewDispatcher creates a Dispatcher. delays[i] is the wait before starting
// engines[i] after engines[i-1]; missing delays are zero. A nil accept
// accepts every successful fetch.
func NewDispatcher(engines []Engine, delays []time.Duration, accept AcceptFunc) *Dispatcher {
	d := make([]time.Duration, len(engines))
	copy(d, delays)
	return &Dispatcher{
		engines: engines,
		delays:  d,
		accept:  accept,
	}
}

// UseMemory makes the dispatcher start with the engine that last won for a
// host and record each new winner.
func (d *Dispatcher) UseMemory(hm *HostMemory) {
	d.memory = hm
}

// order returns the engines for host, the remembered winner first.
func (d *Dispatcher) order(host string) []Engine {
	if d.memory == nil {
		return d.engines
	}
	preferred := d.memory.Get(host)
	if preferred == "" || preferred == d.engines[0].Name() {
		return d.engines
	}
	ordered := make([]Engine, 0, len(d.engines))
	for _, e := range d.engines {
		if e.Name() == preferred {
			ordered = append(ordered, e)
		}
	}
	for _, e := range d.engines {
		if e.Name() != preferred {
			ordered = append(ordered, e)
		}
	}
	return ordered
}

type attempt struct {
	result *FetchResult
	err    error
}

// Fetch returns the first accepted result. If all engines fail and at least
// one of them fetched a page that was rejected, it returns that page together
// with an error wrapping ErrRejected, so callers can tell "the upstream served
// something else" from a transport failure. Otherwise it returns the last
// error.
func (d *Dispatcher) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if len(d.engines) == 0 {
		return nil, errors.New("dispatcher: no engines configured")
	}

	var host string
	if u, err := url.Parse(req.URL); err == nil {
		host = u.Host
	}
	engines := d.order(host)

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan attempt, len(d.engines))
	started := 0
	launch := func() {
		e := engines[started]
		started++
		slog.Debug("engine starting", "engine", e.Name(), "url", req.URL)
		go func() {
			result, err := e.Fetch(raceCtx, req)
			if err == nil && d.accept != nil && !d.accept(result.Body) {
				err = fmt.Errorf("%s: %w", e.Name(), ErrRejected)
			}
			if err != nil {
				slog.Debug("engine failed", "engine", e.Name(), "url", req.URL, "error", err)
			}
			results <- attempt{result: result, err: err}
		}()
	}

	launch()
	var lastErr error
	var rejected *attempt
	failed := 0
	for {
		var timer *time.Timer
		var escalate <-chan time.Time
		if started < len(engines) {
			timer = time.NewTimer(d.delays[started])
			escalate = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil, ctx.Err()

		case <-escalate:
			launch()

		case a := <-results:
			stopTimer(timer)
			if a.err == nil {
				slog.Debug("engine won", "engine", a.result.EngineName, "url", req.URL)
				if d.memory != nil {
					d.memory.Set(host, a.result.EngineName)
				}
				return a.result, nil
			}
			lastErr = a.err
			if a.result != nil {
				rejected = &a
			}
			failed++
			if failed == len(engines) {
				if d.memory != nil {
					d.memory.Delete(host)
				}
				if rejected != nil {
					return rejected.result, rejected.err
				}
				return nil, lastErr
			}
			if failed == started {
				launch()
			}
		}
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
