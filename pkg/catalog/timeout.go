package catalog

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer evaluation started while this one
// was running.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

type evalResult struct {
	catalog *Catalog
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, giving up after timeout. The
// generation counter discards results from evaluations that were
// overtaken; a timed-out goroutine may still finish later and its result
// is dropped the same way.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Catalog, []EvalError, error) {
	return waitFor(ch, gen, mu, currentGen, EvalTimeout)
}

func waitFor(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (*Catalog, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.catalog, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
