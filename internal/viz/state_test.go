package viz

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A reader must never observe fields from two different update
// generations: each writer pass sets every field from one generation
// under the lock, and the reader checks they agree.
func TestStateUpdatesAreAllOrNothing(t *testing.T) {
	s := NewState()
	stop := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := 1.0; ; gen++ {
			select {
			case <-stop:
				return
			default:
			}
			s.Lock()
			s.Amplitude = gen
			runtime.Gosched() // widen the window a torn read would need
			s.Baseline = gen
			s.Particles[0].X = gen
			s.Unlock()
			if gen == 1 {
				close(started)
			}
		}
	}()

	// The reader only samples once at least one full generation has
	// been written, so the final amplitude check holds on any
	// scheduler, single CPU included.
	<-started

	for i := 0; i < 10000; i++ {
		s.Lock()
		amp, base, px := s.Amplitude, s.Baseline, s.Particles[0].X
		s.Unlock()
		if amp != base || base != px {
			close(stop)
			wg.Wait()
			t.Fatalf("torn read: amplitude=%v baseline=%v particle=%v", amp, base, px)
		}
	}
	close(stop)
	wg.Wait()
	assert.Positive(t, s.Amplitude)
}
