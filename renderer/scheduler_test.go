package renderer

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestQueueSchedulerRunsInOrder(t *testing.T) {
	s := NewQueueScheduler()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.RequestFrame(func() { order = append(order, i) })
	}
	s.RequestFrame(nil)

	if n := s.Pump(); n != 3 {
		t.Fatalf("expected 3 callbacks, got %d", n)
	}
	for i, v := range order {
		if v != i {
			t.Errorf("callback %d ran at position %d", v, i)
		}
	}
}

func TestQueueSchedulerDefersRequestsDuringPump(t *testing.T) {
	s := NewQueueScheduler()
	runs := 0
	var loop func()
	loop = func() {
		runs++
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)

	for i := 1; i <= 3; i++ {
		s.Pump()
		if runs != i {
			t.Fatalf("pump %d: expected %d runs, got %d", i, i, runs)
		}
		if s.Pending() != 1 {
			t.Fatalf("pump %d: expected 1 pending, got %d", i, s.Pending())
		}
	}
}

func TestQueueSchedulerEmptyPump(t *testing.T) {
	s := NewQueueScheduler()
	if n := s.Pump(); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestQueueSchedulerConcurrentPumps(t *testing.T) {
	const requesters = 4
	const perRequester = 500

	s := NewQueueScheduler()
	var ran atomic.Int64
	var done atomic.Bool

	var pumps sync.WaitGroup
	var pumped atomic.Int64
	for i := 0; i < 3; i++ {
		pumps.Add(1)
		go func() {
			defer pumps.Done()
			for !done.Load() {
				pumped.Add(int64(s.Pump()))
			}
		}()
	}

	var reqs sync.WaitGroup
	for i := 0; i < requesters; i++ {
		reqs.Add(1)
		go func() {
			defer reqs.Done()
			for j := 0; j < perRequester; j++ {
				s.RequestFrame(func() { ran.Add(1) })
			}
		}()
	}
	reqs.Wait()
	done.Store(true)
	pumps.Wait()

	for s.Pending() > 0 {
		pumped.Add(int64(s.Pump()))
	}

	total := int64(requesters * perRequester)
	if got := ran.Load(); got != total {
		t.Errorf("expected %d callbacks to run, got %d", total, got)
	}
	if got := pumped.Load(); got != total {
		t.Errorf("pumps reported %d callbacks, expected %d", got, total)
	}
}
