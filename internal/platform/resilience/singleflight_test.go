package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		val, err, shared := g.Do("events:42", func() (any, error) {
			executions.Add(1)
			close(started)
			<-release
			return "rows", nil
		})
		if err != nil {
			t.Errorf("leader: unexpected error: %v", err)
		}
		if val != "rows" {
			t.Errorf("leader: unexpected value: %v", val)
		}
		if shared {
			t.Error("leader result must not be shared")
		}
	}()

	// The leader is parked inside fn before any follower calls Do.
	<-started

	const followers = 4
	var sharedCount atomic.Int32
	entered := make(chan struct{}, followers)
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entered <- struct{}{}
			val, err, shared := g.Do("events:42", func() (any, error) {
				executions.Add(1)
				return "rows", nil
			})
			if err != nil {
				t.Errorf("follower: unexpected error: %v", err)
			}
			if val != "rows" {
				t.Errorf("follower: unexpected value: %v", val)
			}
			if shared {
				sharedCount.Add(1)
			}
		}()
	}

	// Release only after every follower has reached its Do call and had time
	// to park on the in-flight leader.
	for i := 0; i < followers; i++ {
		<-entered
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
	if got := sharedCount.Load(); got != followers {
		t.Fatalf("expected %d shared results, got %d", followers, got)
	}
}

func TestSingleFlight_NewCallAfterCompletion(t *testing.T) {
	var g SingleFlight
	calls := 0
	fn := func() (any, error) {
		calls++
		return calls, nil
	}

	if v, _, _ := g.Do("k", fn); v != 1 {
		t.Fatalf("unexpected first value: %v", v)
	}
	if v, _, _ := g.Do("k", fn); v != 2 {
		t.Fatalf("key must be released after completion, got %v", v)
	}
}
