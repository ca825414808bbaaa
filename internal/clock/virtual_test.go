package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualClock_AdvanceAndSet(t *testing.T) {
	vc := NewVirtualClock(epoch)
	vc.Advance(90 * time.Second)
	if got, want := vc.Now(), epoch.Add(90*time.Second); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
	if got := vc.Since(epoch); got != 90*time.Second {
		t.Fatalf("Since() = %v, want 90s", got)
	}

	target := epoch.Add(time.Hour)
	vc.Set(target)
	if got := vc.Now(); !got.Equal(target) {
		t.Fatalf("Now() after Set = %v, want %v", got, target)
	}
}

func TestVirtualClock_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(vc *VirtualClock)
	}{
		{"negative advance", func(vc *VirtualClock) { vc.Advance(-time.Second) }},
		{"set into the past", func(vc *VirtualClock) { vc.Set(epoch.Add(-time.Second)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc := NewVirtualClock(epoch)
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn(vc)
		})
	}
}

func TestVirtualClock_After_FiresOnlyAtDeadline(t *testing.T) {
	vc := NewVirtualClock(epoch)
	ch := vc.After(time.Second)

	vc.Advance(999 * time.Millisecond)
	select {
	case <-ch:
		t.Fatal("After() fired before the deadline")
	default:
	}

	vc.Advance(time.Millisecond)
	select {
	case got := <-ch:
		if want := epoch.Add(time.Second); !got.Equal(want) {
			t.Errorf("After() sent %v, want %v", got, want)
		}
	default:
		t.Fatal("After() did not fire at the deadline")
	}
}

func TestVirtualClock_After_ZeroDuration(t *testing.T) {
	vc := NewVirtualClock(epoch)
	select {
	case <-vc.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}
	if vc.Waiters() != 0 {
		t.Errorf("Waiters() = %d, want 0", vc.Waiters())
	}
}

func TestVirtualClock_Waiters(t *testing.T) {
	vc := NewVirtualClock(epoch)
	vc.After(time.Second)
	vc.After(3 * time.Second)
	if got := vc.Waiters(); got != 2 {
		t.Fatalf("Waiters() = %d, want 2", got)
	}

	vc.Advance(2 * time.Second)
	if got := vc.Waiters(); got != 1 {
		t.Fatalf("Waiters() after advance = %d, want 1", got)
	}
}

func TestVirtualClock_NextDeadline(t *testing.T) {
	vc := NewVirtualClock(epoch)
	if _, ok := vc.NextDeadline(); ok {
		t.Fatal("NextDeadline() with no waiters should report false")
	}

	vc.After(3 * time.Second)
	vc.After(time.Second)
	next, ok := vc.NextDeadline()
	if !ok || !next.Equal(epoch.Add(time.Second)) {
		t.Fatalf("NextDeadline() = %v, %v, want %v", next, ok, epoch.Add(time.Second))
	}

	vc.Set(next)
	next, _ = vc.NextDeadline()
	if !next.Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("NextDeadline() after firing = %v, want %v", next, epoch.Add(3*time.Second))
	}
}

func TestVirtualClock_TimerStop(t *testing.T) {
	vc := NewVirtualClock(epoch)
	kept := vc.NewTimer(2 * time.Second)
	dropped := vc.NewTimer(time.Second)
	if got := vc.Waiters(); got != 2 {
		t.Fatalf("Waiters() = %d, want 2", got)
	}

	if !dropped.Stop() {
		t.Fatal("Stop() on a pending timer = false, want true")
	}
	if got := vc.Waiters(); got != 1 {
		t.Fatalf("Waiters() after Stop = %d, want 1", got)
	}
	if next, _ := vc.NextDeadline(); !next.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("NextDeadline() = %v, want %v", next, epoch.Add(2*time.Second))
	}

	vc.Advance(2 * time.Second)
	select {
	case <-kept.C():
	default:
		t.Fatal("kept timer did not fire")
	}
	select {
	case <-dropped.C():
		t.Fatal("stopped timer fired")
	default:
	}
	if kept.Stop() {
		t.Error("Stop() after firing = true, want false")
	}
}

func TestRealClock_TimerStop(t *testing.T) {
	timer := NewRealClock().NewTimer(time.Hour)
	if !timer.Stop() {
		t.Fatal("Stop() on a pending timer = false, want true")
	}
}

func TestVirtualClock_BlockUntil_SecondTicker(t *testing.T) {
	vc := NewVirtualClock(epoch)
	done := make(chan struct{})

	var mu sync.Mutex
	ticks := 0
	go func() {
		for {
			select {
			case <-done:
				return
			case <-vc.After(time.Second):
				mu.Lock()
				ticks++
				mu.Unlock()
			}
		}
	}()

	for i := 0; i < 5; i++ {
		vc.BlockUntil(1)
		vc.Advance(time.Second)
	}
	vc.BlockUntil(1)
	close(done)

	mu.Lock()
	defer mu.Unlock()
	if ticks != 5 {
		t.Errorf("ticks = %d, want 5", ticks)
	}
}

func TestVirtualClock_ConcurrentAccess(t *testing.T) {
	vc := NewVirtualClock(epoch)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = vc.Now()
			_ = vc.Waiters()
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			vc.Advance(time.Millisecond)
		}
	}()
	wg.Wait()

	if got, want := vc.Now(), epoch.Add(100*time.Millisecond); !got.Equal(want) {
		t.Errorf("after concurrent ops, Now() = %v, want %v", got, want)
	}
}

func TestClocks_ImplementClock(t *testing.T) {
	var _ Clock = NewRealClock()
	var _ Clock = NewVirtualClock(time.Now())
}
