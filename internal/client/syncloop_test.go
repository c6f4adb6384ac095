package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"tutorial-quiz-service/internal/domain"
)

type fetchRecorder struct {
	mu      sync.Mutex
	fetches int
	applied []domain.UserPreferences
}

func (r *fetchRecorder) fetch(context.Context) (domain.UserPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	return domain.DefaultPreferences(), nil
}

func (r *fetchRecorder) apply(p domain.UserPreferences) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, p)
}

func (r *fetchRecorder) fetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

func (r *fetchRecorder) appliedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSyncLoopMountTriggersFetch(t *testing.T) {
	rec := &fetchRecorder{}
	loop := NewSyncLoop(SyncLoopConfig{
		Fetch:        rec.fetch,
		Apply:        rec.apply,
		PollInterval: time.Hour,
		Debounce:     10 * time.Millisecond,
	})
	loop.Start()
	defer loop.Stop()

	waitFor(t, "mount fetch", func() bool { return rec.fetchCount() == 1 })
	waitFor(t, "apply", func() bool { return rec.appliedCount() == 1 })
}

func TestSyncLoopDebounceCollapsesBursts(t *testing.T) {
	rec := &fetchRecorder{}
	loop := NewSyncLoop(SyncLoopConfig{
		Fetch:        rec.fetch,
		Apply:        rec.apply,
		PollInterval: time.Hour,
		Debounce:     50 * time.Millisecond,
	})
	loop.Start()
	defer loop.Stop()
	waitFor(t, "mount fetch", func() bool { return rec.fetchCount() == 1 })

	loop.OnMessage(PreferenceUpdatedMessage)
	loop.OnMessage(PreferenceUpdatedMessage)
	loop.OnMessage(PreferenceUpdatedMessage)

	waitFor(t, "debounced fetch", func() bool { return rec.fetchCount() == 2 })
	time.Sleep(150 * time.Millisecond)
	if got := rec.fetchCount(); got != 2 {
		t.Fatalf("expected burst collapsed into one fetch, got %d total", got)
	}
}

func TestSyncLoopIgnoresUnknownMessages(t *testing.T) {
	rec := &fetchRecorder{}
	loop := NewSyncLoop(SyncLoopConfig{
		Fetch:        rec.fetch,
		Apply:        rec.apply,
		PollInterval: time.Hour,
		Debounce:     10 * time.Millisecond,
	})
	loop.Start()
	defer loop.Stop()
	waitFor(t, "mount fetch", func() bool { return rec.fetchCount() == 1 })

	loop.OnMessage("chat-message")
	time.Sleep(100 * time.Millisecond)
	if got := rec.fetchCount(); got != 1 {
		t.Fatalf("expected unknown message ignored, got %d fetches", got)
	}
}

func TestSyncLoopPollingStopsWhileBlurred(t *testing.T) {
	rec := &fetchRecorder{}
	loop := NewSyncLoop(SyncLoopConfig{
		Fetch:        rec.fetch,
		Apply:        rec.apply,
		PollInterval: 25 * time.Millisecond,
		Debounce:     5 * time.Millisecond,
	})
	loop.Start()
	defer loop.Stop()
	waitFor(t, "mount fetch", func() bool { return rec.fetchCount() >= 1 })

	loop.OnBlur()
	time.Sleep(50 * time.Millisecond) // drain any already-armed debounce
	blurred := rec.fetchCount()
	time.Sleep(150 * time.Millisecond)
	if got := rec.fetchCount(); got != blurred {
		t.Fatalf("expected no polling while blurred, count went %d -> %d", blurred, got)
	}

	loop.OnFocus()
	waitFor(t, "refocus fetch", func() bool { return rec.fetchCount() > blurred })
}

func TestSyncLoopSuspendedWhileQuizInProgress(t *testing.T) {
	rec := &fetchRecorder{}
	loop := NewSyncLoop(SyncLoopConfig{
		Fetch:        rec.fetch,
		Apply:        rec.apply,
		Suspended:    func() bool { return true },
		PollInterval: 20 * time.Millisecond,
		Debounce:     5 * time.Millisecond,
	})
	loop.Start()
	defer loop.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := rec.fetchCount(); got != 0 {
		t.Fatalf("expected refetches suppressed mid-quiz, got %d", got)
	}
}

func TestSyncLoopDropsStaleResponses(t *testing.T) {
	stale := domain.UserPreferences{Theme: domain.ThemeLight, FontSize: domain.FontSizeSmall, FontStyle: domain.FontStyleSerif, LayoutWidth: domain.LayoutWidthStandard}
	fresh := domain.UserPreferences{Theme: domain.ThemeDark, FontSize: domain.FontSizeLarge, FontStyle: domain.FontStyleMono, LayoutWidth: domain.LayoutWidthFullWidth}

	var mu sync.Mutex
	calls := 0
	var applied []domain.UserPreferences
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	loop := NewSyncLoop(SyncLoopConfig{
		Fetch: func(context.Context) (domain.UserPreferences, error) {
			mu.Lock()
			calls++
			call := calls
			mu.Unlock()
			if call == 1 {
				close(firstStarted)
				<-releaseFirst
				return stale, nil
			}
			return fresh, nil
		},
		Apply: func(p domain.UserPreferences) {
			mu.Lock()
			applied = append(applied, p)
			mu.Unlock()
		},
		PollInterval: time.Hour,
		Debounce:     10 * time.Millisecond,
	})
	loop.Start()
	defer loop.Stop()

	<-firstStarted // first fetch is in flight
	loop.OnMessage(PreferenceUpdatedMessage)
	waitFor(t, "fresh response applied", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) == 1 && applied[0] == fresh
	})

	close(releaseFirst) // stale response arrives after the fresh one
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != fresh {
		t.Fatalf("expected stale response dropped, applied=%+v", applied)
	}
}
