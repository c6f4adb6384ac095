package client

import (
	"context"
	"sync"
	"time"

	"tutorial-quiz-service/internal/domain"
)

// PreferenceUpdatedMessage is the cross-window message discriminant that
// triggers a refetch.
const PreferenceUpdatedMessage = "preference-updated"

const (
	defaultPollInterval = 30 * time.Second
	defaultDebounce     = 150 * time.Millisecond
	fetchTimeout        = 10 * time.Second
)

// SyncLoopConfig wires a SyncLoop's collaborators and tuning knobs.
type SyncLoopConfig struct {
	// Fetch retrieves the current preferences.
	Fetch func(ctx context.Context) (domain.UserPreferences, error)
	// Apply receives fetched preferences. Never called with a stale response:
	// a refetch superseded by a newer one is dropped.
	Apply func(domain.UserPreferences)
	// OnError receives fetch failures (optional).
	OnError func(error)
	// Suspended is consulted before every refetch; refetches are skipped
	// while it reports true (quiz mid-session). Optional.
	Suspended func() bool
	// PollInterval and Debounce default to 30s and 150ms.
	PollInterval time.Duration
	Debounce     time.Duration
}

// SyncLoop keeps displayed preferences fresh. One scheduler goroutine owns
// all timers: a poll ticker active only while the tab is focused, and a single
// debounce window that collapses bursts of triggers (mount, focus, cross-
// window messages, poll ticks) into one refetch.
type SyncLoop struct {
	cfg SyncLoopConfig

	events  chan syncEvent
	quit    chan struct{}
	done    chan struct{}
	stop    sync.Once
	started bool

	mu    sync.Mutex
	token uint64
}

type syncEvent int

const (
	evRefresh syncEvent = iota
	evFocus
	evBlur
)

func NewSyncLoop(cfg SyncLoopConfig) *SyncLoop {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	return &SyncLoop{
		cfg:    cfg,
		events: make(chan syncEvent, 16),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the scheduler and schedules the mount refetch.
func (l *SyncLoop) Start() {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.run()
	l.send(evRefresh)
}

// Stop tears down the scheduler: poll ticker, pending debounce, and the
// goroutine all end here. Safe to call more than once.
func (l *SyncLoop) Stop() {
	l.stop.Do(func() { close(l.quit) })
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if started {
		<-l.done
	}
}

// OnFocus resumes polling and schedules a refetch.
func (l *SyncLoop) OnFocus() { l.send(evFocus) }

// OnBlur pauses polling until the next focus.
func (l *SyncLoop) OnBlur() { l.send(evBlur) }

// OnMessage handles a cross-window message; only the recognized discriminant
// schedules a refetch.
func (l *SyncLoop) OnMessage(messageType string) {
	if messageType == PreferenceUpdatedMessage {
		l.send(evRefresh)
	}
}

func (l *SyncLoop) send(ev syncEvent) {
	select {
	case l.events <- ev:
	case <-l.quit:
	}
}

func (l *SyncLoop) run() {
	defer close(l.done)

	focused := true
	poll := time.NewTicker(l.cfg.PollInterval)
	defer poll.Stop()

	var debounce *time.Timer
	var debounceC <-chan time.Time // nil while no refetch is pending
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	schedule := func() {
		if debounceC == nil {
			debounce = time.NewTimer(l.cfg.Debounce)
			debounceC = debounce.C
		}
	}

	for {
		select {
		case <-l.quit:
			return
		case ev := <-l.events:
			switch ev {
			case evFocus:
				if !focused {
					focused = true
					poll.Reset(l.cfg.PollInterval)
					schedule()
				}
			case evBlur:
				focused = false
				poll.Stop()
			case evRefresh:
				schedule()
			}
		case <-poll.C:
			if focused {
				schedule()
			}
		case <-debounceC:
			debounceC = nil
			l.refetch()
		}
	}
}

// refetch launches the network call off the scheduler goroutine so a slow
// response never delays later triggers. The token guard drops out-of-order
// responses.
func (l *SyncLoop) refetch() {
	if l.cfg.Suspended != nil && l.cfg.Suspended() {
		return
	}

	l.mu.Lock()
	l.token++
	token := l.token
	l.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		prefs, err := l.cfg.Fetch(ctx)
		if err != nil {
			if l.cfg.OnError != nil {
				l.cfg.OnError(err)
			}
			return
		}

		l.mu.Lock()
		latest := token == l.token
		l.mu.Unlock()
		if latest {
			l.cfg.Apply(prefs)
		}
	}()
}
