package client

import (
	"testing"
	"time"
)

func TestCountdownFiresExactlyOnce(t *testing.T) {
	finishes := 0
	timer := NewCountdown(300*time.Second, nil, func() { finishes++ })

	for i := 0; i < 300; i++ {
		timer.Tick()
	}
	if finishes != 1 {
		t.Fatalf("expected finish fired exactly once after 300 ticks, got %d", finishes)
	}
	if timer.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", timer.Remaining())
	}

	timer.Tick() // tick 301
	if finishes != 1 {
		t.Fatalf("expected no second finish on tick 301, got %d", finishes)
	}
}

func TestCountdownEndsQuizSession(t *testing.T) {
	session := NewSessionStore("tq", NewMemoryProgressStore())
	if err := session.Initialize("u1", "tut-1"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	session.SetQuestions(threeQuestions())

	timer := NewCountdown(3*time.Second, session.QuizOver, func() { _ = session.FinishQuiz() })
	for i := 0; i < 3; i++ {
		timer.Tick()
	}
	if !session.QuizOver() {
		t.Fatalf("expected quiz over after countdown expiry")
	}
}

func TestCountdownInertWhenSessionAlreadyOver(t *testing.T) {
	finishes := 0
	timer := NewCountdown(2*time.Second, func() bool { return true }, func() { finishes++ })

	timer.Tick()
	timer.Tick()
	timer.Tick()
	if finishes != 0 {
		t.Fatalf("expected no finish while session already over, got %d", finishes)
	}
	if timer.Remaining() != 2 {
		t.Fatalf("expected remaining untouched, got %d", timer.Remaining())
	}
}

func TestCountdownStopDisarms(t *testing.T) {
	finishes := 0
	timer := NewCountdown(1*time.Second, nil, func() { finishes++ })

	timer.Stop()
	timer.Tick()
	if finishes != 0 {
		t.Fatalf("expected stopped countdown to never finish, got %d", finishes)
	}
}
