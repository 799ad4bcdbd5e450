package core

import (
	"math"
	"testing"
	"time"
)

func TestFixedTimer(t *testing.T) {
	timer := NewFixedTimer(4)
	if timer.Elapsed() != 0 || timer.Total() != 0 {
		t.Fatalf("Fresh timer should read zero, got %f/%f", timer.Elapsed(), timer.Total())
	}

	for i := 0; i < 3; i++ {
		timer.Tick()
	}
	if math.Abs(timer.Elapsed()-0.25) > 1e-12 {
		t.Errorf("Elapsed = %f, want 0.25", timer.Elapsed())
	}
	if math.Abs(timer.Total()-0.75) > 1e-12 {
		t.Errorf("Total = %f, want 0.75", timer.Total())
	}

	if NewFixedTimer(0).Step <= 0 {
		t.Error("Non-positive fps should fall back to a default step")
	}
}

func TestClockTimer(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	timer := newClockTimer(func() time.Time { return now })

	now = base.Add(500 * time.Millisecond)
	timer.Tick()
	now = base.Add(2 * time.Second)
	timer.Tick()

	if math.Abs(timer.Elapsed()-1.5) > 1e-9 {
		t.Errorf("Elapsed = %f, want 1.5", timer.Elapsed())
	}
	if math.Abs(timer.Total()-2) > 1e-9 {
		t.Errorf("Total = %f, want 2", timer.Total())
	}
}
