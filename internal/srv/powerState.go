package srv

import "time"

type PowerMode int

const (
	BRIGHT_POWER_MODE PowerMode = iota
	DIMMED_POWER_MODE
)

func (m PowerMode) String() string {
	if m == DIMMED_POWER_MODE {
		return "dimmed"
	}
	return "bright"
}

// PowerState dims the panels after an idle timeout. Dimming happens through
// elapsed-time observation only; waking happens through an activity event
// only, never by elapsed time.
type PowerState struct {
	mode           PowerMode
	lastActivityAt time.Time
	dimTimeout     time.Duration

	mainDuty   int64
	sideDuty   int64
	dimPercent int64
}

func NewPowerState(mainDuty, sideDuty, dimPercent int64, dimTimeout time.Duration, now time.Time) *PowerState {
	return &PowerState{
		mode:           BRIGHT_POWER_MODE,
		lastActivityAt: now,
		dimTimeout:     dimTimeout,
		mainDuty:       mainDuty,
		sideDuty:       sideDuty,
		dimPercent:     dimPercent,
	}
}

func (ps *PowerState) Mode() PowerMode {
	return ps.mode
}

// Observe applies the idle transition. Reports whether the panels just
// dimmed.
func (ps *PowerState) Observe(now time.Time) bool {
	if ps.mode == BRIGHT_POWER_MODE && now.Sub(ps.lastActivityAt) >= ps.dimTimeout {
		ps.mode = DIMMED_POWER_MODE
		return true
	}
	return false
}

// RecordActivity resets the idle timer. Reports whether the panels just woke
// from dimmed, in which case full brightness must be restored immediately.
func (ps *PowerState) RecordActivity(now time.Time) bool {
	ps.lastActivityAt = now
	if ps.mode == DIMMED_POWER_MODE {
		ps.mode = BRIGHT_POWER_MODE
		return true
	}
	return false
}

// Duties yields the backlight duty cycles for the main and the side panels
// under the current mode. Dimmed duties are a fixed fraction of the normal
// ones, floored to an integer.
func (ps *PowerState) Duties() (int64, int64) {
	if ps.mode == DIMMED_POWER_MODE {
		return ps.mainDuty * ps.dimPercent / 100, ps.sideDuty * ps.dimPercent / 100
	}
	return ps.mainDuty, ps.sideDuty
}
