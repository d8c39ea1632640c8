package kiosk

import (
	"errors"

	"github.com/pscheid92/memorytrail/internal/domain"
)

// CountdownStart is the value the end-of-visit countdown starts from.
const CountdownStart = 10

// Misuse reasons. An event that yields one of these leaves the kiosk untouched.
var (
	ErrNoTransition     = errors.New("event has no transition from the current screen")
	ErrInvalidSelection = errors.New("value is not one of the displayed options")
	ErrNotReady         = errors.New("continuation is not enabled yet")
)

// Effect is the Session Store command a transition issues.
type Effect int

const (
	EffectNone Effect = iota
	EffectBeginSession
	EffectSetSchool
	EffectRecordAnswer
	EffectStartCountdown
	EffectCountdown
	EffectClearSession
)

func (e Effect) String() string {
	switch e {
	case EffectBeginSession:
		return "begin_session"
	case EffectSetSchool:
		return "set_school"
	case EffectRecordAnswer:
		return "record_answer"
	case EffectStartCountdown:
		return "start_countdown"
	case EffectCountdown:
		return "countdown"
	case EffectClearSession:
		return "clear_session"
	default:
		return "none"
	}
}

// State is what the transition function needs to know about the kiosk.
type State struct {
	Screen         domain.Screen
	Countdown      int
	SchoolSelected bool
}

// Initial is the state after process start.
func Initial() State {
	return State{Screen: domain.ScreenIdle, Countdown: CountdownStart}
}

// Step is the outcome of a legal transition.
type Step struct {
	To        domain.Screen
	Effect    Effect
	Countdown int
}

// Next evaluates the transition table. It never mutates anything; a non-nil
// error means the event is Misuse and must be ignored.
func Next(s State, ev domain.Event, c domain.Content) (Step, error) {
	stay := Step{To: s.Screen, Countdown: s.Countdown}

	switch s.Screen {
	case domain.ScreenIdle:
		if ev.Type == domain.EventTapBegin {
			return Step{To: domain.ScreenScan, Effect: EffectBeginSession, Countdown: s.Countdown}, nil
		}

	case domain.ScreenScan:
		if ev.Type == domain.EventScanComplete {
			return Step{To: domain.ScreenWelcome, Countdown: s.Countdown}, nil
		}

	case domain.ScreenWelcome:
		switch ev.Type {
		case domain.EventSelectSchool:
			if !c.HasSchool(ev.Value) {
				return Step{}, ErrInvalidSelection
			}
			stay.Effect = EffectSetSchool
			return stay, nil
		case domain.EventConfirmContinue:
			if !s.SchoolSelected {
				return Step{}, ErrNotReady
			}
			return Step{To: domain.ScreenQuiz, Countdown: s.Countdown}, nil
		}

	case domain.ScreenQuiz:
		if ev.Type == domain.EventSubmitAnswer {
			if !c.Quiz.HasOption(ev.Value) {
				return Step{}, ErrInvalidSelection
			}
			return Step{To: domain.ScreenResult, Effect: EffectRecordAnswer, Countdown: s.Countdown}, nil
		}

	case domain.ScreenResult:
		if ev.Type == domain.EventConfirmContinue {
			return Step{To: domain.ScreenReward, Countdown: s.Countdown}, nil
		}

	case domain.ScreenReward:
		if ev.Type == domain.EventConfirmEnd {
			return Step{To: domain.ScreenEnd, Effect: EffectStartCountdown, Countdown: CountdownStart}, nil
		}

	case domain.ScreenEnd:
		if ev.Type == domain.EventCountdownTick {
			if s.Countdown > 1 {
				stay.Effect = EffectCountdown
				stay.Countdown = s.Countdown - 1
				return stay, nil
			}
			return Step{To: domain.ScreenIdle, Effect: EffectClearSession, Countdown: CountdownStart}, nil
		}
	}

	return Step{}, ErrNoTransition
}

// Fold applies events from Initial and returns the final state. Rejected
// events are skipped, the same way the controller ignores them.
func Fold(events []domain.Event, c domain.Content) State {
	s := Initial()
	for _, ev := range events {
		step, err := Next(s, ev, c)
		if err != nil {
			continue
		}
		s = advance(s, step)
	}
	return s
}

func advance(s State, step Step) State {
	switch step.Effect {
	case EffectBeginSession, EffectClearSession:
		s.SchoolSelected = false
	case EffectSetSchool:
		s.SchoolSelected = true
	}
	s.Screen = step.To
	s.Countdown = step.Countdown
	return s
}

func misuseReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	default:
		return "no_transition"
	}
}
