package domain

// EventType names an input to the screen controller.
type EventType string

// Inbound events, emitted by the presentation layer.
const (
	EventTapBegin        EventType = "tap_begin"
	EventSelectSchool    EventType = "select_school"
	EventConfirmContinue EventType = "confirm_continue"
	EventSubmitAnswer    EventType = "submit_answer"
	EventConfirmEnd      EventType = "confirm_end"
)

// Timer events, raised only by the controller's own scheduled tasks.
const (
	EventScanComplete  EventType = "scan_complete"
	EventCountdownTick EventType = "countdown_tick"
)

// Inbound reports whether the presentation layer may emit this event.
func (t EventType) Inbound() bool {
	switch t {
	case EventTapBegin, EventSelectSchool, EventConfirmContinue, EventSubmitAnswer, EventConfirmEnd:
		return true
	}
	return false
}

// Event is a single input to the controller. Value carries the school label
// for EventSelectSchool and the option label for EventSubmitAnswer.
type Event struct {
	Type  EventType `json:"type"`
	Value string    `json:"value,omitempty"`
}

func TapBegin() Event { return Event{Type: EventTapBegin} }

func SelectSchool(name string) Event { return Event{Type: EventSelectSchool, Value: name} }

func ConfirmContinue() Event { return Event{Type: EventConfirmContinue} }

func SubmitAnswer(label string) Event { return Event{Type: EventSubmitAnswer, Value: label} }

func ConfirmEnd() Event { return Event{Type: EventConfirmEnd} }
