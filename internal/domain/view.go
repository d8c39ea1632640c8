package domain

// View is the read-only observation surface handed to the presentation layer.
type View struct {
	Screen      Screen  `json:"screen"`
	Session     Session `json:"session"`
	Countdown   int     `json:"countdown,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
	CanContinue bool    `json:"can_continue"`
}
