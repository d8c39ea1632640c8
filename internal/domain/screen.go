package domain

// Screen is the single step of the visit flow currently shown on the kiosk.
type Screen string

const (
	ScreenIdle    Screen = "idle"
	ScreenScan    Screen = "scan"
	ScreenWelcome Screen = "welcome"
	ScreenQuiz    Screen = "quiz"
	ScreenResult  Screen = "result"
	ScreenReward  Screen = "reward"
	ScreenEnd     Screen = "end"
)

// Screens lists every screen in flow order.
var Screens = []Screen{
	ScreenIdle,
	ScreenScan,
	ScreenWelcome,
	ScreenQuiz,
	ScreenResult,
	ScreenReward,
	ScreenEnd,
}

func (s Screen) String() string { return string(s) }

