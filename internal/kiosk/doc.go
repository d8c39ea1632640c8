// Package kiosk implements the screen controller for the exhibit.
//
// flow.go is the transition table as a pure function. Controller owns the current screen and drives
// it with a single goroutine reading a command channel (no mutexes): inbound events, timer fires,
// view queries and subscriptions are all serialized through it. The scan delay and the end countdown
// are clockwork timers tied to the screen they were scheduled for; a fire that no longer matches the
// active screen is dropped.
package kiosk
