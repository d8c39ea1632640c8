// Package domain defines the core kiosk types and interfaces.
//
// Concept-oriented files (screen.go, session.go, event.go, content.go, view.go, errors.go)
// hold shared value types and the contracts between the controller, the session store and
// the presentation bridge. No implementation code - just contracts.
package domain
