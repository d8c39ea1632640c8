package domain

// Session is the ephemeral record of one visit. Empty strings and a nil
// IsCorrect mean "absent".
type Session struct {
	Token      string `json:"token,omitempty"`
	School     string `json:"school,omitempty"`
	QuizAnswer string `json:"quiz_answer,omitempty"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

// Active reports whether a visit is in progress.
func (s Session) Active() bool { return s.Token != "" }

// Empty reports whether every field is absent.
func (s Session) Empty() bool {
	return s.Token == "" && s.School == "" && s.QuizAnswer == "" && s.IsCorrect == nil
}

// Answered reports whether the quiz answer has been recorded.
func (s Session) Answered() bool { return s.IsCorrect != nil }

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	out := s
	if s.IsCorrect != nil {
		v := *s.IsCorrect
		out.IsCorrect = &v
	}
	return out
}

// SessionStore holds at most one visit at a time and never persists it.
type SessionStore interface {
	Begin() Session
	SetSchool(school string) error
	RecordAnswer(answer string) error
	Clear()
	Current() Session
}
