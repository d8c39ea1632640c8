package domain

import "slices"

// Quiz is the single read-only question shown on the quiz screen.
type Quiz struct {
	Question           string
	Options            []string
	CorrectAnswer      string
	ExplanationCorrect string
	ExplanationWrong   string
}

// IsCorrect compares answer to the correct label by exact string equality.
func (q Quiz) IsCorrect(answer string) bool { return answer == q.CorrectAnswer }

// HasOption reports whether label is one of the displayed options.
func (q Quiz) HasOption(label string) bool { return slices.Contains(q.Options, label) }

// Explanation returns the text matching the outcome.
func (q Quiz) Explanation(correct bool) string {
	if correct {
		return q.ExplanationCorrect
	}
	return q.ExplanationWrong
}

// Reward is what every visitor unlocks on the reward screen, whatever their
// answer was.
type Reward struct {
	Headline string `json:"headline"`
	Message  string `json:"message"`
	Unlock   string `json:"unlock"`
	Badge    string `json:"badge"`
}

// Content is the static configuration consumed by the kiosk. It is supplied
// at process start and never mutated afterwards.
type Content struct {
	Schools       []string
	Quiz          Quiz
	Reward        Reward
	PrivacyNotice []string
}

// HasSchool reports whether name is one of the configured schools.
func (c Content) HasSchool(name string) bool { return slices.Contains(c.Schools, name) }
