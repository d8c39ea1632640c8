// Package content holds the compiled-in exhibit configuration: the school
// list, the quiz and the privacy notice shown by the kiosk.
package content

import (
	"errors"
	"fmt"

	"github.com/pscheid92/memorytrail/internal/domain"
)

var schools = []string{
	"School of ICT",
	"School of Business & Accountancy",
	"School of Design & Environment",
	"School of Engineering",
	"School of Health Sciences",
	"School of Humanities & Social Sciences",
	"School of Life Sciences & Chemical Technology",
}

var quiz = domain.Quiz{
	Question:      "In what year was Ngee Ann Polytechnic established?",
	Options:       []string{"1963", "1968", "1982", "1975"},
	CorrectAnswer: "1963",
	ExplanationCorrect: "That's right! NP was founded in 1963 as Ngee Ann College, making it one of " +
		"Singapore's pioneer polytechnics. It was named after philanthropist Ngee Ann Kongsi.",
	ExplanationWrong: "The correct answer is 1963! NP was founded as Ngee Ann College, named after the " +
		"philanthropist Ngee Ann Kongsi. It later became Ngee Ann Technical College before becoming " +
		"a polytechnic in 1982.",
}

var reward = domain.Reward{
	Headline: "Congratulations!",
	Message:  "You've unlocked a special reward",
	Unlock:   "Memory Photobooth",
	Badge:    "History Explorer",
}

var privacyNotice = []string{
	"No names, student IDs, or identifiable information is stored",
	"Only your selected school and quiz answers are temporarily held in memory",
	"A random session token is created for your visit (not linked to your identity)",
	"All data is automatically cleared when your session ends",
	"Nothing is saved to any database or sent to any server",
}

// Default returns a fresh copy of the exhibit content. Callers may not
// mutate the shared tables through the returned value.
func Default() domain.Content {
	q := quiz
	q.Options = append([]string(nil), quiz.Options...)
	return domain.Content{
		Schools:       append([]string(nil), schools...),
		Quiz:          q,
		Reward:        reward,
		PrivacyNotice: append([]string(nil), privacyNotice...),
	}
}

// Validate checks that c can drive a visit from start to finish.
func Validate(c domain.Content) error {
	if len(c.Schools) == 0 {
		return errors.New("at least one school is required")
	}
	if err := unique("school", c.Schools); err != nil {
		return err
	}
	if c.Quiz.Question == "" {
		return errors.New("quiz question is required")
	}
	if len(c.Quiz.Options) < 2 {
		return errors.New("quiz needs at least two options")
	}
	if err := unique("quiz option", c.Quiz.Options); err != nil {
		return err
	}
	if !c.Quiz.HasOption(c.Quiz.CorrectAnswer) {
		return fmt.Errorf("correct answer %q is not one of the options", c.Quiz.CorrectAnswer)
	}
	if c.Quiz.ExplanationCorrect == "" || c.Quiz.ExplanationWrong == "" {
		return errors.New("both quiz explanations are required")
	}
	if c.Reward.Unlock == "" || c.Reward.Badge == "" {
		return errors.New("reward needs an unlock and a badge")
	}
	return nil
}

func unique(kind string, values []string) error {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("empty %s label", kind)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("duplicate %s %q", kind, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// Public is the subset of content the presentation layer may render before
// an answer is submitted. The correct label is deliberately absent.
type Public struct {
	Schools       []string      `json:"schools"`
	Question      string        `json:"question"`
	Options       []string      `json:"options"`
	Reward        domain.Reward `json:"reward"`
	PrivacyNotice []string      `json:"privacy_notice"`
}

// PublicView strips the answer key from c.
func PublicView(c domain.Content) Public {
	return Public{
		Schools:       append([]string(nil), c.Schools...),
		Question:      c.Quiz.Question,
		Options:       append([]string(nil), c.Quiz.Options...),
		Reward:        c.Reward,
		PrivacyNotice: append([]string(nil), c.PrivacyNotice...),
	}
}
