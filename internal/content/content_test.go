package content

import (
	"testing"

	"github.com/pscheid92/memorytrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	c := Default()

	require.NoError(t, Validate(c))
	assert.Len(t, c.Schools, 7)
	assert.Contains(t, c.Schools, "School of ICT")
	assert.Equal(t, []string{"1963", "1968", "1982", "1975"}, c.Quiz.Options)
	assert.Equal(t, "1963", c.Quiz.CorrectAnswer)
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Schools[0] = "tampered"
	a.Quiz.Options[0] = "tampered"

	b := Default()
	assert.Equal(t, "School of ICT", b.Schools[0])
	assert.Equal(t, "1963", b.Quiz.Options[0])
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *domain.Content)
		wantErr string
	}{
		{"no schools", func(c *domain.Content) { c.Schools = nil }, "at least one school is required"},
		{"duplicate school", func(c *domain.Content) { c.Schools = []string{"A", "A"} }, `duplicate school "A"`},
		{"empty school", func(c *domain.Content) { c.Schools = []string{""} }, "empty school label"},
		{"no question", func(c *domain.Content) { c.Quiz.Question = "" }, "quiz question is required"},
		{"one option", func(c *domain.Content) { c.Quiz.Options = []string{"1963"} }, "quiz needs at least two options"},
		{"answer not offered", func(c *domain.Content) { c.Quiz.CorrectAnswer = "2000" }, `correct answer "2000" is not one of the options`},
		{"missing explanation", func(c *domain.Content) { c.Quiz.ExplanationWrong = "" }, "both quiz explanations are required"},
		{"missing badge", func(c *domain.Content) { c.Reward.Badge = "" }, "reward needs an unlock and a badge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)

			err := Validate(c)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestPublicView_OmitsAnswerKey(t *testing.T) {
	pub := PublicView(Default())

	assert.Equal(t, "In what year was Ngee Ann Polytechnic established?", pub.Question)
	assert.Len(t, pub.Options, 4)
	assert.Len(t, pub.PrivacyNotice, 5)
	assert.Equal(t, "Memory Photobooth", pub.Reward.Unlock)
	assert.Equal(t, "History Explorer", pub.Reward.Badge)
}
