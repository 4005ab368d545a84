package markov

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	t.Run("Should count posts, words and characters", func(t *testing.T) {
		s := Analyze("one two three\nfour five\n\n")

		assert.Equal(t, 2, s.Posts)
		assert.Equal(t, 5, s.Words)
		assert.Equal(t, 3, s.AvgWordsPerPost, "2.5 rounds up")
		assert.Equal(t, 22, s.Chars)
	})

	t.Run("Should return zeroes for an empty corpus", func(t *testing.T) {
		assert.Zero(t, Analyze(""))
		assert.Zero(t, Analyze("\n \n\t\n"))
	})

	t.Run("Should count characters in runes not bytes", func(t *testing.T) {
		s := Analyze("héllo wörld")

		assert.Equal(t, 11, s.Chars)
	})
}
