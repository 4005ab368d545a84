package markov

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Stats are descriptive statistics over a corpus, for logging and the
// stats command. Diagnostic only; nothing downstream depends on them.
type Stats struct {
	Posts           int
	Words           int
	AvgWordsPerPost int
	Chars           int
}

// Analyze computes Stats for a newline-separated corpus. An empty
// corpus yields the zero Stats rather than a division by zero.
func Analyze(corpusText string) Stats {
	var s Stats
	for _, line := range strings.Split(corpusText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.Posts++
		s.Words += len(strings.Fields(line))
		s.Chars += utf8.RuneCountInString(line)
	}
	if s.Posts > 0 {
		s.AvgWordsPerPost = int(math.Round(float64(s.Words) / float64(s.Posts)))
	}
	return s
}
