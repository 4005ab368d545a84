package markov

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// InsufficientData is returned by Generate when the chain has no keys.
// Callers must never publish it.
const InsufficientData = "(not enough source material to generate a post)"

const (
	// DefaultMaxLength matches the usual social post ceiling.
	DefaultMaxLength = 280
	// DefaultMaxAttempts bounds duplicate-avoidance retries.
	DefaultMaxAttempts = 10

	// A walk may stop at sentence punctuation once the result is past
	// earlyStopLen. Results past truncateLen that never hit sentence
	// punctuation are cut back to a boundary within the last
	// truncateWords words, if one exists.
	earlyStopLen  = 50
	truncateLen   = 100
	truncateWords = 10
)

// Options control a single generation run. The zero value uses the
// defaults and the global random source.
type Options struct {
	MaxLength   int
	MaxAttempts int
	Rand        Rand
}

func (o Options) withDefaults() Options {
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Rand == nil {
		o.Rand = DefaultRand()
	}
	return o
}

// Generate walks the chain to produce one post. The second return
// reports whether the post is distinct from every line of
// originalLines; when the attempt budget runs out the last candidate
// is returned with false, so callers needing uniqueness must check it.
func (c *Chain) Generate(originalLines []string, opts Options) (string, bool) {
	if len(c.next) == 0 {
		return InsufficientData, false
	}
	opts = opts.withDefaults()

	keys := c.keys()

	// Keys starting with an uppercase letter tend to begin sentences.
	starters := make([]string, 0, len(keys))
	for _, k := range keys {
		r, _ := utf8.DecodeRuneInString(k)
		if unicode.IsUpper(r) {
			starters = append(starters, k)
		}
	}
	if len(starters) == 0 {
		starters = keys
	}

	var result string
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		result = c.walk(starters, opts)
		if !isDuplicate(result, originalLines) {
			return result, true
		}
	}
	return result, false
}

func (c *Chain) walk(starters []string, opts Options) string {
	key := starters[opts.Rand.Intn(len(starters))]
	result := key

	for len(result) < opts.MaxLength {
		successors := c.next[key]
		if len(successors) == 0 {
			break
		}

		word := successors[opts.Rand.Intn(len(successors))]
		result += " " + word

		words := strings.Split(result, " ")
		if len(words) < c.order {
			break
		}
		key = strings.Join(words[len(words)-c.order:], " ")

		if endsSentence(word) && len(result) > earlyStopLen {
			break
		}
	}

	return truncateAtSentence(strings.TrimSpace(result))
}

// truncateAtSentence cuts an over-long result that trails off
// mid-sentence back to the last sentence boundary among its final
// words, if there is one.
func truncateAtSentence(s string) string {
	if endsSentence(s) || len(s) <= truncateLen {
		return s
	}
	words := strings.Split(s, " ")
	for i, n := len(words)-1, 0; i >= 0 && n < truncateWords; i, n = i-1, n+1 {
		if endsSentence(words[i]) {
			return strings.Join(words[:i+1], " ")
		}
	}
	return s
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func isDuplicate(result string, lines []string) bool {
	for _, line := range lines {
		if strings.EqualFold(result, strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}
