// Package markov builds word-level n-gram chains from a corpus of
// social media posts and generates new posts from them.
package markov

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Lines shorter than this after cleaning carry too little context to
// be worth training on.
const minLineChars = 10

var (
	urlPattern     = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*://\S+`)
	mentionPattern = regexp.MustCompile(`@[A-Za-z0-9._-]+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Chain maps a key of order consecutive words to the bag of words
// observed immediately after that key anywhere in the corpus. Repeated
// successors are kept, so a uniform draw over a bag reproduces the
// empirical next-word frequency.
type Chain struct {
	order int
	next  map[string][]string
}

// Build constructs a chain of the given order from newline-separated
// post text, one post per line. order must be at least 1.
//
// Each line is cleaned before tokenization: URLs and @-mentions are
// stripped and whitespace runs collapsed. Lines left too short, or
// with too few words to form a key plus a successor, contribute
// nothing. A corpus where no line survives yields a chain with zero
// keys; Generate handles that case.
func Build(corpusText string, order int) *Chain {
	if order < 1 {
		panic("markov: order must be at least 1")
	}

	c := &Chain{
		order: order,
		next:  make(map[string][]string),
	}

	for _, line := range strings.Split(corpusText, "\n") {
		line = CleanLine(line)
		if line == "" {
			continue
		}

		words := strings.Split(line, " ")
		if len(words) <= order {
			continue
		}

		for i := 0; i+order < len(words); i++ {
			key := strings.Join(words[i:i+order], " ")
			c.next[key] = append(c.next[key], words[i+order])
		}
	}

	return c
}

// Order returns the n-gram order the chain was built with.
func (c *Chain) Order() int { return c.order }

// Len returns the number of distinct keys in the chain.
func (c *Chain) Len() int { return len(c.next) }

// keys returns all keys in sorted order, so that generation with a
// scripted random source is reproducible.
func (c *Chain) keys() []string {
	ks := make([]string, 0, len(c.next))
	for k := range c.next {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// CleanLine strips URL-like and mention-like tokens from a single
// post, collapses whitespace, and trims. It returns the empty string
// for lines not worth training on.
func CleanLine(line string) string {
	line = urlPattern.ReplaceAllString(line, "")
	line = mentionPattern.ReplaceAllString(line, "")
	line = spacePattern.ReplaceAllString(line, " ")
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) < minLineChars {
		return ""
	}
	return line
}
