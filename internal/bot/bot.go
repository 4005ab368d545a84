// Package bot wires corpus acquisition, chain building and generation
// into the per-account pipeline the commands drive.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tootmimic/tootmimic/internal/markov"
)

// CorpusSource supplies the newline-joined post history for a source
// account. Source implements it in production; tests use fakes.
type CorpusSource interface {
	Corpus(ctx context.Context, acct string) (string, error)
}

// Publisher posts generated text somewhere.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// Options control one generation run for one account.
type Options struct {
	// Order fixes the n-gram order; 0 draws a fresh one per post.
	Order       int
	Count       int
	MaxLength   int
	MaxAttempts int
	Rand        markov.Rand
}

// Post is one generated candidate. Unique is false when the
// duplicate-avoidance budget ran out and the text may replay the
// source verbatim.
type Post struct {
	Text   string
	Order  int
	Unique bool
}

type Bot struct {
	source CorpusSource
	log    *log.Logger
}

func New(source CorpusSource, logger *log.Logger) *Bot {
	return &Bot{source: source, log: logger}
}

// Generate builds chains from acct's history and produces up to
// opts.Count candidate posts. It fails only when the corpus cannot be
// acquired; insufficient source material just yields fewer posts.
func (b *Bot) Generate(ctx context.Context, acct string, opts Options) ([]Post, error) {
	corpus, err := b.source.Corpus(ctx, acct)
	if err != nil {
		return nil, fmt.Errorf("acquiring corpus for %s: %w", acct, err)
	}

	stats := markov.Analyze(corpus)
	b.log.Info("corpus ready",
		"acct", acct,
		"posts", stats.Posts,
		"words", stats.Words,
		"avg_words", stats.AvgWordsPerPost,
		"chars", stats.Chars,
	)

	rnd := opts.Rand
	if rnd == nil {
		rnd = markov.DefaultRand()
	}
	count := opts.Count
	if count <= 0 {
		count = 1
	}

	lines := strings.Split(corpus, "\n")
	chains := make(map[int]*markov.Chain)

	posts := make([]Post, 0, count)
	for i := 0; i < count; i++ {
		order := opts.Order
		if order == 0 {
			order = markov.PickOrder(rnd)
		}

		chain, ok := chains[order]
		if !ok {
			chain = markov.Build(corpus, order)
			chains[order] = chain
			b.log.Debug("built chain", "acct", acct, "order", order, "keys", chain.Len())
		}

		text, unique := chain.Generate(lines, markov.Options{
			MaxLength:   opts.MaxLength,
			MaxAttempts: opts.MaxAttempts,
			Rand:        rnd,
		})
		if text == markov.InsufficientData {
			b.log.Warn("not enough source material", "acct", acct, "order", order)
			continue
		}
		if !unique {
			b.log.Warn("could not avoid duplicating the source", "acct", acct, "order", order)
		}

		posts = append(posts, Post{Text: text, Order: order, Unique: unique})
	}

	return posts, nil
}

// Publish sends each unique post to every publisher in turn.
// Non-unique posts are skipped; replaying the author verbatim defeats
// the point.
func (b *Bot) Publish(ctx context.Context, posts []Post, publishers ...Publisher) error {
	for _, p := range posts {
		if !p.Unique {
			b.log.Warn("skipping duplicate post", "text", p.Text)
			continue
		}
		for _, pub := range publishers {
			if err := pub.Publish(ctx, p.Text); err != nil {
				return err
			}
		}
		b.log.Info("published", "order", p.Order, "text", p.Text)
	}
	return nil
}
