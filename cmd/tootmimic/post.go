package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tootmimic/tootmimic/internal/bot"
	"github.com/tootmimic/tootmimic/internal/feed"
	"github.com/tootmimic/tootmimic/internal/markov"
)

func postCmd() *cobra.Command {
	var (
		count    int
		order    string
		length   int
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "post [account ...]",
		Short: "Generate posts and publish them to the configured accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			fixed, err := parseOrder(order)
			if err != nil {
				return err
			}
			accounts, err := a.accounts(args)
			if err != nil {
				return err
			}
			m, err := a.mirror()
			if err != nil {
				return err
			}

			for _, acct := range accounts {
				if !acct.Post {
					a.log.Warn("posting disabled for account", "account", acct.Name)
					continue
				}
				if acct.Token() == "" {
					return fmt.Errorf("account %s: access token %s is not set", acct.Name, acct.TokenEnv)
				}

				client := feed.New(acct.Server, acct.Token())
				src := bot.NewSource(client, a.store, a.cfg.MaxPosts, time.Duration(a.cfg.CacheTTL), a.log)
				b := bot.New(src, a.log)

				posts, err := b.Generate(cmd.Context(), acct.Source, bot.Options{
					Order:       fixed,
					Count:       count,
					MaxLength:   length,
					MaxAttempts: attempts,
				})
				if err != nil {
					return err
				}

				publishers := []bot.Publisher{client}
				if m != nil {
					publishers = append(publishers, m)
				}
				if err := b.Publish(cmd.Context(), posts, publishers...); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "posts to publish per account")
	cmd.Flags().StringVar(&order, "order", "random", "n-gram order: 1-3 or random")
	cmd.Flags().IntVar(&length, "length", markov.DefaultMaxLength, "target post length in characters")
	cmd.Flags().IntVar(&attempts, "attempts", markov.DefaultMaxAttempts, "duplicate-avoidance attempts")

	return cmd
}
