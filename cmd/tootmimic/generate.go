package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tootmimic/tootmimic/internal/bot"
	"github.com/tootmimic/tootmimic/internal/markov"
)

func generateCmd() *cobra.Command {
	var (
		count    int
		order    string
		length   int
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "generate [account ...]",
		Short: "Print generated posts without publishing anything",
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

			for _, acct := range accounts {
				b := bot.New(a.sourceFor(acct), a.log)
				posts, err := b.Generate(cmd.Context(), acct.Source, bot.Options{
					Order:       fixed,
					Count:       count,
					MaxLength:   length,
					MaxAttempts: attempts,
				})
				if err != nil {
					return err
				}
				for _, p := range posts {
					fmt.Fprintln(cmd.OutOrStdout(), p.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "posts to generate per account")
	cmd.Flags().StringVar(&order, "order", "random", "n-gram order: 1-3 or random")
	cmd.Flags().IntVar(&length, "length", markov.DefaultMaxLength, "target post length in characters")
	cmd.Flags().IntVar(&attempts, "attempts", markov.DefaultMaxAttempts, "duplicate-avoidance attempts")

	return cmd
}
