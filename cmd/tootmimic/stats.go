package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tootmimic/tootmimic/internal/markov"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [account ...]",
		Short: "Show corpus and chain statistics for the configured accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			accounts, err := a.accounts(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, acct := range accounts {
				corpus, err := a.sourceFor(acct).Corpus(cmd.Context(), acct.Source)
				if err != nil {
					return err
				}

				s := markov.Analyze(corpus)
				fmt.Fprintf(out, "%s (source %s)\n", acct.Name, acct.Source)
				fmt.Fprintf(out, "  posts: %d\n", s.Posts)
				fmt.Fprintf(out, "  words: %d (avg %d per post)\n", s.Words, s.AvgWordsPerPost)
				fmt.Fprintf(out, "  chars: %d\n", s.Chars)
				for order := markov.MinOrder; order <= markov.MaxOrder; order++ {
					fmt.Fprintf(out, "  order %d keys: %d\n", order, markov.Build(corpus, order).Len())
				}
			}
			return nil
		},
	}
}
