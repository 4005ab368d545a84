package main

import (
	"github.com/spf13/cobra"
)

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [account ...]",
		Short: "Fetch post history into the cache, ignoring its age",
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

			for _, acct := range accounts {
				src := a.sourceFor(acct)
				if _, err := src.Refresh(cmd.Context(), acct.Source); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
