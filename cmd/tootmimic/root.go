package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tootmimic/tootmimic/internal/bot"
	"github.com/tootmimic/tootmimic/internal/cache"
	"github.com/tootmimic/tootmimic/internal/config"
	"github.com/tootmimic/tootmimic/internal/feed"
	"github.com/tootmimic/tootmimic/internal/markov"
	"github.com/tootmimic/tootmimic/internal/mirror"
)

var (
	cfgPath string
	verbose bool
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tootmimic",
		Short:        "Generate Markov-chain imitations of a fediverse account's posts",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "tootmimic.yaml", "config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		generateCmd(),
		postCmd(),
		fetchCmd(),
		statsCmd(),
	)

	return root
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// app bundles what every subcommand needs.
type app struct {
	cfg   *config.Config
	store *cache.Store
	log   *log.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: store, log: newLogger()}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("closing cache", "err", err)
	}
}

// accounts returns the configured accounts matching names, or all of
// them when names is empty.
func (a *app) accounts(names []string) ([]config.Account, error) {
	if len(names) == 0 {
		return a.cfg.Accounts, nil
	}
	var out []config.Account
	for _, name := range names {
		found := false
		for _, acct := range a.cfg.Accounts {
			if acct.Name == name || acct.Source == name {
				out = append(out, acct)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("account %q is not configured", name)
		}
	}
	return out, nil
}

func (a *app) sourceFor(acct config.Account) *bot.Source {
	client := feed.New(acct.Server, acct.Token())
	return bot.NewSource(client, a.store, a.cfg.MaxPosts, time.Duration(a.cfg.CacheTTL), a.log)
}

func (a *app) mirror() (*mirror.Mirror, error) {
	d := a.cfg.Discord
	if d == nil {
		return nil, nil
	}
	token := os.Getenv(d.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("discord token %s is not set", d.TokenEnv)
	}
	return mirror.New(token, d.ChannelID)
}

func parseOrder(s string) (int, error) {
	if s == "" || s == "random" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < markov.MinOrder || n > markov.MaxOrder {
		return 0, fmt.Errorf("order must be %q or an integer from %d to %d",
			"random", markov.MinOrder, markov.MaxOrder)
	}
	return n, nil
}
