// Package cli wires the sentencebuilder commands: importing documents into
// the corpus database, querying autocomplete suggestions, generating
// sentences, and inspecting or clearing the accumulated statistics.
package cli

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yousefbali/SentenceBuilder/internal/logger"
	"github.com/yousefbali/SentenceBuilder/pkg/config"
	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
	"github.com/yousefbali/SentenceBuilder/pkg/db"
	"github.com/yousefbali/SentenceBuilder/pkg/snapshot"
)

var (
	flagConfig  string
	flagDB      string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sentencebuilder",
	Short: "N-gram corpus statistics, autocomplete and sentence generation",
	Long: `sentencebuilder accumulates word, bigram and trigram statistics from
plain-text documents into a SQLite database, then answers autocomplete
queries and generates sentences from the accumulated corpus.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(flagVerbose)
		loaded, path, err := config.LoadWithPriority(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		if path != "" {
			logger.New("config").Debug("loaded config", "path", path)
		}
		if flagDB != "" {
			cfg.Database.Path = flagDB
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to the corpus database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(importCmd, suggestCmd, generateCmd, statsCmd, resetCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openConn opens the configured database and runs the migrations.
func openConn() (*sql.DB, error) {
	return db.Open(cfg.Database.Path)
}

// openReader returns a corpus.Reader over conn, either the SQL store or a
// one-shot in-memory snapshot when inMemory is set.
func openReader(ctx context.Context, conn *sql.DB, inMemory bool) (corpus.Reader, error) {
	if !inMemory {
		return db.NewStore(conn), nil
	}
	snap, err := snapshot.Build(ctx, conn)
	if err != nil {
		return nil, err
	}
	logger.New("snapshot").Debug("built in-memory snapshot", "words", snap.WordCount())
	return snap, nil
}
