package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yousefbali/SentenceBuilder/internal/logger"
	"github.com/yousefbali/SentenceBuilder/pkg/ingest"
)

var importWorkers int

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import plain-text documents into the corpus",
	Long: `Import tokenizes each file and merges its word, bigram and trigram
counts into the corpus database. Each file commits as one transaction, so a
failure mid-batch keeps every already imported file and loses none of the
rest of the database. Importing the same file again adds its counts on top
of the existing ones.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		workers := importWorkers
		if workers < 1 {
			workers = cfg.Import.Workers
		}

		imp := ingest.NewImporter(conn)
		imp.Workers = workers
		imp.Logger = logger.New("import")
		imp.OnProgress = func(done, total int) {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] imported\n", done, total)
		}

		summaries, err := imp.ImportFiles(ctx, args)
		if err != nil {
			return err
		}

		var tokens, words int
		for _, s := range summaries {
			tokens += s.Tokens
			words += s.DistinctWords
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d file(s): %d tokens, %d distinct word entries\n",
			len(summaries), tokens, words)
		return nil
	},
}

func init() {
	importCmd.Flags().IntVar(&importWorkers, "workers", 0, "concurrent tokenizers (default from config)")
}
