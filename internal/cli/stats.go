package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yousefbali/SentenceBuilder/pkg/db"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus totals, top words and imported files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()
		store := db.NewStore(conn)

		totals, err := store.Totals(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "files:          %d\n", totals.Files)
		fmt.Fprintf(out, "distinct words: %d\n", totals.DistinctWords)
		fmt.Fprintf(out, "token mass:     %d\n", totals.TokenMass)
		fmt.Fprintf(out, "bigram mass:    %d\n", totals.BigramMass)
		fmt.Fprintf(out, "trigram mass:   %d\n", totals.TrigramMass)

		words, err := store.TopWordRecords(ctx, statsTop)
		if err != nil {
			return err
		}
		if len(words) > 0 {
			fmt.Fprintf(out, "\ntop %d words (total/starts/ends):\n", len(words))
			for _, w := range words {
				fmt.Fprintf(out, "  %-20s %d/%d/%d\n", w.Text, w.TotalCount, w.SentenceStartCount, w.SentenceEndCount)
			}
		}

		files, err := store.ListFiles(ctx)
		if err != nil {
			return err
		}
		if len(files) > 0 {
			fmt.Fprintf(out, "\nimported files:\n")
			for _, f := range files {
				fmt.Fprintf(out, "  %-30s %d tokens  %s\n", f.Filename, f.WordCount, f.ImportDate.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "number of top words to show")
}
