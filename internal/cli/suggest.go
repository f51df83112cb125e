package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yousefbali/SentenceBuilder/pkg/suggest"
)

var (
	suggestAlgo   string
	suggestLimit  int
	suggestMemory bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <text>",
	Short: "Suggest next words for the text typed so far",
	Long: `Suggest prints up to --limit candidate next words for the given text,
one per line, best candidate first. Available algorithms:

` + algorithmList(),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		algoName := suggestAlgo
		if algoName == "" {
			algoName = cfg.Suggest.DefaultAlgorithm
		}
		algo := suggest.ByName(algoName)
		if algo == nil {
			return fmt.Errorf("unknown suggest algorithm %q", algoName)
		}

		limit := suggestLimit
		if limit < 1 {
			limit = cfg.Suggest.DefaultLimit
		}

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		reader, err := openReader(ctx, conn, suggestMemory)
		if err != nil {
			return err
		}

		words, err := algo.Suggest(ctx, reader, strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		for _, w := range words {
			fmt.Fprintln(cmd.OutOrStdout(), w)
		}
		return nil
	},
}

func algorithmList() string {
	var b strings.Builder
	for _, a := range suggest.Registry() {
		fmt.Fprintf(&b, "  %-18s %s\n", a.Name(), a.Description())
	}
	return b.String()
}

func init() {
	suggestCmd.Flags().StringVar(&suggestAlgo, "algo", "", "suggestion algorithm (default from config)")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "maximum suggestions (default from config)")
	suggestCmd.Flags().BoolVar(&suggestMemory, "memory", false, "query an in-memory snapshot instead of SQL")
}
