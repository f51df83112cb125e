package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yousefbali/SentenceBuilder/pkg/db"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every statistic in the corpus database",
	Long: `Reset deletes all words, n-gram relations and file records in one
transaction. This is the only way to remove counts; re-importing never
subtracts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("refusing to clear %s without --yes", cfg.Database.Path)
		}

		ctx, cancel := signalContext()
		defer cancel()

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.NewStore(conn).Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "corpus cleared at %s\n", cfg.Database.Path)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
}
