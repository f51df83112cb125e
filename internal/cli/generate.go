package cli

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yousefbali/SentenceBuilder/pkg/sentence"
)

var (
	generateAlgo     string
	generateMaxWords int
	generateMemory   bool
	generateSeed     int64
)

var generateCmd = &cobra.Command{
	Use:   "generate [seed words...]",
	Short: "Generate a sentence from the corpus statistics",
	Long: `Generate extends the given seed words (or a corpus-chosen starting
word when none are given) into a sentence. Available algorithms:

` + generatorList(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		var rng *rand.Rand
		if generateSeed >= 0 {
			rng = rand.New(rand.NewSource(generateSeed))
		}

		algoName := generateAlgo
		if algoName == "" {
			algoName = cfg.Generate.DefaultAlgorithm
		}
		algo := sentence.ByName(algoName, rng)
		if algo == nil {
			return fmt.Errorf("unknown generation algorithm %q", algoName)
		}

		maxWords := generateMaxWords
		if maxWords < 1 {
			maxWords = cfg.Generate.MaxWords
		}

		conn, err := openConn()
		if err != nil {
			return err
		}
		defer conn.Close()

		reader, err := openReader(ctx, conn, generateMemory)
		if err != nil {
			return err
		}

		out, err := algo.Generate(ctx, reader, strings.Join(args, " "), maxWords)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func generatorList() string {
	var b strings.Builder
	for _, a := range sentence.Registry(rand.New(rand.NewSource(0))) {
		fmt.Fprintf(&b, "  %-22s %s\n", a.Name(), a.Description())
	}
	return b.String()
}

func init() {
	generateCmd.Flags().StringVar(&generateAlgo, "algo", "", "generation algorithm (default from config)")
	generateCmd.Flags().IntVar(&generateMaxWords, "max-words", 0, "maximum sentence length (default from config)")
	generateCmd.Flags().BoolVar(&generateMemory, "memory", false, "query an in-memory snapshot instead of SQL")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", -1, "random seed for reproducible output (-1 = random)")
}
