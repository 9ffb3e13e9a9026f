package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spinlab/magsweep/internal/ansi"
)

var validateCmd = &cobra.Command{
	Use:   "validate <sweep-file>",
	Short: "Parse a sweep file and summarize what it would run",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := parseSweepFile(args[0])
		if err != nil {
			return err
		}

		total := spec.Space().Count()
		fmt.Fprintf(os.Stderr, ansi.Green+ansi.Bold+"✓ %s"+ansi.Reset+" — %d configuration(s)\n", args[0], total)

		for _, label := range spec.Labels {
			fmt.Fprintf(os.Stderr, "  %s%-12s%s length %-4d keys: %s\n",
				ansi.Cyan, label.Name, ansi.Reset, label.Length, strings.Join(label.Keys, ", "))
		}
		if n := len(spec.Spins); n > 0 {
			fmt.Fprintf(os.Stderr, "  %d spin override(s)\n", n)
		}

		if err := spec.CheckRequired(); err != nil {
			fmt.Fprintf(os.Stderr, ansi.Red+ansi.Bold+"✗ %v"+ansi.Reset+"\n", err)
			return err
		}
		fmt.Fprintln(os.Stderr, ansi.Dim+"  all required settings present"+ansi.Reset)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
