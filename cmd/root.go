package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spinlab/magsweep/internal/driver"
	"github.com/spinlab/magsweep/internal/sweep"
)

// Exit codes. Batch schedulers key off these, so each startup failure class
// gets its own code.
const (
	ExitUsage      = 2 // missing or extra arguments
	ExitFlipMode   = 3 // invalid flip mode string
	ExitInitMode   = 4 // invalid initialization mode string
	ExitMolecule   = 5 // bad molecule selector
	ExitOutput     = 6 // unusable report path
	ExitParse      = 7 // sweep file did not parse
	ExitMissingKey = 8 // required setting absent from sweep file
	ExitOther      = 1
)

// ExitError carries a specific process exit code up through cobra.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

var rootCmd = &cobra.Command{
	Use:   "magsweep",
	Short: "Metropolis spin-lattice sweep driver",
	Long: "Magsweep runs batches of Metropolis Monte Carlo spin lattice simulations\n" +
		"over a declarative parameter sweep, bounding concurrency and journaling\n" +
		"every completed result to a crash-safe report file.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var xe *ExitError
	if errors.As(err, &xe) {
		return xe.Code
	}
	var pe *sweep.ParseError
	if errors.As(err, &pe) {
		return ExitParse
	}
	if errors.Is(err, sweep.ErrMissingKey) {
		return ExitMissingKey
	}
	if errors.Is(err, driver.ErrOutput) {
		return ExitOutput
	}
	return ExitOther
}

// exactArgs is cobra.ExactArgs with the usage exit code attached.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &ExitError{
				Code:    ExitUsage,
				Message: fmt.Sprintf("%s requires exactly %d argument(s), got %d", cmd.Name(), n, len(args)),
			}
		}
		return nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .magsweep.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".magsweep")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("MAGSWEEP")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
