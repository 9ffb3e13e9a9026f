package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spinlab/magsweep/internal/ui"
	"github.com/spinlab/magsweep/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <report-file>",
	Short: "Follow a running sweep's report file and print progress",
	Args:  exactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	printer := ui.New()

	w, err := watch.New(args[0])
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	printer.Info(fmt.Sprintf("watching %s (ctrl-c to stop)", w.Path))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case u := <-w.Updates:
			if u.Err != nil {
				printer.Warn(u.Err.Error())
				continue
			}
			printer.Info(fmt.Sprintf("%d record(s) journaled (started %s)", u.Records, u.Started))
		case <-sig:
			return nil
		}
	}
}
