package cmd

import (
	"context"
	"os"
	"os/exec"
	"time"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/memwatch/pkg/memwatch"
)

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Runs a command while monitoring its memory usage",
	Long: `Run starts the given command as a child process and monitors the memwatch
process tree, so the command and anything it spawns are included in the
reported totals. Exits with the command's exit code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		start := time.Now()
		monitor, err := memwatch.Start(ctx,
			memwatch.WithInterval(interval),
			memwatch.WithHistorySize(historySize),
		)
		if err != nil {
			return err
		}

		child := exec.Command(args[0], args[1:]...)
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr

		if err := child.Start(); err != nil {
			return errors.Wrapf(err, "starting %s", args[0])
		}

		waitErr := child.Wait()

		// Wake the sampling goroutine so its final sample and summary are
		// written before we exit.
		cancel()
		<-monitor.Done()

		logHistory(monitor, time.Since(start))

		if waitErr != nil {
			var exitErr *exec.ExitError
			if errors.As(waitErr, &exitErr) {
				log.WithField("code", exitErr.ExitCode()).Debug("command exited with error")
				os.Exit(exitErr.ExitCode())
			}
			return errors.Wrapf(waitErr, "waiting for %s", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
