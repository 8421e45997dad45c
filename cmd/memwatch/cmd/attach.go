package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/memwatch/pkg/environ"
	"github.com/voluzi/memwatch/pkg/memwatch"
)

var pid int32

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Monitors an existing process until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pid <= 0 {
			return errors.New("a positive --pid is required")
		}

		target, err := memwatch.FindProcess(pid)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		start := time.Now()
		monitor, err := memwatch.Start(ctx,
			memwatch.WithInterval(interval),
			memwatch.WithTarget(target),
			memwatch.WithHistorySize(historySize),
		)
		if err != nil {
			return err
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Infof("received signal: %v", sig)

		monitor.Stop()
		cancel()
		<-monitor.Done()

		logHistory(monitor, time.Since(start))
		return nil
	},
}

func init() {
	attachCmd.Flags().Int32Var(&pid, "pid",
		environ.GetInt32("PID", 0),
		"Pid of the process to monitor",
	)
	rootCmd.AddCommand(attachCmd)
}
