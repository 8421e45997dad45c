package cmd

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/memwatch/pkg/environ"
	"github.com/voluzi/memwatch/pkg/memwatch"
)

var logLevel string
var interval time.Duration
var historySize int

var rootCmd = &cobra.Command{
	Use:   "memwatch",
	Short: "Reports memory usage of a process tree",
	Long:  `Memwatch periodically reports resident and virtual memory of a process and all of its descendants, and tracks the peak total observed.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(logLvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level",
		environ.GetString("LOG_LEVEL", "info"),
		"Log level. One of debug, info, warn, error, fatal, panic.",
	)
	rootCmd.PersistentFlags().DurationVar(&interval, "interval",
		environ.GetDuration("INTERVAL", memwatch.DefaultInterval),
		"Time between memory reports",
	)
	rootCmd.PersistentFlags().IntVar(&historySize, "history-size",
		environ.GetInt("HISTORY_SIZE", memwatch.DefaultHistorySize),
		"Maximum number of samples retained for windowed queries",
	)
}

// logHistory reports windowed peak and average tree memory from the
// monitor's sample history once monitoring has finished.
func logHistory(monitor *memwatch.Monitor, window time.Duration) {
	history := monitor.History()
	if len(history.Since(window)) == 0 {
		return
	}
	log.WithFields(log.Fields{
		"windowed-peak": fmt.Sprintf("%.3f GB", memwatch.Gigabytes(history.PeakSince(window))),
		"average":       fmt.Sprintf("%.3f GB", memwatch.Gigabytes(history.AverageSince(window))),
	}).Info("sampled memory history")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
