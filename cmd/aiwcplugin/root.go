// Command aiwcplugin drives the aiwc measurement core from the command
// line: either against a synthetic trace for demos and smoke-testing
// (`run`), or as a thin supervisor a real host interpreter can shell out to
// for its output-directory bookkeeping (`report`).
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	outputDir  string
	logLevel   string
	kernelName string
	workGroups int
	workItems  int
)

var rootCmd = &cobra.Command{
	Use:   "aiwcplugin",
	Short: "Architecture-Independent Workload Characterization plugin",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", ".", "directory CSV artifacts are written to")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	runCmd.Flags().StringVar(&kernelName, "kernel", "synthetic_kernel", "name of the synthetic kernel to characterize")
	runCmd.Flags().IntVar(&workGroups, "workgroups", 2, "number of synthetic work-groups")
	runCmd.Flags().IntVar(&workItems, "workitems", 4, "number of synthetic work-items per work-group")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportCmd)
}

func parsedLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Fatalf("invalid log level %q: %v", logLevel, err)
	}
	log.SetLevel(level)
	return log
}
