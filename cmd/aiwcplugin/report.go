package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/aiwc/config"
)

var configPath string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List the CSV artifacts a previous run left in an output directory",
	Run: func(cmd *cobra.Command, args []string) {
		log := parsedLogger()

		settings := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath, config.WithOutputDir(outputDir))
			if err != nil {
				log.Fatalf("aiwcplugin: loading config %q: %v", configPath, err)
			}
			settings = loaded
		} else {
			settings.OutputDir = outputDir
		}

		entries, err := os.ReadDir(settings.OutputDir)
		if err != nil {
			log.Fatalf("aiwcplugin: reading output dir %q: %v", settings.OutputDir, err)
		}

		var found int
		for _, e := range entries {
			if e.IsDir() || !strings.HasPrefix(e.Name(), "aiwc_") || filepath.Ext(e.Name()) != ".csv" {
				continue
			}
			found++
			fmt.Println(e.Name())
		}
		if found == 0 {
			log.Warnf("aiwcplugin: no aiwc_*.csv artifacts found under %s", settings.OutputDir)
		}
	},
}

func init() {
	reportCmd.Flags().StringVar(&configPath, "config", "", "YAML settings file (--output-dir still takes precedence over its output_dir)")
}
