package main

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/aiwc"
	"github.com/sarchlab/aiwc/config"
	"github.com/sarchlab/aiwc/synth"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the plugin with a synthetic kernel trace",
	Run: func(cmd *cobra.Command, args []string) {
		log := parsedLogger()

		settings := config.New(
			config.WithEnabled(true),
			config.WithOutputDir(outputDir),
		)
		plugin := aiwc.NewPlugin(settings, aiwc.WithLogger(log))

		engine := sim.NewSerialEngine()
		gen := synth.NewGenerator(engine, plugin)

		spec := synth.DefaultKernelSpec(kernelName)
		spec.WorkGroups = workGroups
		spec.WorkItems = workItems
		gen.Enqueue(synth.Kernel(spec))
		gen.Enqueue(synth.HostTransfer(spec.GlobalAddress))

		if err := gen.Run(); err != nil {
			log.Fatalf("aiwcplugin: synthetic run failed: %v", err)
		}
		if err := plugin.Close(); err != nil {
			log.Fatalf("aiwcplugin: closing plugin: %v", err)
		}
		log.Infof("aiwcplugin: wrote artifacts to %s", outputDir)
	},
}
