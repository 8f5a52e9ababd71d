// Command flowctl inspects the survey-flow reference data and runs the pricing and live-link
// rules offline.
package main

import (
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/SurveyFlow/internal/log"
)

var (
	debug  bool
	output string
)

var clipboardWriteAll = clipboard.WriteAll

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "Survey flow configuration toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	root.AddCommand(stepsCmd(), priceCmd(), linksCmd(), inferCmd(), catalogCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
