package main

import (
	"os"

	"github.com/spf13/cobra"

	"tempo/config"
	"tempo/helper"
	"tempo/shared/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back the Postgres schema",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.InitLogger(config.Get())
		},
	}

	cmd.AddCommand(
		newActionCommand(helper.ActionUp, "Apply every pending migration"),
		newActionCommand(helper.ActionDown, "Roll back the latest migration"),
		newActionCommand(helper.ActionStepUp, "Apply the next pending migration"),
		newActionCommand(helper.ActionDrop, "Roll back every migration"),
	)

	return cmd
}

func newActionCommand(action helper.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return helper.Runner(config.Get(), action)
		},
	}
}
