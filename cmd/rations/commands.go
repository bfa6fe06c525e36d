package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rations",
		Short:         "Role-based ration distribution service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newEntitlementCmd(),
		newSeedCmd(),
	)
	return root
}
