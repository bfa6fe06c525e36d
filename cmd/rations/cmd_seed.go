package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rations/internal/seed"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect seed datasets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [file]",
		Short: "Validate a seed file, or the embedded default when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			f, err := seed.Load(path)
			if err != nil {
				return err
			}
			name := path
			if name == "" {
				name = "embedded default"
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%s ok: %d beneficiaries, %d shops, %d stocks, %d distributions, %d complaints, %d admins\n",
				name, len(f.Beneficiaries), len(f.Shops), len(f.Stocks),
				len(f.Distributions), len(f.Complaints), len(f.Admins))
			return nil
		},
	})
	return cmd
}
