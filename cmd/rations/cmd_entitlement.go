package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"rations/internal/domain"
)

func newEntitlementCmd() *cobra.Command {
	var (
		familySize int
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "entitlement",
		Short: "Print the monthly entitlement for a household",
		RunE: func(cmd *cobra.Command, args []string) error {
			if familySize <= 0 {
				return fmt.Errorf("%w: --family-size must be positive", domain.ErrInvalidInput)
			}
			ent := domain.Entitlement(familySize)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ent)
			}
			fmt.Fprintf(out, "Monthly entitlement for a family of %d:\n", familySize)
			for _, it := range domain.Items {
				fmt.Fprintf(out, "  %-9s %g %s\n", it, ent.Get(it), it.Unit())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&familySize, "family-size", 0, "number of people in the household")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("family-size")
	return cmd
}
