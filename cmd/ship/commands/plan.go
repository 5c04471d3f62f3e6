package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the packages and targets a publish would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := c.app.Plan(cmd.Context(), runOptions(cmd))
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			renderPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
	cmd.Flags().StringArrayP("release", "r", nil, "Release name@version explicitly instead of reading changesets")
	cmd.Flags().Bool("json", false, "Print the plan as JSON")
	return cmd
}
