package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ship/internal/core/domain"
)

func (c *CLI) newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build, validate and publish the release set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := runOptions(cmd)
			opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
			opts.SkipBuild, _ = cmd.Flags().GetBool("skip-build")
			opts.Concurrency, _ = cmd.Flags().GetInt("concurrency")
			asJSON, _ := cmd.Flags().GetBool("json")

			res, err := c.app.Publish(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				renderResult(cmd.OutOrStdout(), res)
			}

			if !res.Success {
				return domain.ErrRunFailed
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Run every step but pass --dry-run to the publish commands")
	cmd.Flags().Bool("skip-build", false, "Skip the shared build step")
	cmd.Flags().IntP("concurrency", "j", 0, "Maximum number of packages published at once (default from config)")
	cmd.Flags().StringArrayP("release", "r", nil, "Release name@version explicitly instead of reading changesets")
	cmd.Flags().Bool("json", false, "Print the run result as JSON")
	return cmd
}
