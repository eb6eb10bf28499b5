package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dangit/internal/forge"
	"dangit/internal/report"
)

func addList(topLevel *cobra.Command, v *viper.Viper, cfgFile *string) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print notifications, issues, and pull requests without the dashboard",
		Example: `
dangit list
dangit list --org acme
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := setup(cmd.Context(), v, *cfgFile)
			if err != nil {
				return err
			}
			defer s.close()

			snap, err := forge.Load(cmd.Context(), s.source, s.logger)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), snap)
		},
	}
	topLevel.AddCommand(cmd)
}
