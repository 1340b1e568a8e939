package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ozanunsal/hikmet-crawler/internal/config"
)

// newSourcesCmd creates the 'sources' subcommand, which lists the configured
// crawl sources without running anything.
func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Lists the configured crawl sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			if len(file.Sources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no sources configured")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tSAFE MODE\tSEEDS\tRENDER")
			for _, src := range file.Sources {
				safeMode := "default"
				if src.SafeMode != nil {
					safeMode = fmt.Sprintf("%t", *src.SafeMode)
				}
				seeds := len(src.Seeds)
				if seeds == 0 && (src.ListURL != "" || src.URL != "" || src.Base != "") {
					seeds = 1
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n", src.Name, src.Kind, safeMode, seeds, src.Render)
			}
			return w.Flush()
		},
	}
}
