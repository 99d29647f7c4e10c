package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/restic/get-all-xattrs/internal/feature"
)

func newFeaturesCommand(gopts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Print list of feature flags",
		Long: `
The "features" command prints a list of supported feature flags and whether
they are enabled.

To pass feature flags to get-all-xattrs, set the $` + feature.EnvName + ` environment
variable to a comma-separated list of "name[=bool]" entries, or use --features.

Alpha features are disabled by default and may change the output format.
`,
		Args:              cobra.NoArgs,
		Hidden:            true,
		DisableAutoGenTag: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			tab := tabwriter.NewWriter(gopts.stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tab, "Name\tType\tDefault\tEnabled\tDescription")
			_, _ = fmt.Fprintln(tab, "----\t----\t-------\t-------\t-----------")
			for _, flag := range feature.Flag.List() {
				_, _ = fmt.Fprintf(tab, "%v\t%v\t%v\t%v\t%v\n", flag.Name, flag.Type, flag.Default, flag.Enabled, flag.Description)
			}
			return tab.Flush()
		},
	}
}
