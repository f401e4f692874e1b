package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gvc/pkg/resolve"
	"github.com/matzehuels/gvc/pkg/workflow"
)

func (c *CLI) checkCommand() *cobra.Command {
	var (
		includeUnstable bool
		filter          string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report available updates without changing the catalog",
		Long: `Check looks up every versions, libraries and plugins entry in the configured
repositories and reports the newest version available for each.

Only stable releases are considered unless --include-unstable is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.setup(cmd, nil)
			if err != nil {
				return err
			}
			r, err := c.runner(e, false)
			if err != nil {
				return err
			}

			stop := c.startLookupSpinner(cmd, "checking")
			report, err := r.Check(cmd.Context(), workflow.CheckOptions{
				Catalog:      e.project.CatalogPath,
				Repositories: e.repos,
				StableOnly:   !includeUnstable,
				Filter:       filter,
			})
			stop()
			if err != nil {
				return err
			}
			return c.printCheck(cmd, report, !includeUnstable)
		},
	}
	cmd.Flags().BoolVar(&includeUnstable, "include-unstable", false, "consider pre-release versions")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only check aliases matching this glob")
	return cmd
}

func (c *CLI) printCheck(cmd *cobra.Command, report *resolve.Report, stableOnly bool) error {
	w := cmd.OutOrStdout()
	if c.format != workflow.FormatText {
		return writeStructured(w, c.format, report)
	}
	if report.Empty() {
		printSuccess(w, "All dependencies are up to date")
		return nil
	}

	channel := "including pre-releases"
	next := appName + " update"
	if stableOnly {
		channel = "stable versions only"
		next += " --stable-only"
	}
	if n := report.Len(); n > 0 {
		printInfo(w, "Found %d %s (%s)", n, plural(n, "update", "updates"), channel)
	} else {
		printSuccess(w, "No updates found (%s)", channel)
	}
	renderReport(w, report)
	if report.Len() > 0 {
		printNewline(w)
		printNextStep(w, "To apply these updates, run", next)
	}
	return nil
}
