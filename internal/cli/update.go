package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/workflow"
)

func (c *CLI) updateCommand() *cobra.Command {
	var (
		interactiveMode bool
		filter          string
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Apply newer versions to the catalog",
		Long: `Update resolves newer versions like check, applies them to
gradle/libs.versions.toml and, in a git repository, commits the catalog
to a new deps/update-YYYY-MM-DD branch.

With --interactive each update is confirmed individually. With --filter and
without --interactive only the first matching update is applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.setup(cmd, map[string]string{
				"stable_only": "stable-only",
				"no_git":      "no-git",
			})
			if err != nil {
				return err
			}
			r, err := c.runner(e, true)
			if err != nil {
				return err
			}

			opts := workflow.UpdateOptions{
				Catalog:       e.project.CatalogPath,
				Repositories:  e.repos,
				StableOnly:    e.cfg.StableOnly,
				Filter:        filter,
				CommitMessage: e.cfg.Commit.Message,
			}
			if interactiveMode {
				opts.Prompter = teaPrompter{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
			}

			res, err := c.runUpdate(cmd, r, opts)
			if errors.Is(err, errors.ErrCodeCancelled) && cmd.Context().Err() == nil {
				printWarning(cmd.OutOrStdout(), "Update cancelled, no changes were made")
				return nil
			}
			if err != nil {
				return err
			}
			return c.printUpdate(cmd, e, res)
		},
	}
	cmd.Flags().BoolVarP(&interactiveMode, "interactive", "i", false, "confirm each update")
	cmd.Flags().BoolP("stable-only", "s", false, "only consider stable versions")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only update aliases matching this glob")
	cmd.Flags().Bool("no-git", false, "do not check the working tree or commit")
	return cmd
}

// runUpdate shows a spinner during resolution unless the run is
// interactive, where prompts own the terminal.
func (c *CLI) runUpdate(cmd *cobra.Command, r *workflow.Runner, opts workflow.UpdateOptions) (*workflow.UpdateResult, error) {
	if opts.Prompter != nil {
		return r.Update(cmd.Context(), opts)
	}
	defer c.startLookupSpinner(cmd, "resolving")()
	return r.Update(cmd.Context(), opts)
}

func (c *CLI) printUpdate(cmd *cobra.Command, e *env, res *workflow.UpdateResult) error {
	w := cmd.OutOrStdout()
	if c.format != workflow.FormatText {
		return writeStructured(w, c.format, res)
	}
	if len(res.Applied) == 0 {
		if len(res.Report.Errors) > 0 {
			renderReport(w, res.Report)
		}
		printSuccess(w, "No updates were applied")
		return nil
	}

	renderReport(w, res.Report.Only(res.Applied))
	printNewline(w)
	printSuccess(w, "Updated %d %s in %s", len(res.Applied), plural(len(res.Applied), "entry", "entries"),
		e.project.Rel(e.project.CatalogPath))
	if res.Commit != nil {
		printSuccess(w, "Committed to branch %s", StyleHighlight.Render(res.Commit.Branch))
	}
	return nil
}
