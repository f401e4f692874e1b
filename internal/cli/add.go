package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/workflow"
)

func (c *CLI) addCommand() *cobra.Command {
	var (
		plugin, library     bool
		alias, versionAlias string
	)
	cmd := &cobra.Command{
		Use:   "add <coordinate>",
		Short: "Add a library or plugin to the catalog",
		Long: `Add inserts a new entry that references its own versions alias.

Libraries are given as group:artifact:version, plugins (with --plugin) as
plugin.id:version. Use "latest" as the version to pick the newest release.
The version must be published in the configured repositories.`,
		Example: `  gvc add com.squareup.okhttp3:okhttp:4.12.0
  gvc add --plugin org.jetbrains.kotlin.jvm:latest --stable-only
  gvc add androidx.room:room-runtime:2.6.1 --alias room --version-alias room`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.setup(cmd, map[string]string{"stable_only": "stable-only"})
			if err != nil {
				return err
			}
			r, err := c.runner(e, false)
			if err != nil {
				return err
			}

			kind := catalog.KindLibrary
			if plugin {
				kind = catalog.KindPlugin
			}
			s := c.startSpinner(cmd, "verifying "+args[0]+"...")
			out, err := r.Add(cmd.Context(), workflow.AddOptions{
				Catalog:       e.project.CatalogPath,
				Repositories:  e.repos,
				Kind:          kind,
				Coordinate:    args[0],
				Alias:         alias,
				VersionAlias:  versionAlias,
				StableOnly:    e.cfg.StableOnly,
				StripPrefixes: e.cfg.Alias.StripPrefixes,
			})
			s.Stop()
			if err != nil {
				if errors.IsConflict(err) {
					printConflictHint(cmd.ErrOrStderr(), err)
				}
				return err
			}

			w := cmd.OutOrStdout()
			if c.format != workflow.FormatText {
				return writeStructured(w, c.format, out)
			}
			printSuccess(w, "Added %s %s %s %s",
				kindLabel(kind), StyleValue.Bold(true).Render(out.Alias),
				StyleDim.Render(out.Coordinate.String()), styleNew.Render(out.Version))
			if out.ReusedVersion {
				printDetail(w, "reusing version alias %q", out.VersionAlias)
			} else {
				printDetail(w, "version alias %q", out.VersionAlias)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&plugin, "plugin", "p", false, "add a plugin")
	cmd.Flags().BoolVarP(&library, "library", "l", false, "add a library (default)")
	cmd.Flags().StringVar(&alias, "alias", "", "alias for the new entry (derived from the artifact by default)")
	cmd.Flags().StringVar(&versionAlias, "version-alias", "", "versions alias for the new entry")
	cmd.Flags().BoolP("stable-only", "s", false, "resolve latest to the newest stable release")
	cmd.MarkFlagsMutuallyExclusive("plugin", "library")
	return cmd
}

// printConflictHint suggests how to get past an entry that already exists.
func printConflictHint(w io.Writer, err error) {
	if errors.Is(err, errors.ErrCodeDuplicateCoordinate) {
		printNextStep(w, "To upgrade the existing entry, run", "gvc update")
		return
	}
	printNextStep(w, "To pick another name, pass", "--alias <name> or --version-alias <name>")
}
