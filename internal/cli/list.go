package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gvc/pkg/project"
	"github.com/matzehuels/gvc/pkg/workflow"
)

func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog's libraries and plugins",
		Long:  `List prints every library and plugin as coordinate:version, with version references resolved.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Open(c.dir)
			if err != nil {
				return err
			}
			l, err := workflow.NewRunner(nil, nil, c.Logger).List(proj.CatalogPath)
			if err != nil {
				return err
			}
			if c.format != workflow.FormatText {
				return writeStructured(cmd.OutOrStdout(), c.format, l)
			}
			renderListing(cmd.OutOrStdout(), l)
			return nil
		},
	}
}
