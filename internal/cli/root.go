package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the restbus CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "restbus",
		Short:         "Inspect and export OpenAPI documents assembled from a resource catalog",
		Long:          "restbus loads a declarative resource catalog, assembles the OpenAPI v3 document the message bus exposes, and exports or inspects it.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	flagErr := func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	}
	cmd.SetFlagErrorFunc(flagErr)

	cmd.PersistentFlags().StringP("config", "c", "", "Catalog file path (YAML)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	e := newExportCmd()
	e.SetFlagErrorFunc(flagErr)
	cmd.AddCommand(e)

	r := newRoutesCmd()
	r.SetFlagErrorFunc(flagErr)
	cmd.AddCommand(r)

	return cmd
}
