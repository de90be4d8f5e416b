package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/restbus/restbus/message"
	"github.com/restbus/restbus/resource"
)

var routesRunner = runRoutes

func newRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes the catalog declares",
		Long: "List every operation the catalog declares as a route table: method, path, " +
			"owning resource, operation name, bound message and whether the message " +
			"requires authorization.",
		Example: strings.TrimSpace(`  restbus --config api.yaml routes`),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			configPath = strings.TrimSpace(configPath)
			if configPath == "" {
				return newUsageError("routes: --config is required")
			}
			return routesRunner(cmd, configPath)
		},
	}
	return cmd
}

func runRoutes(cmd *cobra.Command, configPath string) error {
	bundle, err := loadBundle(configPath)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tRESOURCE\tOPERATION\tMESSAGE\tAUTH")
	for _, res := range bundle.Catalog.Resources() {
		for _, kind := range resource.Kinds() {
			for _, op := range res.OperationsOf(kind) {
				path := resource.NormalizePath(bundle.Catalog.OperationPath(res, op))
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					strings.ToUpper(op.Method), path, res.ShortName, op.Name,
					messageName(op.Message), authLabel(op.Message))
			}
		}
	}
	return w.Flush()
}

func messageName(m message.Message) string {
	if m == nil {
		return "-"
	}
	return m.MessageName()
}

func authLabel(m message.Message) string {
	if _, ok := m.(message.RequiresAuthorization); ok {
		return "yes"
	}
	return "no"
}
