package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/restbus/restbus/apidoc"
	"github.com/restbus/restbus/internal/catalogfile"
)

// ExportConfig captures all inputs that influence the export command
// after merging defaults and CLI overrides.
type ExportConfig struct {
	ConfigPath string
	Format     string
	Out        string
	Verbose    bool
}

var exportRunner = runExport

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Assemble the OpenAPI document and write it out",
		Long: "Assemble the OpenAPI v3 document from the catalog file and write it to a " +
			"file or stdout, as JSON or YAML.",
		Example: strings.TrimSpace(`  restbus --config api.yaml export
  restbus --config api.yaml export --format yaml --out openapi.yaml`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveExportConfig(cmd)
			if err != nil {
				return err
			}
			return exportRunner(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("format", "json", "Output format (json|yaml)")
	flags.String("out", "", "Output file path (stdout when omitted)")

	return cmd
}

func resolveExportConfig(cmd *cobra.Command) (*ExportConfig, error) {
	cfg := &ExportConfig{Format: "json"}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigPath = strings.TrimSpace(configPath)
	if cfg.ConfigPath == "" {
		return nil, newUsageError("export: --config is required")
	}

	if cmd.Flags().Changed("format") {
		value, err := cmd.Flags().GetString("format")
		if err != nil {
			return nil, err
		}
		cfg.Format = strings.ToLower(strings.TrimSpace(value))
	}
	switch cfg.Format {
	case "json", "yaml":
	default:
		return nil, newUsageError(fmt.Sprintf("export: unsupported --format %q (allowed: json, yaml)", cfg.Format))
	}

	if cmd.Flags().Changed("out") {
		value, err := cmd.Flags().GetString("out")
		if err != nil {
			return nil, err
		}
		cfg.Out = strings.TrimSpace(value)
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func runExport(cmd *cobra.Command, cfg *ExportConfig) error {
	doc, err := assembleDocument(cmd.Context(), cfg.ConfigPath, cfg.Verbose)
	if err != nil {
		return err
	}

	var out []byte
	switch cfg.Format {
	case "yaml":
		out, err = apidoc.MarshalYAML(doc)
	default:
		out, err = apidoc.MarshalJSON(doc)
	}
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		_, err = cmd.OutOrStdout().Write(append(out, '\n'))
		return err
	}
	if err := os.WriteFile(cfg.Out, out, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", cfg.Out, err)
	}
	return nil
}

// assembleDocument loads the catalog file, assembles the document and
// validates it. Both commands funnel through here so they agree on
// what the catalog means.
func assembleDocument(ctx context.Context, configPath string, verbose bool) (*openapi3.T, error) {
	bundle, err := loadBundle(configPath)
	if err != nil {
		return nil, err
	}

	opts := []apidoc.Option{apidoc.WithLogger(newLogger(verbose))}
	if bundle.Formats != nil {
		opts = append(opts, apidoc.WithFormats(bundle.Formats))
	}
	asm, err := apidoc.New(bundle.Catalog, bundle.Filters, bundle.Config, opts...)
	if err != nil {
		return nil, err
	}
	d, err := asm.Assemble(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.Validate(ctx); err != nil {
		return nil, fmt.Errorf("export: assembled document is invalid: %w", err)
	}
	return d, nil
}

func loadBundle(configPath string) (*catalogfile.Bundle, error) {
	bundle, err := catalogfile.Load(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newUsageError(fmt.Sprintf("catalog file %q does not exist", configPath))
		}
		return nil, err
	}
	return bundle, nil
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
