package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/GoSim-25-26J-441/reading-list-api/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigFormats defines the output formats of the config command.
var ConfigFormats = []string{"json", "yaml"}

// NewConfigCommand prints the effective configuration with secrets redacted.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ConfigFormats, format) {
				return fmt.Errorf("invalid format %q: must be one of %v", format, ConfigFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, "", "")
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cfg.Redis.Password != "" {
				cfg.Redis.Password = "********"
			}
			return writeConfig(cmd.OutOrStdout(), cfg, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format (json|yaml)")

	return cmd
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
