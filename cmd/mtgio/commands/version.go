package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the mtgio CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			output, err := OutputFormat()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(out, versionInfo)
			case OutputFormatYAML:
				return StandardYAMLRenderer(out, versionInfo)
			default:
				table := newTable(out, "Property", "Value")
				_ = table.Append("Version", version)
				_ = table.Append("Commit", commit)
				_ = table.Append("Built", date)
				_ = table.Append("API", orNotAvailable(viper.GetString("api")))

				err := renderTable(table)
				if err != nil {
					return fmt.Errorf("version: %w", err)
				}
			}

			return nil
		},
	}
}
