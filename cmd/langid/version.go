package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/langid/core/model"
	"github.com/YuminosukeSato/langid/pkg/errors"
)

// ビルド時に -ldflags で上書きできる
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

type versionInfo struct {
	Version      string `json:"version"`
	GitCommit    string `json:"git_commit,omitempty"`
	BuildDate    string `json:"build_date,omitempty"`
	GoVersion    string `json:"go_version"`
	ModelFormat  string `json:"model_format"`
	ModelVersion int    `json:"model_version"`
}

func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show langid build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:      Version,
				GitCommit:    GitCommit,
				BuildDate:    BuildDate,
				GoVersion:    runtime.Version(),
				ModelFormat:  model.DocumentFormat,
				ModelVersion: model.DocumentVersion,
			}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "pretty":
				bold := color.New(color.Bold)
				fmt.Fprintf(out, "langid %s\n", bold.Sprint(info.Version))
				if info.GitCommit != "" {
					fmt.Fprintf(out, "  commit: %s\n", info.GitCommit)
				}
				if info.BuildDate != "" {
					fmt.Fprintf(out, "  built:  %s\n", info.BuildDate)
				}
				fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
				fmt.Fprintf(out, "  model:  %s v%d\n", info.ModelFormat, info.ModelVersion)
				return nil
			default:
				return errors.Newf("unknown format: %s", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
