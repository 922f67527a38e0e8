// project.go declares the 'ddc project' command group: resolved identity inspection and fragment validation.
package main

import (
	"fmt"
	"io"

	"github.com/example/ddc/internal/compose"
	"github.com/example/ddc/internal/logging"
	"github.com/example/ddc/internal/plugins"
	"github.com/example/ddc/internal/project"
	"github.com/spf13/cobra"
)

func newProjectCommand(logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect the enclosing project",
	}
	cmd.AddCommand(newProjectInfoCommand(logLevel), newProjectValidateCommand(logLevel))
	return cmd
}

func newProjectInfoCommand(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:           "info",
		Short:         "Print the resolved project identity and derived image tags",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()
			proj, err := project.LoadCwd(logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Root:                   %s\n", proj.Root)
			fmt.Fprintf(out, "Name:                   %s\n", proj.Name)
			fmt.Fprintf(out, "Run mode:               %s\n", proj.RunMode())
			fmt.Fprintf(out, "Base image:             %s\n", proj.BaseImage)
			fmt.Fprintf(out, "Final base image:       %s\n", proj.FinalBaseImage)
			fmt.Fprintf(out, "Requirements image tag: %s\n", proj.RequirementsImageTag)
			fmt.Fprintf(out, "Themes image tag:       %s\n", proj.ThemesImageTag)
			fmt.Fprintf(out, "Image tag:              %s\n", proj.ImageTag)
			fmt.Fprintf(out, "MySQL database:         %s\n", proj.MySQLDBName)
			printOptionalDir(out, "Requirements dir", proj.RequirementsDir)
			printOptionalDir(out, "Themes dir", proj.ThemesDir)
			printOptionalDir(out, "Settings dir", proj.SettingsDir)
			printOptionalDir(out, "Fixtures dir", proj.FixturesDir)
			printOptionalDir(out, "Local compose", proj.LocalCompose)
			return nil
		},
	}
}

func printOptionalDir(out io.Writer, label, path string) {
	if path == "" {
		return
	}
	fmt.Fprintf(out, "%-23s %s\n", label+":", path)
}

func newProjectValidateCommand(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:           "validate",
		Short:         "Validate the aggregated compose fragments for every variant",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()
			proj, err := project.LoadCwd(logger)
			if err != nil {
				return err
			}
			reg := plugins.Default(proj, logger)
			for _, variant := range []string{plugins.VariantServices, plugins.VariantOpenedX} {
				fragments, err := reg.ComposeArgs(variant)
				if err != nil {
					return err
				}
				if err := compose.Validate(ctx, fragments, proj); err != nil {
					return fmt.Errorf("variant %s: %w", variant, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d fragment(s) OK\n", variant, len(compose.FilesFromArgs(fragments)))
			}
			return nil
		},
	}
}
