// runmode.go declares the 'ddc runmode' command for reading and persisting the project run mode.
package main

import (
	"fmt"

	"github.com/example/ddc/internal/logging"
	"github.com/example/ddc/internal/project"
	"github.com/spf13/cobra"
)

func newRunmodeCommand(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "runmode [debug|production]",
		Short: "Show or set the project run mode",
		Long: "Without arguments, prints the resolved run mode of the enclosing\n" +
			"project. With an argument, persists the new mode in the project\n" +
			"directory. Debug mode uses django's runserver with live template\n" +
			"reloads; production mode runs gunicorn with collected assets.",
		Args:          cobra.MaximumNArgs(1),
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
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), proj.RunMode())
				return nil
			}
			mode, err := project.ParseRunMode(args[0])
			if err != nil {
				return err
			}
			if err := proj.SetRunMode(mode); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project %s runmode set to %s\n", proj.Name, mode)
			return nil
		},
	}
}
