// services.go declares the 'ddc services' command, wrapping docker-compose for the shared backing services.
package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/example/ddc/internal/compose"
	"github.com/example/ddc/internal/docker"
	"github.com/example/ddc/internal/logging"
	"github.com/example/ddc/internal/plugins"
	"github.com/example/ddc/internal/project"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServicesCommand(logLevel *string) *cobra.Command {
	var (
		dryRun           bool
		resetMailslurper bool
	)
	cmd := &cobra.Command{
		Use:   "services [COMPOSE_ARGS...]",
		Short: "Run docker-compose with the shared service definitions",
		Long: "Runs docker-compose with the compose fragments for the shared backing\n" +
			"services (mysql, mongodb, rabbitmq and friends) plus administrative\n" +
			"tools. Set DDC_ADMIN_SERVICES to a falsey value to start only the core\n" +
			"services. Arguments after the flags are passed through unchanged.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServices(cmd, args, *logLevel, dryRun, resetMailslurper)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the docker-compose invocation instead of executing it")
	cmd.Flags().BoolVar(&resetMailslurper, "reset-mailslurper", false, "Reset the mailslurper database")
	return cmd
}

func runServices(cmd *cobra.Command, args []string, logLevel string, dryRun bool, resetMailslurper bool) error {
	ctx := cmd.Context()
	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := docker.Check(ctx); err != nil {
		return err
	}

	if resetMailslurper {
		return resetMailslurperDB(ctx)
	}

	// The shared services do not require a project, but when one encloses
	// the cwd its local compose file joins the fragment list.
	proj := optionalProject(logger)

	extra, err := compose.ExtraOptsFromEnv()
	if err != nil {
		return err
	}
	return composeRunner.Run(ctx, plugins.Default(proj, logger), compose.Options{
		Variant:   plugins.VariantServices,
		DryRun:    dryRun,
		ExtraOpts: extra,
		Args:      args,
		Project:   proj,
	})
}

func resetMailslurperDB(ctx context.Context) error {
	running, err := docker.ServicesRunning(ctx, "mysql")
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("mysql not found; maybe you forgot to run 'ddc services up -d'")
	}
	if err := docker.WaitForMySQL(ctx); err != nil {
		return err
	}
	if err := docker.ExecuteMySQLQuery(ctx, "DROP DATABASE IF EXISTS mailslurper"); err != nil {
		return err
	}
	if proj := optionalProject(nil); proj != nil && proj.FixturesDir != "" {
		dump := filepath.Join(proj.FixturesDir, "mailslurper.sql")
		return docker.LoadDump(ctx, dump)
	}
	return nil
}

// optionalProject loads the enclosing project when there is one; commands
// that work outside a project treat resolution failure as "no project".
func optionalProject(logger *zap.Logger) *project.Project {
	proj, err := project.LoadCwd(logger)
	if err != nil {
		return nil
	}
	return proj
}
