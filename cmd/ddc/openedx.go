// openedx.go declares the 'ddc openedx' command, wrapping docker-compose for the project's edX daemons.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/ddc/internal/compose"
	"github.com/example/ddc/internal/docker"
	"github.com/example/ddc/internal/logging"
	"github.com/example/ddc/internal/plugins"
	"github.com/example/ddc/internal/project"
	"github.com/spf13/cobra"
)

// prerequisiteServices must be running before LMS/CMS daemons can start.
var prerequisiteServices = []string{"mysql", "mongodb", "rabbitmq"}

func newOpenedxCommand(logLevel *string) *cobra.Command {
	var (
		dryRun     bool
		resetMySQL bool
	)
	cmd := &cobra.Command{
		Use:   "openedx [COMPOSE_ARGS...]",
		Short: "Run docker-compose with the project's Open edX daemons",
		Long: "Runs docker-compose with the LMS/CMS/worker compose fragments for the\n" +
			"enclosing project. The project's derived image tags are exported to the\n" +
			"fragments through DDC_* interpolation variables. Arguments after the\n" +
			"flags are passed through unchanged.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpenedx(cmd, args, *logLevel, dryRun, resetMySQL)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the docker-compose invocation instead of executing it")
	cmd.Flags().BoolVar(&resetMySQL, "reset-mysql", false, "Reset the project's MySQL database")
	return cmd
}

func runOpenedx(cmd *cobra.Command, args []string, logLevel string, dryRun bool, resetMySQL bool) error {
	ctx := cmd.Context()
	logger, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := docker.Check(ctx); err != nil {
		return err
	}
	proj, err := project.LoadCwd(logger)
	if err != nil {
		return err
	}

	if resetMySQL {
		return resetProjectDB(ctx, proj)
	}

	if !dryRun && startsServices(args) {
		running, err := docker.ServicesRunning(ctx, prerequisiteServices...)
		if err != nil {
			return err
		}
		if !running {
			return fmt.Errorf("%s services not found; maybe you forgot to run 'ddc services up -d'",
				strings.Join(prerequisiteServices, "/"))
		}
	}

	extra, err := compose.ExtraOptsFromEnv()
	if err != nil {
		return err
	}
	return composeRunner.Run(ctx, plugins.Default(proj, logger), compose.Options{
		Variant:   plugins.VariantOpenedX,
		DryRun:    dryRun,
		ExtraOpts: extra,
		Args:      args,
		Project:   proj,
	})
}

// startsServices reports whether the pass-through arguments would start
// containers, which is when the backing services must already be up.
func startsServices(args []string) bool {
	for _, arg := range args {
		if arg == "up" || arg == "start" {
			return true
		}
	}
	return false
}

func resetProjectDB(ctx context.Context, proj *project.Project) error {
	if err := docker.WaitForMySQL(ctx); err != nil {
		return err
	}
	if err := docker.ResetDB(ctx, proj.MySQLDBName); err != nil {
		return err
	}
	if proj.FixturesDir == "" {
		return nil
	}
	dumps, err := sqlDumps(proj.FixturesDir)
	if err != nil {
		return err
	}
	for _, dump := range dumps {
		if err := docker.LoadDump(ctx, dump); err != nil {
			return err
		}
	}
	return nil
}

// sqlDumps lists the .sql fixtures of a project in name order.
func sqlDumps(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fixtures dir %s: %w", dir, err)
	}
	var dumps []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".sql") {
			dumps = append(dumps, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(dumps)
	return dumps, nil
}
