// main.go bootstraps ddc: it builds the root Cobra command and executes with a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/example/ddc/internal/compose"
	"github.com/example/ddc/internal/docker"
	"github.com/example/ddc/internal/project"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// composeRunner is replaced by tests to observe invocations without
// executing docker-compose.
var composeRunner compose.Runner = compose.NewRunner()

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	logLevel := "info"
	cmd := &cobra.Command{
		Use:   "ddc",
		Short: "Run docker-compose against an Open edX project",
		Long: "ddc wraps docker-compose to bring up a multi-service Open edX stack.\n" +
			"It resolves the enclosing project directory, derives content-addressed\n" +
			"image tags for the requirements and themes build layers, and merges\n" +
			"plugin-supplied compose fragments into the final invocation.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "Log level for ddc output (debug, info, warn, error)")

	servicesCmd := newServicesCommand(&logLevel)
	openedxCmd := newOpenedxCommand(&logLevel)
	runmodeCmd := newRunmodeCommand(&logLevel)
	projectCmd := newProjectCommand(&logLevel)
	cmd.AddCommand(servicesCmd, openedxCmd, runmodeCmd, projectCmd, newVersionCommand())
	cmd.Example = `  # Start the shared backing services (mysql, mongodb, rabbitmq...)
  ddc services up -d

  # Bring up the LMS/CMS daemons for the enclosing project
  ddc openedx up

  # Show what would be executed without running anything
  ddc openedx --dry-run up`

	bindViper(servicesCmd, openedxCmd, runmodeCmd, projectCmd)
	return cmd
}

func bindViper(commands ...*cobra.Command) {
	if len(commands) == 0 {
		return
	}
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("DDC")
	v.AutomaticEnv()
	configFile := os.Getenv("DDC_CONFIG")
	configureConfigFile(v, configFile)

	cobra.OnInitialize(func() {
		for _, cmd := range commands {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				cobra.CheckErr(err)
			}
		}
		if err := readConfigFile(v, configFile != ""); err != nil {
			cobra.CheckErr(err)
		}
		for _, cmd := range commands {
			cmd.Flags().VisitAll(func(f *pflag.Flag) {
				if f.Changed {
					return
				}
				if !v.IsSet(f.Name) {
					return
				}
				val := fmt.Sprintf("%v", v.Get(f.Name))
				if val != "" {
					_ = f.Value.Set(val)
				}
			})
		}
	})
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName("config")
	for _, dir := range configSearchDirs() {
		v.AddConfigPath(dir)
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if errors.As(err, &cfgErr) && !strict {
			return nil
		}
		return err
	}
	return nil
}

func configSearchDirs() []string {
	added := make(map[string]struct{})
	var dirs []string
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := added[path]; ok {
			return
		}
		added[path] = struct{}{}
		dirs = append(dirs, path)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		add(filepath.Join(xdg, "ddc"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		add(filepath.Join(home, ".config", "ddc"))
		add(filepath.Join(home, ".ddc"))
	}
	return dirs
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	var unavailable *docker.UnavailableError
	var notFound *project.NotFoundError
	switch {
	case errors.As(err, &unavailable):
		message = fmt.Sprintf("%s\nIs it installed and running? Make sure the docker command works and try again.", err)
	case errors.As(err, &notFound):
		message = fmt.Sprintf("%s\nHint: run ddc from inside a project directory (one containing a %s file).", err, project.ConfigFileName)
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", message)
}
