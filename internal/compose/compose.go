// File: internal/compose/compose.go
// Brief: Final docker-compose argument assembly and delegated execution.

// Package compose assembles the docker-compose argument vector from plugin
// fragments, extra options and pass-through user arguments, then either
// prints it (dry run) or hands it to the external docker-compose binary.
package compose

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/example/ddc/internal/plugins"
	"github.com/example/ddc/internal/project"
	"github.com/fatih/color"
	shellwords "github.com/mattn/go-shellwords"
)

const (
	composeCommand = "docker-compose"

	// ExtraOptsEnvVar carries additional docker-compose options, parsed with
	// shell quoting rules and inserted between the plugin fragments and the
	// user arguments.
	ExtraOptsEnvVar = "DDC_COMPOSE_OPTS"
)

// Options configure a single compose invocation.
type Options struct {
	Variant   string
	DryRun    bool
	ExtraOpts []string
	Args      []string

	// Project, when set, is exported to docker-compose through DDC_* env
	// vars so fragments can reference the derived image tags.
	Project *project.Project

	Output    io.Writer
	ErrOutput io.Writer
}

// Runner executes compose invocations. The default implementation shells out
// to docker-compose; tests substitute their own.
type Runner interface {
	Run(ctx context.Context, reg *plugins.Registry, opts Options) error
}

// NewRunner returns the exec-backed runner.
func NewRunner() Runner {
	return &execRunner{}
}

// BuildArgs assembles the full argument vector:
// [docker-compose] + aggregated fragments + extra opts + user args.
func BuildArgs(reg *plugins.Registry, opts Options) ([]string, error) {
	fragments, err := reg.ComposeArgs(opts.Variant)
	if err != nil {
		return nil, err
	}
	argv := make([]string, 0, 1+len(fragments)+len(opts.ExtraOpts)+len(opts.Args))
	argv = append(argv, composeCommand)
	argv = append(argv, fragments...)
	argv = append(argv, opts.ExtraOpts...)
	argv = append(argv, opts.Args...)
	return argv, nil
}

// ExtraOptsFromEnv parses ExtraOptsEnvVar with shell quoting rules.
func ExtraOptsFromEnv() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv(ExtraOptsEnvVar))
	if raw == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ExtraOptsEnvVar, err)
	}
	return args, nil
}

// ProjectEnv returns the DDC_* variables exported to docker-compose for
// fragment interpolation.
func ProjectEnv(p *project.Project) []string {
	if p == nil {
		return nil
	}
	return []string{
		"DDC_PROJECT_NAME=" + p.Name,
		"DDC_IMAGE_TAG=" + p.ImageTag,
		"DDC_REQUIREMENTS_IMAGE_TAG=" + p.RequirementsImageTag,
		"DDC_THEMES_IMAGE_TAG=" + p.ThemesImageTag,
		"DDC_MYSQL_DB_NAME=" + p.MySQLDBName,
	}
}

type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, reg *plugins.Registry, opts Options) error {
	argv, err := BuildArgs(reg, opts)
	if err != nil {
		return err
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.ErrOutput
	if errOut == nil {
		errOut = os.Stderr
	}

	if opts.DryRun {
		fmt.Fprintln(out, "Would have run")
		color.New(color.FgBlue).Fprintln(out, strings.Join(argv, " "))
		return nil
	}

	fmt.Fprintf(out, "Running %s\n", strings.Join(argv, " "))
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = out
	cmd.Stderr = errOut
	cmd.Env = append(os.Environ(), ProjectEnv(opts.Project)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", composeCommand, err)
	}
	return nil
}
