package compose

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/example/ddc/internal/plugins"
	"github.com/example/ddc/internal/project"
)

type stubPlugin struct {
	name     string
	settings map[string]plugins.Provider
}

func (s stubPlugin) Name() string                          { return s.name }
func (s stubPlugin) Settings() map[string]plugins.Provider { return s.settings }

func fragmentRegistry(t *testing.T, fragments ...string) *plugins.Registry {
	t.Helper()
	reg := plugins.NewRegistry(nil)
	reg.Register(stubPlugin{name: "stub", settings: map[string]plugins.Provider{
		"services": func() ([]string, error) { return fragments, nil },
	}})
	return reg
}

func TestBuildArgsOrder(t *testing.T) {
	reg := fragmentRegistry(t, "-f", "services.yml")
	argv, err := BuildArgs(reg, Options{
		Variant:   "services",
		ExtraOpts: []string{"--project-name", "demo"},
		Args:      []string{"up", "-d"},
	})
	if err != nil {
		t.Fatalf("build args: %v", err)
	}
	want := []string{"docker-compose", "-f", "services.yml", "--project-name", "demo", "up", "-d"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
}

func TestBuildArgsPropagatesAggregationFailure(t *testing.T) {
	reg := plugins.NewRegistry(nil)
	reg.Register(stubPlugin{name: "bad", settings: map[string]plugins.Provider{
		"services": func() ([]string, error) { return nil, os.ErrPermission },
	}})
	if _, err := BuildArgs(reg, Options{Variant: "services"}); err == nil {
		t.Fatalf("expected aggregation failure to propagate")
	}
}

func TestExtraOptsFromEnv(t *testing.T) {
	t.Setenv(ExtraOptsEnvVar, `--project-name "my demo"`)
	opts, err := ExtraOptsFromEnv()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"--project-name", "my demo"}
	if !reflect.DeepEqual(opts, want) {
		t.Fatalf("opts = %v, want %v", opts, want)
	}

	t.Setenv(ExtraOptsEnvVar, "")
	opts, err = ExtraOptsFromEnv()
	if err != nil || opts != nil {
		t.Fatalf("empty env should yield no opts, got %v, %v", opts, err)
	}
}

func TestDryRunPrintsWithoutExecuting(t *testing.T) {
	reg := fragmentRegistry(t, "-f", "services.yml")
	var out bytes.Buffer
	err := NewRunner().Run(context.Background(), reg, Options{
		Variant: "services",
		DryRun:  true,
		Args:    []string{"up"},
		Output:  &out,
	})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Would have run") {
		t.Fatalf("dry run output missing header: %q", text)
	}
	if !strings.Contains(text, "docker-compose -f services.yml up") {
		t.Fatalf("dry run output missing argv: %q", text)
	}
}

func TestProjectEnv(t *testing.T) {
	root := t.TempDir()
	config := filepath.Join(root, project.ConfigFileName)
	if err := os.WriteFile(config, []byte("project_name: demo\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	proj, err := project.Load(root, nil)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}

	env := ProjectEnv(proj)
	joined := strings.Join(env, "\n")
	for _, want := range []string{
		"DDC_PROJECT_NAME=demo",
		"DDC_IMAGE_TAG=" + proj.ImageTag,
		"DDC_MYSQL_DB_NAME=demo_edxapp",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("project env missing %q:\n%s", want, joined)
		}
	}
	if ProjectEnv(nil) != nil {
		t.Fatalf("nil project should yield no env")
	}
}
