package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/ddc/internal/project"
)

func servicesArgs(t *testing.T, reg *Registry) []string {
	t.Helper()
	args, err := reg.ComposeArgs(VariantServices)
	if err != nil {
		t.Fatalf("compose args: %v", err)
	}
	return args
}

func TestBaseServicesIncludesAdminByDefault(t *testing.T) {
	b := baseServices{cacheDir: t.TempDir()}
	args, err := b.provide()
	if err != nil {
		t.Fatalf("provide: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "docker-compose-services.yml") {
		t.Fatalf("services fragment missing: %v", args)
	}
	if !strings.Contains(joined, "docker-compose-admin.yml") {
		t.Fatalf("admin fragment should be included by default: %v", args)
	}
}

func TestBaseServicesAdminDisabled(t *testing.T) {
	t.Setenv(AdminServicesEnvVar, "false")
	b := baseServices{cacheDir: t.TempDir()}
	args, err := b.provide()
	if err != nil {
		t.Fatalf("provide: %v", err)
	}
	if strings.Contains(strings.Join(args, " "), "docker-compose-admin.yml") {
		t.Fatalf("admin fragment should be excluded: %v", args)
	}
}

func TestMaterializeTemplateWritesContent(t *testing.T) {
	dir := t.TempDir()
	path, err := materializeTemplate(dir, "fragment.yml", "services: {}\n")
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(raw) != "services: {}\n" {
		t.Fatalf("content mismatch: %q", raw)
	}
}

func TestDefaultRegistryLocalComposeLandsLast(t *testing.T) {
	root := t.TempDir()
	config := filepath.Join(root, project.ConfigFileName)
	if err := os.WriteFile(config, []byte("project_name: demo\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	local := filepath.Join(root, "docker-compose.yml")
	if err := os.WriteFile(local, []byte("services: {}\n"), 0o644); err != nil {
		t.Fatalf("write local compose: %v", err)
	}
	proj, err := project.Load(root, nil)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}

	args := servicesArgs(t, Default(proj, nil))
	if len(args) < 2 {
		t.Fatalf("too few fragments: %v", args)
	}
	if args[len(args)-1] != local {
		t.Fatalf("project compose file should be the last -f value so it overrides the built-ins, got %v", args)
	}
}

func TestDefaultRegistryWithoutProject(t *testing.T) {
	args := servicesArgs(t, Default(nil, nil))
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "docker-compose-services.yml") {
		t.Fatalf("built-in services fragment missing: %v", args)
	}
	openedx, err := Default(nil, nil).ComposeArgs(VariantOpenedX)
	if err != nil {
		t.Fatalf("openedx args: %v", err)
	}
	if !strings.Contains(strings.Join(openedx, " "), "docker-compose-openedx.yml") {
		t.Fatalf("built-in openedx fragment missing: %v", openedx)
	}
}
