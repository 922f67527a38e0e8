// File: internal/plugins/base.go
// Brief: Built-in plugins backed by compose templates shipped in the binary.

package plugins

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/ddc/internal/project"
	"go.uber.org/zap"
)

// AdminServicesEnvVar toggles the administrative compose fragment (adminer,
// mailslurper). Truthy tokens enable it; it defaults to enabled when unset.
const AdminServicesEnvVar = "DDC_ADMIN_SERVICES"

var (
	//go:embed templates/docker-compose-services.yml
	servicesTemplate string
	//go:embed templates/docker-compose-admin.yml
	adminTemplate string
	//go:embed templates/docker-compose-openedx.yml
	openedxTemplate string
)

// Default builds the registry used by the CLI: the project-local compose file
// (when present) registered first so its fragment lands last in the
// aggregated list, then the built-in openedx and services plugins.
func Default(proj *project.Project, logger *zap.Logger) *Registry {
	reg := NewRegistry(logger)
	if proj != nil && proj.LocalCompose != "" {
		reg.Register(localProject{path: proj.LocalCompose})
	}
	reg.Register(baseOpenedX{}, baseServices{})
	return reg
}

// baseServices supplies the shared backing services (mysql, mongodb,
// rabbitmq and friends) plus, unless disabled via AdminServicesEnvVar, the
// administrative tools fragment.
type baseServices struct {
	cacheDir string
}

func (baseServices) Name() string { return "base-services" }

func (b baseServices) Settings() map[string]Provider {
	return map[string]Provider{VariantServices: b.provide}
}

func (b baseServices) provide() ([]string, error) {
	path, err := materializeTemplate(b.cacheDir, "docker-compose-services.yml", servicesTemplate)
	if err != nil {
		return nil, err
	}
	args := []string{"-f", path}
	if envBool(AdminServicesEnvVar, true) {
		adminPath, err := materializeTemplate(b.cacheDir, "docker-compose-admin.yml", adminTemplate)
		if err != nil {
			return nil, err
		}
		args = append(args, "-f", adminPath)
	}
	return args, nil
}

// baseOpenedX supplies the LMS/CMS/worker daemons. The fragment references
// the project identity through compose interpolation variables exported by
// the invocation builder.
type baseOpenedX struct {
	cacheDir string
}

func (baseOpenedX) Name() string { return "base-openedx" }

func (b baseOpenedX) Settings() map[string]Provider {
	return map[string]Provider{VariantOpenedX: b.provide}
}

func (b baseOpenedX) provide() ([]string, error) {
	path, err := materializeTemplate(b.cacheDir, "docker-compose-openedx.yml", openedxTemplate)
	if err != nil {
		return nil, err
	}
	return []string{"-f", path}, nil
}

// localProject contributes a project-level docker-compose.yml to the
// services variant so projects can layer overrides on the built-in stack.
type localProject struct {
	path string
}

func (localProject) Name() string { return "project-compose" }

func (l localProject) Settings() map[string]Provider {
	return map[string]Provider{
		VariantServices: func() ([]string, error) {
			return []string{"-f", l.path}, nil
		},
	}
}

// materializeTemplate writes an embedded template under the cache dir so it
// can be handed to docker-compose as a real path. Templates are rewritten on
// every run to stay in sync with the binary.
func materializeTemplate(cacheDir, name, content string) (string, error) {
	dir := cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "ddc", "templates")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create template dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write template %s: %w", path, err)
	}
	return path, nil
}
