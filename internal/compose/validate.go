// File: internal/compose/validate.go
// Brief: Fail-fast validation of aggregated compose fragments.

package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/example/ddc/internal/project"
)

// Validate runs the fragment argument list (alternating -f/path pairs)
// through the compose loader so malformed fragments are rejected before any
// invocation. The project, when given, supplies the compose project name and
// the interpolation variables its fragments reference.
func Validate(ctx context.Context, fragmentArgs []string, proj *project.Project) error {
	files := FilesFromArgs(fragmentArgs)
	if len(files) == 0 {
		return fmt.Errorf("no compose files to validate")
	}

	env := make(composetypes.Mapping)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	for _, kv := range ProjectEnv(proj) {
		key, value, _ := strings.Cut(kv, "=")
		env[key] = value
	}

	configFiles := make([]composetypes.ConfigFile, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read compose file %s: %w", path, err)
		}
		configFiles = append(configFiles, composetypes.ConfigFile{Filename: path, Content: data})
	}

	details := composetypes.ConfigDetails{
		WorkingDir:  filepath.Dir(files[0]),
		ConfigFiles: configFiles,
		Environment: env,
	}

	name := "ddc"
	if proj != nil {
		name = proj.Name
	}
	_, err := loader.LoadWithContext(ctx, details, func(o *loader.Options) {
		o.SetProjectName(name, true)
	})
	if err != nil {
		return fmt.Errorf("validate compose fragments: %w", err)
	}
	return nil
}

// FilesFromArgs extracts the file paths from an alternating -f/path argument
// list, ignoring anything that is not part of a -f pair.
func FilesFromArgs(args []string) []string {
	var files []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-f" && i+1 < len(args) {
			files = append(files, args[i+1])
			i++
		}
	}
	return files
}
