// File: internal/project/status.go
// Brief: Per-project single-value status files and the runmode enum.

package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// RunMode selects how the Open edX services are run. In debug mode django's
// runserver is used, templates reload on every request and assets need no
// collection. In production mode gunicorn runs and assets must be compiled
// and collected.
type RunMode string

const (
	RunModeDebug      RunMode = "debug"
	RunModeProduction RunMode = "production"

	runModeStatusName = "runmode"
)

// ParseRunMode validates a runmode string.
func ParseRunMode(s string) (RunMode, error) {
	switch RunMode(strings.TrimSpace(s)) {
	case RunModeDebug:
		return RunModeDebug, nil
	case RunModeProduction:
		return RunModeProduction, nil
	}
	return "", fmt.Errorf("invalid runmode %q (valid values are %q and %q)", s, RunModeDebug, RunModeProduction)
}

// RunMode resolves the project's run mode: the persisted status file wins,
// then the default_runmode config key, then debug. Unrecognized values are
// warned about and skipped rather than failing the invocation.
func (p *Project) RunMode() RunMode {
	if persisted, ok := p.readStatus(runModeStatusName); ok {
		mode, err := ParseRunMode(persisted)
		if err == nil {
			return mode
		}
		p.log.Warn("ignoring unrecognized persisted runmode",
			zap.String("value", persisted),
			zap.String("file", p.statusPath(runModeStatusName)))
	}
	if p.Config.DefaultRunMode != "" {
		mode, err := ParseRunMode(p.Config.DefaultRunMode)
		if err == nil {
			return mode
		}
		p.log.Warn("ignoring unrecognized default_runmode",
			zap.String("value", p.Config.DefaultRunMode),
			zap.String("file", filepath.Join(p.Root, ConfigFileName)))
	}
	return RunModeDebug
}

// SetRunMode persists the run mode in the project directory.
func (p *Project) SetRunMode(mode RunMode) error {
	return p.writeStatus(runModeStatusName, string(mode))
}

// readStatus reads the value of a status from the project directory. The
// second return is false when no status file exists or it cannot be read.
func (p *Project) readStatus(name string) (string, bool) {
	raw, err := os.ReadFile(p.statusPath(name))
	if err != nil {
		if !os.IsNotExist(err) {
			p.log.Warn("unable to read status file", zap.String("status", name), zap.Error(err))
		}
		return "", false
	}
	return strings.TrimSpace(string(raw)), true
}

// writeStatus persists a status value in the project directory. Last writer
// wins: concurrent invocations may interleave, which is acceptable for
// advisory developer-workflow state.
func (p *Project) writeStatus(name, value string) error {
	path := p.statusPath(name)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write status %s: %w", path, err)
	}
	return nil
}

func (p *Project) statusPath(name string) string {
	return filepath.Join(p.Root, name)
}
