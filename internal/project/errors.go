package project

import "fmt"

// NotFoundError reports that no project configuration file was found walking
// up from the starting directory.
type NotFoundError struct {
	Start string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no directory with a %s file found walking up from %s", ConfigFileName, e.Start)
}

// ConfigError reports an invalid or incomplete project configuration file.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid project configuration %s: %s", e.Path, e.Reason)
}
