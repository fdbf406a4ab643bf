package asciicaptcha

import "fmt"

// ConfigError reports an invalid or inconsistent configuration value.
// It is always fatal to the current generation call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("asciicaptcha: config %s: %s", e.Field, e.Reason)
}

// RenderError reports a drawing or font subsystem failure that survived the
// graceful font fallback chain, such as a corrupt embedded face.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("asciicaptcha: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
