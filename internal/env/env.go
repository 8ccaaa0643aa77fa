// Package env resolves the runtime environment the process is running in.
package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/signbridge/internal/envvar"
)

// Environment is the deployment flavour of the running process.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// FromEnv reads SIGNBRIDGE_ENV. Unknown or empty values map to Development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.SignbridgeEnv))
}

// Parse converts a raw string into an Environment.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether e is Production.
func (e Environment) IsProduction() bool {
	return e == Production
}
