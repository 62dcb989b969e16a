package config

import (
	"embed"
	"os"
)

//go:embed default.yaml
var defaultsFS embed.FS

const defaultName = "default.yaml"

// Load reads name from disk, falling back to the embedded defaults when
// name is empty.
func Load(name string) ([]byte, error) {
	if name == "" {
		return defaultsFS.ReadFile(defaultName)
	}
	return os.ReadFile(name)
}
