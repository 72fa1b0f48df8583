package extended

import (
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix of every configuration environment variable.
const envPrefix = "EXTENDED_EXTRACTOR"

// Config controls where the native loader looks for the extended module.
// The module name and entry points are fixed by the build (see Scheme);
// only the search locations are configurable.
//
// Environment variables:
//   - EXTENDED_EXTRACTOR_LIB_PATH: exact path of the module file
//   - EXTENDED_EXTRACTOR_SDK_LIB_PATH: directory containing the module
//   - EXTENDED_EXTRACTOR_SEARCH_PATHS: comma-separated extra directories
type Config struct {
	LibPath     string   `envconfig:"LIB_PATH"`
	SDKLibPath  string   `envconfig:"SDK_LIB_PATH"`
	SearchPaths []string `envconfig:"SEARCH_PATHS"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LibraryPaths returns the candidate locations for libName, most specific
// first. The bare name comes last so the system linker path still applies.
func (c Config) LibraryPaths(libName string) []string {
	var paths []string

	// Environment variable overrides
	if c.LibPath != "" {
		paths = append(paths, c.LibPath)
	}
	if c.SDKLibPath != "" {
		paths = append(paths, filepath.Join(c.SDKLibPath, libName))
	}
	for _, dir := range c.SearchPaths {
		if dir != "" {
			paths = append(paths, filepath.Join(dir, libName))
		}
	}

	// Try to find based on executable location
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
		)
	}

	// Try module root (development trees keep built modules in build/)
	if root := findModuleRoot(); root != "" {
		paths = append(paths, filepath.Join(root, "build", libName))
	}

	// System linker path
	paths = append(paths, libName)

	return dedupePaths(paths)
}

func dedupePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
