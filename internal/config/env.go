package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// envOr parses the variable key with parse, falling back to def when it
// is unset, empty or malformed.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func asString(s string) (string, error) { return s, nil }

func asInt(s string) (int, error) { return strconv.Atoi(s) }

// asDuration accepts Go durations ("90s", "1h") or a bare number of seconds.
func asDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// asPositiveDuration is asDuration for intervals that drive tickers and
// timeouts, where zero or less means the default.
func asPositiveDuration(s string) (time.Duration, error) {
	d, err := asDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

// envParents is how many directories above the working directory are
// searched for a .env, after the home locations.
const envParents = 2

// envFiles lists candidate .env files, most specific first.
func envFiles() []string {
	var paths []string
	cwd, cwdErr := os.Getwd()
	if cwdErr == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tdt", ".env"),
			filepath.Join(home, ".tdt", ".env"),
		)
	}
	if cwdErr == nil {
		dir := cwd
		for range envParents {
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			paths = append(paths, filepath.Join(parent, ".env"))
			dir = parent
		}
	}
	return paths
}

// defaultPath places name in ~/.config/tdt, or the working directory
// when there is no home.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", "tdt", name)
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
