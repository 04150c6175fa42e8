// Package version reports which build of tdt is running.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Set via -ldflags "-X"; anything left empty is resolved on first use.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once sync.Once

	// readBuildInfo and git are swapped out in tests.
	readBuildInfo = debug.ReadBuildInfo
	git           = runGit
)

const gitTimeout = 2 * time.Second

// resolve fills the blanks, preferring ldflags, then the module build
// info stamped by the go tool, then the local checkout.
func resolve() {
	once.Do(func() {
		if info, ok := readBuildInfo(); ok {
			fromBuildInfo(info)
		}
		if Commit == "" {
			Commit = gitOr("unknown", "describe", "--always", "--dirty")
		}
		if Version == "" {
			Version = gitOr("dev", "describe", "--tags", "--abbrev=0")
		}
		if Date == "" {
			Date = time.Now().Format(time.DateOnly)
		}
	})
}

func fromBuildInfo(info *debug.BuildInfo) {
	if v := info.Main.Version; Version == "" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "":
			Commit = s.Value
			if len(Commit) > 12 {
				Commit = Commit[:12]
			}
		case s.Key == "vcs.time" && Date == "":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				Date = t.Format(time.DateOnly)
			}
		}
	}
}

func gitOr(fallback string, args ...string) string {
	out, err := git(args...)
	if err != nil || out == "" {
		return fallback
	}
	return out
}

func runGit(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

// Reset clears resolved values so the next call re-detects them.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// GetVersion returns the release version, or "dev".
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the source commit, or "unknown".
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the build date as YYYY-MM-DD.
func GetDate() string {
	resolve()
	return Date
}

// Info returns the one-line banner printed by `tdt version`.
func Info() string {
	resolve()
	return fmt.Sprintf("tdt %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
