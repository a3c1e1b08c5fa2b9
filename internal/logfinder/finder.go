// Package logfinder locates the World of Warcraft combat log directory and
// the newest combat log in it.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// EnvLogDir is the environment variable name for specifying log directory.
const EnvLogDir = "WOWLOG_LOGDIR"

// LogGlob matches combat log files. The game writes either a single
// WoWCombatLog.txt or one WoWCombatLog-MMDDYY_HHMMSS.txt per session.
const LogGlob = "WoWCombatLog*.txt"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// gameFlavors are the client directories that keep their own Logs folder.
var gameFlavors = []string{"_retail_", "_classic_", "_classic_era_"}

// DefaultLogDirs returns candidate combat log directories in priority order.
func DefaultLogDirs() []string {
	var roots []string
	switch runtime.GOOS {
	case "windows":
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
			if pf := os.Getenv(env); pf != "" {
				roots = append(roots, filepath.Join(pf, "World of Warcraft"))
			}
		}
	case "darwin":
		roots = append(roots, "/Applications/World of Warcraft")
	default:
		// Wine and Proton prefixes are too varied to guess beyond the default.
		if home, err := os.UserHomeDir(); err == nil {
			roots = append(roots, filepath.Join(home, ".wine", "drive_c", "Program Files (x86)", "World of Warcraft"))
		}
	}

	dirs := make([]string, 0, len(roots)*len(gameFlavors))
	for _, root := range roots {
		for _, flavor := range gameFlavors {
			dirs = append(dirs, filepath.Join(root, flavor, "Logs"))
		}
	}
	return dirs
}

// FindLogDir returns the combat log directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. WOWLOG_LOGDIR environment variable
//  3. Auto-detect from DefaultLogDirs()
//
// explicit and WOWLOG_LOGDIR may name the Logs folder itself, a client
// folder such as _retail_, or the game install root. The first candidate
// holding a regular combat log file wins, with symlinks resolved.
// Otherwise the error wraps ErrLogDirNotFound and lists the candidates tried.
func FindLogDir(explicit string) (string, error) {
	var source string
	var candidates []string
	switch envDir := os.Getenv(EnvLogDir); {
	case explicit != "":
		source = "specified directory"
		candidates = installCandidates(explicit)
	case envDir != "":
		source = EnvLogDir
		candidates = installCandidates(envDir)
	default:
		source = "default install locations"
		candidates = DefaultLogDirs()
	}

	for _, dir := range candidates {
		if resolved, ok := combatLogDir(dir); ok {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%w: no combat logs via %s (tried %s)",
		ErrLogDirNotFound, source, strings.Join(candidates, ", "))
}

// installCandidates expands a user-supplied directory into the places the
// game may keep its logs under it, most specific first.
func installCandidates(dir string) []string {
	dirs := []string{dir, filepath.Join(dir, "Logs")}
	for _, flavor := range gameFlavors {
		dirs = append(dirs, filepath.Join(dir, flavor, "Logs"))
	}
	return dirs
}

// logCandidate holds a log file path and its cached modification time.
type logCandidate struct {
	path    string
	modTime int64
}

// FindLatestLogFile returns the most recently modified combat log in dir.
//
// Returns ErrNoLogFiles if there is none. Stat results are cached so a file
// deleted between globbing and sorting cannot be chosen.
func FindLatestLogFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, LogGlob))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{
			path:    m,
			modTime: info.ModTime().UnixNano(),
		})
	}

	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	// Newest first; ties go to the lexically greater name, which for
	// timestamped logs is the later session.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].modTime != candidates[j].modTime {
			return candidates[i].modTime > candidates[j].modTime
		}
		return candidates[i].path > candidates[j].path
	})

	return candidates[0].path, nil
}

// combatLogDir resolves symlinks in dir and reports whether it holds at
// least one regular combat log file.
func combatLogDir(dir string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(resolved); err != nil || !info.IsDir() {
		return "", false
	}
	if _, err := FindLatestLogFile(resolved); err != nil {
		return "", false
	}
	return resolved, true
}
