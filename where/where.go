// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/eyedrop-cli/eyedrop/constant"
	"github.com/eyedrop-cli/eyedrop/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "EYEDROP_CONFIG_PATH"

// EnvSocketPath overrides the location of the daemon socket.
const EnvSocketPath = "EYEDROP_SOCKET_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It can be overridden with the EYEDROP_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Store resolves the file used by the file-backed key-value store.
func Store() string {
	return filepath.Join(Config(), "store.json")
}

// Database resolves the file used by the sqlite-backed key-value store.
func Database() string {
	return filepath.Join(Config(), "store.db")
}

// Socket resolves the unix socket the daemon listens on.
// The socket lives in the OS temp directory rather than the afero backend, since it is never a regular file.
func Socket() string {
	if custom, ok := os.LookupEnv(EnvSocketPath); ok {
		return custom
	}

	dir := filepath.Join(os.TempDir(), constant.App)
	lo.Must0(os.MkdirAll(dir, 0o700))
	return filepath.Join(dir, constant.App+".sock")
}

// Temp resolves a volatile directory for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
