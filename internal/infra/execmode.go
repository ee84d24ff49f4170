package infra

import (
	"os"
	"os/user"
	"path/filepath"
)

// ExecMode represents the privilege level devclean runs with.
type ExecMode string

const (
	// ExecModeUser runs as a regular user; config lives under the user's home.
	ExecModeUser ExecMode = "user"
	// ExecModeSystem runs as root; config lives under /etc.
	ExecModeSystem ExecMode = "system"
)

// ExecModeConfig holds paths and settings based on execution mode.
type ExecModeConfig struct {
	Mode       ExecMode
	ConfigDir  string // Where config.yaml is looked up
	ConfigPath string // Full path to config.yaml
	IsRoot     bool   // Whether running as root
}

const configFileName = "config.yaml"

// DetectExecMode determines the execution mode based on effective UID.
func DetectExecMode() *ExecModeConfig {
	if os.Geteuid() == 0 {
		return systemModeConfig()
	}
	home, _ := os.UserHomeDir()
	return userModeConfig(home, false)
}

func systemModeConfig() *ExecModeConfig {
	dir := filepath.Join("/etc", "devclean")
	return &ExecModeConfig{
		Mode:       ExecModeSystem,
		ConfigDir:  dir,
		ConfigPath: filepath.Join(dir, configFileName),
		IsRoot:     true,
	}
}

func userModeConfig(home string, isRoot bool) *ExecModeConfig {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" || isRoot {
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, "devclean")
	return &ExecModeConfig{
		Mode:       ExecModeUser,
		ConfigDir:  dir,
		ConfigPath: filepath.Join(dir, configFileName),
		IsRoot:     isRoot,
	}
}

// String returns a human-readable description of the mode.
func (m ExecMode) String() string {
	switch m {
	case ExecModeSystem:
		return "system (root)"
	case ExecModeUser:
		return "user (non-root)"
	default:
		return "unknown"
	}
}

// GetUserModeConfig returns user mode config regardless of current euid.
// Under sudo, the invoking user's config is used so that `sudo devclean`
// honors the same settings as a plain run.
func GetUserModeConfig() *ExecModeConfig {
	return userModeConfig(GetRealUserHome(), os.Geteuid() == 0)
}

// GetRealUserHome returns the real user's home directory, even when running under sudo.
// Under sudo, os.UserHomeDir() returns root's home, so we use SUDO_USER to find the real user.
func GetRealUserHome() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir
		}
	}
	home, _ := os.UserHomeDir()
	return home
}

// ConfigFile returns the config file a run reads by default: the exec-mode
// location, or under sudo the invoking user's file when /etc holds none.
func ConfigFile() string {
	mode := DetectExecMode()
	if !mode.IsRoot || os.Getenv("SUDO_USER") == "" {
		return mode.ConfigPath
	}
	if _, err := os.Stat(mode.ConfigPath); err == nil {
		return mode.ConfigPath
	}
	return GetUserModeConfig().ConfigPath
}
