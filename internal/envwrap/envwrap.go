// Package envwrap prefixes a shell command with the steps that activate a
// conda-style environment.
package envwrap

import (
	"fmt"
	"path/filepath"

	"github.com/sixban6/smashrun/internal/command"
)

const (
	Conda      = "conda"
	Mamba      = "mamba"
	Micromamba = "micromamba"

	Bash = "bash"
	Zsh  = "zsh"
)

func ValidManager(m string) bool {
	switch filepath.Base(m) {
	case Conda, Mamba, Micromamba:
		return true
	}
	return false
}

func ValidShell(s string) bool {
	switch filepath.Base(s) {
	case Bash, Zsh:
		return true
	}
	return false
}

// Wrap returns cmd prefixed with the hook and activate steps for env. An
// empty env leaves cmd untouched.
func Wrap(cmd, env, manager, shell string) string {
	if env == "" {
		return cmd
	}
	return fmt.Sprintf("%s && %s activate %s && %s",
		hook(manager, shell), command.Quote(manager), command.Quote(env), cmd)
}

func hook(manager, shell string) string {
	sh := filepath.Base(shell)
	if filepath.Base(manager) == Micromamba {
		return fmt.Sprintf(`eval "$(%s shell hook --shell %s)"`, command.Quote(manager), sh)
	}
	return fmt.Sprintf(`eval "$(%s shell.%s hook)"`, command.Quote(manager), sh)
}
