package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoGitHubToken is returned when no Copilot credentials can be found.
var ErrNoGitHubToken = errors.New("GitHub token not found: set GITHUB_TOKEN or sign in to GitHub Copilot in your editor")

// LoadGitHubToken finds a GitHub OAuth token usable for Copilot.
// GITHUB_TOKEN wins; otherwise the Copilot editor plugin files are searched.
func LoadGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("getting config directory: %w", err)
	}

	for _, name := range []string{"hosts.json", "apps.json"} {
		if token, err := tokenFromFile(filepath.Join(dir, "github-copilot", name)); err == nil && token != "" {
			return token, nil
		}
	}

	return "", ErrNoGitHubToken
}

// configDir returns the per-user configuration directory for the platform.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return local, nil
		}
		return filepath.Join(home, "AppData", "Local"), nil
	}

	return filepath.Join(home, ".config"), nil
}

// tokenFromFile reads the oauth_token of the github.com entry in a Copilot
// plugin file.
func tokenFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var hosts map[string]struct {
		OAuthToken string `json:"oauth_token"`
	}
	if err := json.Unmarshal(data, &hosts); err != nil {
		return "", err
	}

	for host, entry := range hosts {
		if strings.Contains(host, "github.com") && entry.OAuthToken != "" {
			return entry.OAuthToken, nil
		}
	}

	return "", fmt.Errorf("oauth_token not found in %s", path)
}
