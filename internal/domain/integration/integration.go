// Package integration writes MCP client configuration so editors and
// assistants connect to the running gateway. Each supported client has its
// own config location and shape; all of them end up pointing at the
// gateway's streamable HTTP endpoint.
package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// serverKey is the entry name written into each client's server map.
const serverKey = "notegate"

// Endpoint describes the running gateway a client should connect to.
type Endpoint struct {
	URL   string
	Token string // optional bearer token sent as an Authorization header
}

// Installer writes gateway entries into client config files.
type Installer struct {
	home string
}

// NewInstaller resolves the user's home directory once.
func NewInstaller() (*Installer, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &Installer{home: home}, nil
}

// NewInstallerAt roots all config paths under dir. Used by tests.
func NewInstallerAt(dir string) *Installer {
	return &Installer{home: dir}
}

type client struct {
	path    func(home string) string
	install func(path string, ep Endpoint) error
}

var clients = map[string]client{
	"cursor": {
		path:    func(home string) string { return filepath.Join(home, ".cursor", "mcp.json") },
		install: installJSONServers("mcpServers"),
	},
	"claude-desktop": {
		path: func(home string) string {
			if appData := os.Getenv("APPDATA"); appData != "" {
				return filepath.Join(appData, "Claude", "claude_desktop_config.json")
			}
			return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
		},
		install: installJSONServers("mcpServers"),
	},
	"claude-code": {
		path:    func(home string) string { return filepath.Join(home, ".claude", "settings.json") },
		install: installJSONServers("mcpServers"),
	},
	"zed": {
		path:    func(home string) string { return filepath.Join(home, ".config", "zed", "settings.json") },
		install: installJSONServers("context_servers"),
	},
	"codex": {
		path:    func(home string) string { return filepath.Join(home, ".codex", "config.toml") },
		install: installCodexTOML,
	},
}

// Clients lists the supported client IDs in stable order.
func Clients() []string {
	ids := make([]string, 0, len(clients))
	for id := range clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Install writes the gateway entry for the named client and returns the
// config file path it touched.
func (i *Installer) Install(clientID string, ep Endpoint) (string, error) {
	c, ok := clients[clientID]
	if !ok {
		return "", fmt.Errorf("unknown client %q (supported: %v)", clientID, Clients())
	}
	path := c.path(i.home)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := c.install(path, ep); err != nil {
		return "", err
	}
	return path, nil
}

func serverEntry(ep Endpoint) map[string]any {
	entry := map[string]any{
		"type": "http",
		"url":  ep.URL,
	}
	if ep.Token != "" {
		entry["headers"] = map[string]string{
			"Authorization": "Bearer " + ep.Token,
		}
	}
	return entry
}

// installJSONServers updates a JSON config file in place, preserving
// everything outside the named server map.
func installJSONServers(key string) func(path string, ep Endpoint) error {
	return func(path string, ep Endpoint) error {
		config := map[string]any{}
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, &config); err != nil {
				return fmt.Errorf("existing config %s is not valid JSON: %w", path, err)
			}
		}

		servers, ok := config[key].(map[string]any)
		if !ok {
			servers = map[string]any{}
			config[key] = servers
		}
		servers[serverKey] = serverEntry(ep)

		data, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	}
}

func installCodexTOML(path string, ep Endpoint) error {
	config := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("existing config %s is not valid TOML: %w", path, err)
		}
	}

	servers, ok := config["mcp_servers"].(map[string]any)
	if !ok {
		servers = map[string]any{}
		config["mcp_servers"] = servers
	}
	servers[serverKey] = serverEntry(ep)

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
