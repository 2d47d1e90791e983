package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Repo is one tracked repository. DisplayName keys the store file and the
// chart filenames; Owner/Name identify the repository at the API.
type Repo struct {
	Owner       string `json:"owner" yaml:"owner"`
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// FullName returns the owner/name form used in API paths and log lines.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// Registry is the explicit list of tracked repositories. It is loaded once
// per invocation and passed into every command; nothing reads it from
// ambient global state.
type Registry struct {
	Repositories []Repo `json:"repositories" yaml:"repositories"`
}

// LoadRegistry reads the repository registry from a JSON or YAML file.
// JSON registries use the historical collector layout:
//
//	{"repositories": [{"owner": ..., "name": ..., "display_name": ...}]}
//
// YAML is accepted with the same field names. yaml.v3 parses both, JSON
// being a subset of YAML.
func LoadRegistry(path string) (*Registry, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}

	if len(reg.Repositories) == 0 {
		return nil, fmt.Errorf("registry %s lists no repositories", path)
	}
	for i, r := range reg.Repositories {
		if r.Owner == "" || r.Name == "" {
			return nil, fmt.Errorf("registry %s: repository %d missing owner or name", path, i+1)
		}
		if r.DisplayName == "" {
			reg.Repositories[i].DisplayName = r.Name
		}
	}

	return &reg, nil
}

// Find returns the repository whose display name matches (case-insensitive),
// or false if the registry does not track it.
func (r *Registry) Find(displayName string) (Repo, bool) {
	for _, repo := range r.Repositories {
		if strings.EqualFold(repo.DisplayName, displayName) {
			return repo, true
		}
	}
	return Repo{}, false
}
