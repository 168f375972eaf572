// Package skills loads skill manifests: YAML files describing the command
// surface an AI assistant can drive through this CLI.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Command is one invocable operation a skill exposes.
type Command struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Usage       string `yaml:"usage,omitempty"`
}

// Skill is a parsed manifest.
type Skill struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Version     string    `yaml:"version,omitempty"`
	Commands    []Command `yaml:"commands"`
}

// Validate reports the first structural problem with the manifest.
func (s *Skill) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("skill manifest missing name")
	}
	for i, c := range s.Commands {
		if c.Name == "" {
			return fmt.Errorf("skill %q: command %d missing name", s.Name, i)
		}
	}
	return nil
}

// Load parses and validates a single manifest file.
func Load(path string) (*Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill manifest: %w", err)
	}

	skill := &Skill{}
	if err := yaml.Unmarshal(data, skill); err != nil {
		return nil, fmt.Errorf("failed to parse skill manifest %s: %w", filepath.Base(path), err)
	}
	if err := skill.Validate(); err != nil {
		return nil, err
	}
	return skill, nil
}

// List loads every .yaml/.yml manifest in dir, sorted by skill name. A
// missing directory yields an empty list, not an error.
func List(dir string) ([]*Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read skills directory: %w", err)
	}

	var skills []*Skill
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		skill, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}
