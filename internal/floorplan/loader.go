package floorplan

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var referenceYAML []byte

// ErrUnsupportedFormat is returned for floor plan files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported floor plan format")

// File is the on-disk shape of a floor plan
type File struct {
	Tags        map[string]string     `json:"tags" yaml:"tags"`
	Graph       map[string][]Edge     `json:"graph" yaml:"graph"`
	Coordinates map[string]Coordinate `json:"coordinates" yaml:"coordinates"`
}

// Plan is a loaded floor plan: the navigation graph plus the tag table
type Plan struct {
	Graph  *Graph
	Tags   map[string]string
	Source string

	// Issues found while loading. They are logged once by Parse.
	Issues []Issue
}

// LoadDefault decodes the embedded reference floor plan
func LoadDefault() (*Plan, error) {
	return Parse(referenceYAML, "yaml", "embedded:reference.yaml")
}

// Load reads a floor plan from path. An empty path loads the embedded reference plan.
func Load(path string) (*Plan, error) {
	if path == "" {
		return LoadDefault()
	}

	slog.Info("Loading floor plan", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Parse(data, format, path)
}

// Parse decodes a floor plan in the given format ("yaml", "yml" or "json")
func Parse(data []byte, format, source string) (*Plan, error) {
	var file File

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to unmarshal floor plan: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to unmarshal floor plan: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	plan := &Plan{
		Graph:  New(file.Graph, file.Coordinates),
		Tags:   make(map[string]string, len(file.Tags)),
		Source: source,
	}
	for tag, room := range file.Tags {
		plan.Tags[tag] = room
	}

	issues := append(plan.Graph.Validate(), ValidateTags(plan.Graph, plan.Tags)...)
	plan.Issues = issues
	for _, issue := range issues {
		slog.Warn("Floor plan issue", "source", source, "kind", issue.Kind, "node", issue.Node, "detail", issue.Detail)
	}

	slog.Info("Floor plan loaded",
		"source", source,
		"nodes", plan.Graph.Len(),
		"edges", plan.Graph.EdgeCount(),
		"coordinates", len(file.Coordinates),
		"tags", len(plan.Tags),
		"issues", len(issues))

	return plan, nil
}
