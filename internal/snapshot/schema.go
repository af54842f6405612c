// Package snapshot loads project/task fixtures from YAML or JSON, validates
// them against an embedded JSON Schema and converts them to domain values.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the root of a snapshot document.
type File struct {
	Version  int             `json:"version,omitempty" yaml:"version"`
	Projects []ProjectImport `json:"projects" yaml:"projects"`
}

type ProjectImport struct {
	Ref       string       `json:"ref,omitempty" yaml:"ref"`
	Name      string       `json:"name" yaml:"name"`
	Color     string       `json:"color,omitempty" yaml:"color"`
	Collapsed bool         `json:"collapsed,omitempty" yaml:"collapsed"`
	Tasks     []TaskImport `json:"tasks,omitempty" yaml:"tasks"`
}

// TaskImport is one task with its subtasks nested under Children.
type TaskImport struct {
	Ref       string       `json:"ref,omitempty" yaml:"ref"`
	Name      string       `json:"name" yaml:"name"`
	Start     string       `json:"start" yaml:"start"`
	Due       string       `json:"due" yaml:"due"`
	Completed bool         `json:"completed,omitempty" yaml:"completed"`
	Milestone bool         `json:"milestone,omitempty" yaml:"milestone"`
	Collapsed bool         `json:"collapsed,omitempty" yaml:"collapsed"`
	Children  []TaskImport `json:"children,omitempty" yaml:"children"`
}

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var ErrEmpty = errors.New("snapshot is empty")

// FormatFor picks the decoder from the file extension; anything that is not
// .json is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and decodes the snapshot at path. Unknown fields are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	f, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func Parse(data []byte, format Format) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	var f File
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing snapshot json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrEmpty
			}
			return nil, fmt.Errorf("parsing snapshot yaml: %w", err)
		}
	}
	return &f, nil
}

// Walk visits every task depth-first with its JSON-pointer-like path.
func (f *File) Walk(fn func(path string, depth int, t *TaskImport)) {
	for pi := range f.Projects {
		walkTasks(fmt.Sprintf("projects.%d.tasks", pi), 0, f.Projects[pi].Tasks, fn)
	}
}

func walkTasks(prefix string, depth int, tasks []TaskImport, fn func(string, int, *TaskImport)) {
	for i := range tasks {
		path := fmt.Sprintf("%s.%d", prefix, i)
		fn(path, depth, &tasks[i])
		walkTasks(path+".children", depth+1, tasks[i].Children, fn)
	}
}
