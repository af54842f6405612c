package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/gantry/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var schemaJSON []byte

const schemaURL = "https://gantry.dev/schemas/snapshot.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.AssertFormat = true
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("adding snapshot schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Issue is one problem found in a snapshot, located by a dotted path such
// as "projects.0.tasks.2.due".
type Issue struct {
	Path    string
	Message string
}

func (i Issue) Error() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Report collects structural errors and semantic warnings.
type Report struct {
	Errors   []Issue
	Warnings []Issue
}

func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Err folds the errors into a single error, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	msg := fmt.Sprintf("snapshot validation failed (%d errors):", len(r.Errors))
	for _, e := range r.Errors {
		msg += "\n  - " + e.Error()
	}
	return errors.New(msg)
}

// Validate checks f against the embedded schema, then for duplicate refs
// and tasks whose start falls after their due date. The semantic checks
// only warn.
func Validate(f *File) Report {
	var r Report
	if err := validateSchema(f, &r); err != nil {
		r.Errors = append(r.Errors, Issue{Message: err.Error()})
		return r
	}
	if !r.OK() {
		return r
	}

	refs := make(map[string]string)
	seen := func(path, ref string) {
		if ref == "" {
			return
		}
		if first, ok := refs[ref]; ok {
			r.Warnings = append(r.Warnings, Issue{Path: path, Message: fmt.Sprintf("ref %q already used at %s", ref, first)})
			return
		}
		refs[ref] = path
	}
	for i, p := range f.Projects {
		seen(fmt.Sprintf("projects.%d", i), p.Ref)
	}
	f.Walk(func(path string, _ int, t *TaskImport) {
		seen(path, t.Ref)
		start, _ := domain.ParseDate(t.Start)
		due, _ := domain.ParseDate(t.Due)
		if start.After(due) {
			r.Warnings = append(r.Warnings, Issue{Path: path, Message: fmt.Sprintf("start %s is after due %s", t.Start, t.Due)})
		}
	})
	return r
}

func validateSchema(f *File, r *Report) error {
	sch, err := schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		collectSchemaErrors(r, ve)
	}
	return nil
}

func collectSchemaErrors(r *Report, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		r.Errors = append(r.Errors, Issue{Path: pointerToPath(ve.InstanceLocation), Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(r, cause)
	}
}

func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
