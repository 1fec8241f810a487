package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON string

const snapshotSchemaURL = "https://github.com/nibzard/blossom/snapshot.schema.json"

var (
	snapshotSchemaOnce sync.Once
	snapshotSchema     *jsonschema.Schema
	snapshotSchemaErr  error
)

func compiledSnapshotSchema() (*jsonschema.Schema, error) {
	snapshotSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(snapshotSchemaURL, strings.NewReader(snapshotSchemaJSON)); err != nil {
			snapshotSchemaErr = fmt.Errorf("add snapshot schema: %w", err)
			return
		}
		snapshotSchema, snapshotSchemaErr = compiler.Compile(snapshotSchemaURL)
	})
	return snapshotSchema, snapshotSchemaErr
}

// decodeSnapshot parses and checks a persisted snapshot. Any returned error
// means the snapshot is incompatible and must be treated as empty.
func decodeSnapshot(data []byte) ([]Task, error) {
	schema, err := compiledSnapshotSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &ValidationError{Field: schemaErrorPath(err), Err: schemaErrorCause(err)}
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	seen := make(map[int64]struct{}, len(tasks))
	for i := range tasks {
		path := fmt.Sprintf("[%d]", i)
		text := strings.TrimSpace(tasks[i].Text)
		if text == "" {
			return nil, &ValidationError{Field: path + ".text", Err: ErrEmptyText}
		}
		tasks[i].Text = text
		if _, dup := seen[tasks[i].ID]; dup {
			return nil, &ValidationError{Field: path + ".id", Err: ErrDuplicateID}
		}
		seen[tasks[i].ID] = struct{}{}
	}
	return tasks, nil
}

// encodeSnapshot serializes tasks; an empty sequence encodes as [].
func encodeSnapshot(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// schemaErrorPath returns the instance path of the first leaf schema error.
func schemaErrorPath(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return ""
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return jsonPointerToPath(ve.InstanceLocation)
}

func schemaErrorCause(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return fmt.Errorf("%s", ve.Message)
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
