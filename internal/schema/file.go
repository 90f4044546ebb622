package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a schema definition loaded from YAML:
//
//	type: custom
//	fields:
//	  - name: prompt
//	    required: true
//	    min_length: 10
//	  - name: completion
//	    required: true
type File struct {
	Type   DatasetType   `yaml:"type"`
	Fields []FieldSchema `yaml:"fields"`
}

// LoadFile reads a schema file. Field indexes are assigned from list
// position; a missing type defaults to custom.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}
	return f, nil
}

// ParseFile decodes a YAML schema document.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if f.Type == TypeUndefined {
		f.Type = TypeCustom
	} else {
		t, err := ParseDatasetType(string(f.Type))
		if err != nil {
			return nil, err
		}
		f.Type = t
	}

	for i := range f.Fields {
		f.Fields[i].Index = i
	}

	if err := Check(f.Fields); err != nil {
		return nil, err
	}
	return &f, nil
}
