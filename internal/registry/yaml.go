package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlField is the on-disk shape of a field descriptor.
type yamlField struct {
	Name        string            `yaml:"name"`
	Aliases     []string          `yaml:"aliases,omitempty"`
	Type        string            `yaml:"type"`
	Column      string            `yaml:"column,omitempty"`
	FrontColumn string            `yaml:"front_column,omitempty"`
	BackColumn  string            `yaml:"back_column,omitempty"`
	Regex       bool              `yaml:"regex,omitempty"`
	Arithmetic  bool              `yaml:"arithmetic,omitempty"`
	SetMode     string            `yaml:"set_mode,omitempty"`
	Enum        []string          `yaml:"enum,omitempty"`
	EnumAliases map[string]string `yaml:"enum_aliases,omitempty"`
	Flags       map[string]string `yaml:"flags,omitempty"`
	Bare        bool              `yaml:"bare,omitempty"`
}

// yamlRegistry is the top-level on-disk document.
type yamlRegistry struct {
	Fields []yamlField `yaml:"fields"`
}

var yamlTypes = map[string]FieldType{
	"text":     Text,
	"numeric":  Numeric,
	"color":    Color,
	"identity": ColorIdentity,
	"keyword":  Keyword,
	"boolean":  Boolean,
	"date":     Date,
}

var yamlSetModes = map[string]SetMode{
	"":         SetNone,
	"array":    SetArray,
	"legality": SetLegality,
	"text":     SetText,
}

// LoadYAML reads a registry definition from r. Unknown document keys
// are rejected so typos fail at load time rather than query time.
func LoadYAML(r io.Reader) (*Registry, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc yamlRegistry
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("registry defines no fields")
	}
	fields := make([]Field, 0, len(doc.Fields))
	for _, yf := range doc.Fields {
		field, err := yf.toField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return New(fields)
}

// LoadFile reads a registry definition from a YAML file.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry file: %w", err)
	}
	defer f.Close()
	reg, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return reg, nil
}

// toField converts the on-disk shape into a descriptor.
func (yf yamlField) toField() (Field, error) {
	fieldType, ok := yamlTypes[yf.Type]
	if !ok {
		return Field{}, fmt.Errorf("field %s: unknown type %q", yf.Name, yf.Type)
	}
	setMode, ok := yamlSetModes[yf.SetMode]
	if !ok {
		return Field{}, fmt.Errorf("field %s: unknown set mode %q", yf.Name, yf.SetMode)
	}
	return Field{
		Name:               yf.Name,
		Aliases:            yf.Aliases,
		Type:               fieldType,
		Column:             yf.Column,
		FaceColumns:        [2]string{yf.FrontColumn, yf.BackColumn},
		SupportsRegex:      yf.Regex,
		SupportsArithmetic: yf.Arithmetic,
		SetMode:            setMode,
		Enum:               yf.Enum,
		EnumAliases:        yf.EnumAliases,
		Flags:              yf.Flags,
		Bare:               yf.Bare,
	}, nil
}
