package regulatory

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a regulatory tables document.
type File struct {
	Years []Tables `yaml:"years"`
}

// Parse decodes a YAML tables document into a catalog.
func Parse(data []byte) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse regulatory tables: %w", err)
	}
	return NewCatalog(f.Years...)
}

// LoadFile reads a YAML tables document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return Parse(data)
}

// LoadWithDefaults layers a tables file over the built-in catalog. An empty
// path returns the built-in catalog unchanged.
func LoadWithDefaults(path string) (*Catalog, error) {
	base := Default()
	if path == "" {
		return base, nil
	}
	override, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return base.Merge(override)
}

// EncodeYAML renders the selected years as a tables document.
func (c *Catalog) EncodeYAML(years ...int) ([]byte, error) {
	if len(years) == 0 {
		years = c.years
	}
	f := File{Years: make([]Tables, 0, len(years))}
	for _, y := range years {
		f.Years = append(f.Years, *c.ForYear(y))
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
