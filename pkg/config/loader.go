package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration at path.
func LoadFile(path string) (File, error) {
	if strings.TrimSpace(path) == "" {
		return File{}, errors.New("config: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses name from fsys.
func LoadFS(fsys fs.FS, name string) (File, error) {
	if fsys == nil {
		return File{}, errors.New("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes data using the format implied by source's extension. For
// unknown extensions JSON, TOML and YAML are tried in that order.
func Parse(data []byte, source string) (File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return File{}, fmt.Errorf("config: file %s is empty", source)
	}

	var (
		file File
		err  error
	)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".toml":
		err = decodeTOML(data, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".json":
		err = json.Unmarshal(data, &file)
	default:
		file, err = sniff(data)
	}
	if err != nil {
		return File{}, fmt.Errorf("config: parse %s: %w", source, err)
	}

	file.Source = source
	file.normalise()
	if len(file.Timelines) == 0 {
		return File{}, fmt.Errorf("config: %s: no timelines defined", source)
	}
	if err := file.validateThemes(); err != nil {
		return File{}, err
	}
	return file, nil
}

func decodeTOML(data []byte, file *File) error {
	return toml.NewDecoder(bytes.NewReader(data)).Decode(file)
}

func sniff(data []byte) (File, error) {
	var file File
	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	file = File{}
	if err := decodeTOML(data, &file); err == nil {
		return file, nil
	}
	file = File{}
	if err := yaml.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	return File{}, errors.New("invalid JSON, TOML or YAML")
}

func (f *File) normalise() {
	f.Form.Title = strings.TrimSpace(f.Form.Title)
	f.Form.Description = sanitizeDescription(f.Form.Description)
	f.Form.Theme = strings.TrimSpace(f.Form.Theme)
	f.Form.Variant = strings.TrimSpace(f.Form.Variant)
}
