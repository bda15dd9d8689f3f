package scan

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/roomsurface/internal/monitoring"
	"github.com/banshee-data/roomsurface/internal/units"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed room.schema.json
var roomSchema []byte

// maxFileSize bounds scan documents read from disk.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// Format is a scan document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("scan file must have .json, .yaml or .yml extension, got %q", filepath.Ext(path))
	}
}

// Load reads, validates and decodes a scan file.
func Load(path string) (*Room, error) {
	cleanPath := filepath.Clean(path)
	format, err := FormatFromPath(cleanPath)
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scan file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("scan file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan file: %w", err)
	}

	room, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	monitoring.Logf("[Scan] loaded %q from %s: %d surfaces", room.Name, cleanPath, len(room.Surfaces))
	return room, nil
}

// Parse validates data against the room schema, decodes it and converts all
// lengths to metres.
func Parse(data []byte, format Format) (*Room, error) {
	var doc interface{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse scan JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse scan YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scan format %q", format)
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	room := &Room{}
	var err error
	if format == FormatJSON {
		err = json.Unmarshal(data, room)
	} else {
		err = yaml.Unmarshal(data, room)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode scan: %w", err)
	}

	if err := room.Check(); err != nil {
		return nil, fmt.Errorf("invalid scan: %w", err)
	}
	if err := room.normaliseUnits(); err != nil {
		return nil, err
	}
	return room, nil
}

// Validate checks a decoded document against the embedded room schema.
func Validate(doc interface{}) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(roomSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (r *Room) normaliseUnits() error {
	if r.Units == "" {
		r.Units = units.Metres
	}
	if !units.IsValid(r.Units) {
		return fmt.Errorf("invalid units %q, want one of %s", r.Units, units.GetValidUnitsString())
	}
	f := units.MetresPer(r.Units)
	if f != 1 {
		for i := range r.Surfaces {
			r.Surfaces[i].scale(f)
		}
	}
	r.Units = units.Metres
	return nil
}
