package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for the placement engine.
// Every field is optional; the Get* accessors supply the defaults, so a
// partial file (or an empty config) is always usable.
type TuningConfig struct {
	// Grid generation: target cell spacing in metres per surface role.
	WallCellSize  *float64 `json:"wall_cell_size,omitempty" yaml:"wall_cell_size,omitempty"`
	FloorCellSize *float64 `json:"floor_cell_size,omitempty" yaml:"floor_cell_size,omitempty"`
	DeskCellSize  *float64 `json:"desk_cell_size,omitempty" yaml:"desk_cell_size,omitempty"`

	// Blocking column limits along the surface normal (metres).
	ColumnLift     *float64 `json:"column_lift,omitempty" yaml:"column_lift,omitempty"`
	WallBlockDepth *float64 `json:"wall_block_depth,omitempty" yaml:"wall_block_depth,omitempty"`

	// CellColliderThickness is the depth of the per-cell boxes the scene
	// world exposes to overlap tests.
	CellColliderThickness *float64 `json:"cell_collider_thickness,omitempty" yaml:"cell_collider_thickness,omitempty"`

	// Retry ladders used by the fallback queries, tried in order.
	DeskRadiusMultipliers  []float64 `json:"desk_radius_multipliers,omitempty" yaml:"desk_radius_multipliers,omitempty"`
	FloorRadiusMultipliers []float64 `json:"floor_radius_multipliers,omitempty" yaml:"floor_radius_multipliers,omitempty"`
	WallHeightOffsets      []float64 `json:"wall_height_offsets,omitempty" yaml:"wall_height_offsets,omitempty"`

	// RNGSeed seeds the session RNG. Zero means seed from the clock.
	RNGSeed *uint64 `json:"rng_seed,omitempty" yaml:"rng_seed,omitempty"`

	EnableDiagnostics *bool   `json:"enable_diagnostics,omitempty" yaml:"enable_diagnostics,omitempty"`
	DebugView         *bool   `json:"debug_view,omitempty" yaml:"debug_view,omitempty"`
	DebugOutputDir    *string `json:"debug_output_dir,omitempty" yaml:"debug_output_dir,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a config with every field populated from the
// built-in defaults. It mirrors config/tuning.defaults.json.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		WallCellSize:           ptrFloat64(defaultWallCellSize),
		FloorCellSize:          ptrFloat64(defaultFloorCellSize),
		DeskCellSize:           ptrFloat64(defaultDeskCellSize),
		ColumnLift:             ptrFloat64(defaultColumnLift),
		WallBlockDepth:         ptrFloat64(defaultWallBlockDepth),
		CellColliderThickness:  ptrFloat64(defaultCellColliderThickness),
		DeskRadiusMultipliers:  append([]float64(nil), defaultRadiusMultipliers...),
		FloorRadiusMultipliers: append([]float64(nil), defaultRadiusMultipliers...),
		WallHeightOffsets:      append([]float64(nil), defaultWallHeightOffsets...),
		RNGSeed:                ptrUint64(0),
		EnableDiagnostics:      ptrBool(false),
		DebugView:              ptrBool(false),
		DebugOutputDir:         ptrString(defaultDebugOutputDir),
	}
}

const (
	defaultWallCellSize          = 0.1
	defaultFloorCellSize         = 0.1
	defaultDeskCellSize          = 0.05
	defaultColumnLift            = 0.01
	defaultWallBlockDepth        = 0.25
	defaultCellColliderThickness = 0.02
	defaultDebugOutputDir        = "debug"
)

var (
	defaultRadiusMultipliers = []float64{1.0, 0.75, 0.5}
	defaultWallHeightOffsets = []float64{0, 0.1, -0.1, 0.2, -0.2}
)

// LoadTuningConfig loads a TuningConfig from a JSON or YAML file.
// The file is validated to ensure it has a supported extension and is under
// the max file size. Fields omitted from the file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from cmd/roomplace/ and deeper
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	for name, v := range map[string]*float64{
		"wall_cell_size":  c.WallCellSize,
		"floor_cell_size": c.FloorCellSize,
		"desk_cell_size":  c.DeskCellSize,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", name, *v)
		}
	}

	if c.ColumnLift != nil && *c.ColumnLift < 0 {
		return fmt.Errorf("column_lift must be non-negative, got %f", *c.ColumnLift)
	}
	if c.WallBlockDepth != nil && *c.WallBlockDepth <= 0 {
		return fmt.Errorf("wall_block_depth must be positive, got %f", *c.WallBlockDepth)
	}
	if c.CellColliderThickness != nil && *c.CellColliderThickness <= 0 {
		return fmt.Errorf("cell_collider_thickness must be positive, got %f", *c.CellColliderThickness)
	}

	for name, ladder := range map[string][]float64{
		"desk_radius_multipliers":  c.DeskRadiusMultipliers,
		"floor_radius_multipliers": c.FloorRadiusMultipliers,
	} {
		for i, m := range ladder {
			if m <= 0 || m > 1 {
				return fmt.Errorf("%s[%d] must be in (0, 1], got %f", name, i, m)
			}
		}
	}

	return nil
}

// GetWallCellSize returns the wall_cell_size value or the default.
func (c *TuningConfig) GetWallCellSize() float64 {
	if c.WallCellSize == nil {
		return defaultWallCellSize
	}
	return *c.WallCellSize
}

// GetFloorCellSize returns the floor_cell_size value or the default.
func (c *TuningConfig) GetFloorCellSize() float64 {
	if c.FloorCellSize == nil {
		return defaultFloorCellSize
	}
	return *c.FloorCellSize
}

// GetDeskCellSize returns the desk_cell_size value or the default.
func (c *TuningConfig) GetDeskCellSize() float64 {
	if c.DeskCellSize == nil {
		return defaultDeskCellSize
	}
	return *c.DeskCellSize
}

// GetColumnLift returns the column_lift value or the default.
func (c *TuningConfig) GetColumnLift() float64 {
	if c.ColumnLift == nil {
		return defaultColumnLift
	}
	return *c.ColumnLift
}

// GetWallBlockDepth returns the wall_block_depth value or the default.
func (c *TuningConfig) GetWallBlockDepth() float64 {
	if c.WallBlockDepth == nil {
		return defaultWallBlockDepth
	}
	return *c.WallBlockDepth
}

// GetCellColliderThickness returns the cell_collider_thickness value or the default.
func (c *TuningConfig) GetCellColliderThickness() float64 {
	if c.CellColliderThickness == nil {
		return defaultCellColliderThickness
	}
	return *c.CellColliderThickness
}

// GetDeskRadiusMultipliers returns the desk retry ladder or the default.
func (c *TuningConfig) GetDeskRadiusMultipliers() []float64 {
	if len(c.DeskRadiusMultipliers) == 0 {
		return defaultRadiusMultipliers
	}
	return c.DeskRadiusMultipliers
}

// GetFloorRadiusMultipliers returns the floor retry ladder or the default.
func (c *TuningConfig) GetFloorRadiusMultipliers() []float64 {
	if len(c.FloorRadiusMultipliers) == 0 {
		return defaultRadiusMultipliers
	}
	return c.FloorRadiusMultipliers
}

// GetWallHeightOffsets returns the wall retry ladder or the default.
func (c *TuningConfig) GetWallHeightOffsets() []float64 {
	if len(c.WallHeightOffsets) == 0 {
		return defaultWallHeightOffsets
	}
	return c.WallHeightOffsets
}

// GetRNGSeed returns the rng_seed value or zero (clock seeded).
func (c *TuningConfig) GetRNGSeed() uint64 {
	if c.RNGSeed == nil {
		return 0
	}
	return *c.RNGSeed
}

// GetEnableDiagnostics returns the enable_diagnostics value or the default.
func (c *TuningConfig) GetEnableDiagnostics() bool {
	if c.EnableDiagnostics == nil {
		return false
	}
	return *c.EnableDiagnostics
}

// GetDebugView returns the debug_view value or the default.
func (c *TuningConfig) GetDebugView() bool {
	if c.DebugView == nil {
		return false
	}
	return *c.DebugView
}

// GetDebugOutputDir returns the debug_output_dir value or the default.
func (c *TuningConfig) GetDebugOutputDir() string {
	if c.DebugOutputDir == nil || *c.DebugOutputDir == "" {
		return defaultDebugOutputDir
	}
	return *c.DebugOutputDir
}
