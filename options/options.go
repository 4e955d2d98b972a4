package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ViewerOptions holds the command line settings. Fields are pointers so
// they can be bound directly to flag values.
type ViewerOptions struct {
	ConfigFile      *string
	KeysFile        *string
	Help            *bool
	Width           *int
	Height          *int
	FPS             *float64 // 0 uses the native rate of a video input, else 30
	Modifier        *string
	Exposure        *float64
	Gamma           *float64 // 0 keeps the per-source default
	AutoExposure    *bool
	ExportDir       *string
	Preview         *bool
	MaxFrames       *int
	FFMPEGPath      *string
	PDFDPI          *float64
	Workers         *int
	SkipMemoryCheck *bool
	VSync           *bool

	// Bindings are chord → action overrides from the config file.
	Bindings map[string]string
}

// FileConfig is the YAML config file. Absent keys leave options unchanged.
type FileConfig struct {
	Width        *int              `yaml:"width"`
	Height       *int              `yaml:"height"`
	FPS          *float64          `yaml:"fps"`
	Modifier     *string           `yaml:"modifier"`
	Exposure     *float64          `yaml:"exposure"`
	Gamma        *float64          `yaml:"gamma"`
	AutoExposure *bool             `yaml:"auto_exposure"`
	ExportDir    *string           `yaml:"export_dir"`
	Preview      *bool             `yaml:"preview"`
	MaxFrames    *int              `yaml:"max_frames"`
	FFMPEGPath   *string           `yaml:"ffmpeg"`
	PDFDPI       *float64          `yaml:"pdf_dpi"`
	Workers      *int              `yaml:"workers"`
	VSync        *bool             `yaml:"vsync"`
	Bindings     map[string]string `yaml:"bindings"`
}

// LoadFile parses the YAML config at path.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &fc, nil
}

// Merge copies values from fc into o, except for flags named in explicit,
// which were set on the command line and take precedence.
func (o *ViewerOptions) Merge(fc *FileConfig, explicit map[string]bool) {
	mergeValue(o.Width, fc.Width, explicit["width"])
	mergeValue(o.Height, fc.Height, explicit["height"])
	mergeValue(o.FPS, fc.FPS, explicit["fps"])
	mergeValue(o.Modifier, fc.Modifier, explicit["modifier"])
	mergeValue(o.Exposure, fc.Exposure, explicit["exposure"])
	mergeValue(o.Gamma, fc.Gamma, explicit["gamma"])
	mergeValue(o.AutoExposure, fc.AutoExposure, explicit["auto-exposure"])
	mergeValue(o.ExportDir, fc.ExportDir, explicit["export-dir"])
	mergeValue(o.Preview, fc.Preview, explicit["preview"])
	mergeValue(o.MaxFrames, fc.MaxFrames, explicit["max-frames"])
	mergeValue(o.FFMPEGPath, fc.FFMPEGPath, explicit["ffmpeg"])
	mergeValue(o.PDFDPI, fc.PDFDPI, explicit["dpi"])
	mergeValue(o.Workers, fc.Workers, explicit["workers"])
	mergeValue(o.VSync, fc.VSync, explicit["vsync"])
	if len(fc.Bindings) > 0 {
		if o.Bindings == nil {
			o.Bindings = make(map[string]string)
		}
		for chord, action := range fc.Bindings {
			o.Bindings[chord] = action
		}
	}
}

func mergeValue[T any](dst, src *T, explicit bool) {
	if dst == nil || src == nil || explicit {
		return
	}
	*dst = *src
}
