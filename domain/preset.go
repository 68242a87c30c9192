package domain

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Preset is a named upper bound for derived images.
type Preset struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name" validate:"required,preset_name"`
	MaxWidth  int    `json:"max_width" yaml:"max_width" mapstructure:"max_width" validate:"gt=0"`
	MaxHeight int    `json:"max_height" yaml:"max_height" mapstructure:"max_height" validate:"gt=0"`
	Quality   int    `json:"quality" yaml:"quality" mapstructure:"quality" validate:"min=1,max=100"`
}

// DefaultPresets is the compiled-in preset set served by the HTTP layer.
var DefaultPresets = []Preset{
	{Name: "thumb", MaxWidth: 400, MaxHeight: 300, Quality: 70},
	{Name: "small", MaxWidth: 640, MaxHeight: 480, Quality: 75},
	{Name: "medium", MaxWidth: 1024, MaxHeight: 768, Quality: 80},
	{Name: "large", MaxWidth: 1920, MaxHeight: 1440, Quality: 85},
}

// Preset names end up as a cache path segment.
var presetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var presetValidator = newPresetValidator()

func newPresetValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("preset_name", func(fl validator.FieldLevel) bool {
		return presetNamePattern.MatchString(fl.Field().String())
	})
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// Validate checks the preset name and bounds.
func (p Preset) Validate() error {
	err := presetValidator.Struct(p)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "preset_name":
			msgs = append(msgs, fmt.Sprintf("%s %q may only contain letters, digits, '.', '_' and '-'", fe.Field(), fe.Value()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive, got %v", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid preset %q: %s", p.Name, strings.Join(msgs, ", "))
}

// PresetRegistry is a closed, read-only set of presets keyed by exact name.
type PresetRegistry struct {
	presets map[string]Preset
}

// NewPresetRegistry validates the given presets and builds a registry.
func NewPresetRegistry(presets ...Preset) (*PresetRegistry, error) {
	m := make(map[string]Preset, len(presets))
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := m[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		m[p.Name] = p
	}
	return &PresetRegistry{presets: m}, nil
}

// DefaultPresetRegistry returns a registry over DefaultPresets.
func DefaultPresetRegistry() *PresetRegistry {
	r, err := NewPresetRegistry(DefaultPresets...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup is an exact, case-sensitive match.
func (r *PresetRegistry) Lookup(name string) (Preset, bool) {
	p, ok := r.presets[name]
	return p, ok
}

// All returns the presets sorted by name.
func (r *PresetRegistry) All() []Preset {
	out := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
