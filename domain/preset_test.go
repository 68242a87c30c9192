package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetRegistry_Lookup(t *testing.T) {
	registry := DefaultPresetRegistry()

	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   Preset
	}{
		{name: "thumb", input: "thumb", wantOK: true, want: Preset{Name: "thumb", MaxWidth: 400, MaxHeight: 300, Quality: 70}},
		{name: "large", input: "large", wantOK: true, want: Preset{Name: "large", MaxWidth: 1920, MaxHeight: 1440, Quality: 85}},
		{name: "unknown preset", input: "ultra", wantOK: false},
		{name: "case is not normalized", input: "Thumb", wantOK: false},
		{name: "no prefix match", input: "thu", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := registry.Lookup(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewPresetRegistry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		presets []Preset
	}{
		{name: "zero width", presets: []Preset{{Name: "a", MaxWidth: 0, MaxHeight: 10, Quality: 50}}},
		{name: "negative height", presets: []Preset{{Name: "a", MaxWidth: 10, MaxHeight: -1, Quality: 50}}},
		{name: "quality too low", presets: []Preset{{Name: "a", MaxWidth: 10, MaxHeight: 10, Quality: 0}}},
		{name: "quality too high", presets: []Preset{{Name: "a", MaxWidth: 10, MaxHeight: 10, Quality: 101}}},
		{name: "separator in name", presets: []Preset{{Name: "a/b", MaxWidth: 10, MaxHeight: 10, Quality: 50}}},
		{name: "dot-dot name", presets: []Preset{{Name: "..", MaxWidth: 10, MaxHeight: 10, Quality: 50}}},
		{name: "empty name", presets: []Preset{{Name: "", MaxWidth: 10, MaxHeight: 10, Quality: 50}}},
		{name: "space in name", presets: []Preset{{Name: "big one", MaxWidth: 10, MaxHeight: 10, Quality: 50}}},
		{name: "duplicate", presets: []Preset{
			{Name: "a", MaxWidth: 10, MaxHeight: 10, Quality: 50},
			{Name: "a", MaxWidth: 20, MaxHeight: 20, Quality: 50},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPresetRegistry(tt.presets...)
			assert.Error(t, err)
		})
	}
}

func TestPreset_ValidateMessages(t *testing.T) {
	err := Preset{Name: "hero", MaxWidth: 0, MaxHeight: 10, Quality: 120}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid preset "hero"`)
	assert.Contains(t, err.Error(), "max_width must be positive, got 0")
	assert.Contains(t, err.Error(), "quality must satisfy max=100, got 120")

	err = Preset{Name: "a/b", MaxWidth: 10, MaxHeight: 10, Quality: 50}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `name "a/b" may only contain`)

	assert.NoError(t, Preset{Name: "hero_2x.v1", MaxWidth: 10, MaxHeight: 10, Quality: 1}.Validate())
}

func TestPresetRegistry_AllSorted(t *testing.T) {
	registry := DefaultPresetRegistry()
	all := registry.All()
	require.Len(t, all, len(DefaultPresets))

	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"large", "medium", "small", "thumb"}, names)
}

func TestImageFormat_Mappings(t *testing.T) {
	tests := []struct {
		format      ImageFormat
		ext         string
		contentType string
		lossy       bool
	}{
		{ImageFormatWebP, "webp", "image/webp", true},
		{ImageFormatJPEG, "jpg", "image/jpeg", true},
		{ImageFormatPNG, "png", "image/png", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.ext, tt.format.Extension())
			assert.Equal(t, tt.contentType, tt.format.ContentType())
			assert.Equal(t, tt.lossy, tt.format.Lossy())
		})
	}
}
