package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Config is the root of the hosted settings document.
type Config struct {
	Settings *Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// Settings holds the client options the server can pin. Every field is
// optional; an absent field leaves the client free to use its own default.
type Settings struct {
	DeviceProfile           *Lockable[DeviceProfile]        `json:"deviceProfile,omitempty" yaml:"deviceProfile,omitempty"`
	SearchEngine            *Lockable[SearchEngine]         `json:"searchEngine,omitempty" yaml:"searchEngine,omitempty"`
	SubtitleMode            *Lockable[SubtitlePlaybackMode] `json:"subtitleMode,omitempty" yaml:"subtitleMode,omitempty"`
	DefaultVideoOrientation *Lockable[OrientationLock]      `json:"defaultVideoOrientation,omitempty" yaml:"defaultVideoOrientation,omitempty"`
	DefaultBitrate          *Lockable[Bitrate]              `json:"defaultBitrate,omitempty" yaml:"defaultBitrate,omitempty"`
	LibraryDisplayType      *Lockable[DisplayType]          `json:"libraryDisplayType,omitempty" yaml:"libraryDisplayType,omitempty"`
	LibraryCardStyle        *Lockable[CardStyle]            `json:"libraryCardStyle,omitempty" yaml:"libraryCardStyle,omitempty"`
	LibraryImageStyle       *Lockable[ImageStyle]           `json:"libraryImageStyle,omitempty" yaml:"libraryImageStyle,omitempty"`
	MediaListSortOrder      *Lockable[SortOrder]            `json:"mediaListSortOrder,omitempty" yaml:"mediaListSortOrder,omitempty"`
	SegmentSkip             *Lockable[SegmentSkipMode]      `json:"segmentSkip,omitempty" yaml:"segmentSkip,omitempty"`
	ForwardToAdmins         *Lockable[bool]                 `json:"forwardToAdmins,omitempty" yaml:"forwardToAdmins,omitempty"`
}

// Default returns the document served before an administrator saves anything.
func Default() *Config {
	return &Config{
		Settings: &Settings{
			DeviceProfile:           Unlocked(DeviceProfileExpo),
			SearchEngine:            Unlocked(SearchEngineJellyfin),
			SubtitleMode:            Unlocked(SubtitleModeDefault),
			DefaultVideoOrientation: Unlocked(OrientationDefault),
		},
	}
}

// ParseYAML decodes and validates a settings document.
func ParseYAML(doc []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("settings: parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseJSON decodes and validates a settings document.
func ParseJSON(doc []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("settings: parse json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ToYAML renders the document as YAML, the canonical stored form.
func (c *Config) ToYAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("settings: marshal yaml: %w", err)
	}
	return string(out), nil
}

// ToJSON renders the document as JSON for API consumers.
func (c *Config) ToJSON() ([]byte, error) {
	out, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("settings: marshal json: %w", err)
	}
	return out, nil
}

// Validate checks every set enum field and reports all problems at once.
func (c *Config) Validate() error {
	if c.Settings == nil {
		return nil
	}
	s := c.Settings

	var errs []error
	check := func(field string, ok bool, value any) {
		if !ok {
			errs = append(errs, fmt.Errorf("settings: invalid %s value %v", field, value))
		}
	}

	if s.DeviceProfile != nil {
		check("deviceProfile", s.DeviceProfile.Value.Valid(), s.DeviceProfile.Value)
	}
	if s.SearchEngine != nil {
		check("searchEngine", s.SearchEngine.Value.Valid(), s.SearchEngine.Value)
	}
	if s.SubtitleMode != nil {
		check("subtitleMode", s.SubtitleMode.Value.Valid(), s.SubtitleMode.Value)
	}
	if s.DefaultVideoOrientation != nil {
		check("defaultVideoOrientation", s.DefaultVideoOrientation.Value.Valid(), s.DefaultVideoOrientation.Value)
	}
	if s.DefaultBitrate != nil {
		check("defaultBitrate", s.DefaultBitrate.Value.Valid(), s.DefaultBitrate.Value)
	}
	if s.LibraryDisplayType != nil {
		check("libraryDisplayType", s.LibraryDisplayType.Value.Valid(), s.LibraryDisplayType.Value)
	}
	if s.LibraryCardStyle != nil {
		check("libraryCardStyle", s.LibraryCardStyle.Value.Valid(), s.LibraryCardStyle.Value)
	}
	if s.LibraryImageStyle != nil {
		check("libraryImageStyle", s.LibraryImageStyle.Value.Valid(), s.LibraryImageStyle.Value)
	}
	if s.MediaListSortOrder != nil {
		check("mediaListSortOrder", s.MediaListSortOrder.Value.Valid(), s.MediaListSortOrder.Value)
	}
	if s.SegmentSkip != nil {
		check("segmentSkip", s.SegmentSkip.Value.Valid(), s.SegmentSkip.Value)
	}

	return errors.Join(errs...)
}
