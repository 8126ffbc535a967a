// Package settings models the client settings document that the server hosts
// for its mobile apps: a YAML document of lockable values which clients fetch
// at startup, also served as JSON for the admin API.
package settings

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// DeviceProfile selects the transcoding device profile a client reports.
type DeviceProfile string

const (
	DeviceProfileExpo   DeviceProfile = "Expo"
	DeviceProfileNative DeviceProfile = "Native"
	DeviceProfileOld    DeviceProfile = "Old"
)

func (p DeviceProfile) Valid() bool {
	switch p {
	case DeviceProfileExpo, DeviceProfileNative, DeviceProfileOld:
		return true
	}
	return false
}

// SearchEngine selects the backend the client searches against.
type SearchEngine string

const (
	SearchEngineMarlin       SearchEngine = "Marlin"
	SearchEngineJellyfin     SearchEngine = "Jellyfin"
	SearchEngineStreamystats SearchEngine = "Streamystats"
)

func (e SearchEngine) Valid() bool {
	switch e {
	case SearchEngineMarlin, SearchEngineJellyfin, SearchEngineStreamystats:
		return true
	}
	return false
}

// OrientationLock constrains the orientations the video player allows.
type OrientationLock string

const (
	OrientationDefault        OrientationLock = "Default"
	OrientationPortraitUp     OrientationLock = "PortraitUp"
	OrientationLandscapeLeft  OrientationLock = "LandscapeLeft"
	OrientationLandscapeRight OrientationLock = "LandscapeRight"
)

func (o OrientationLock) Valid() bool {
	switch o {
	case OrientationDefault, OrientationPortraitUp, OrientationLandscapeLeft, OrientationLandscapeRight:
		return true
	}
	return false
}

// DisplayType selects how a library section is laid out. Values are
// lower-case on the wire.
type DisplayType string

const (
	DisplayTypeRow  DisplayType = "row"
	DisplayTypeList DisplayType = "list"
)

func (d DisplayType) Valid() bool {
	return d == DisplayTypeRow || d == DisplayTypeList
}

// CardStyle selects the media card rendering.
type CardStyle string

const (
	CardStyleCompact  CardStyle = "compact"
	CardStyleDetailed CardStyle = "detailed"
)

func (c CardStyle) Valid() bool {
	return c == CardStyleCompact || c == CardStyleDetailed
}

// ImageStyle selects the artwork aspect used on media cards.
type ImageStyle string

const (
	ImageStylePoster ImageStyle = "poster"
	ImageStyleCover  ImageStyle = "cover"
)

func (i ImageStyle) Valid() bool {
	return i == ImageStylePoster || i == ImageStyleCover
}

// SubtitlePlaybackMode mirrors the media server's subtitle selection modes.
type SubtitlePlaybackMode string

const (
	SubtitleModeDefault    SubtitlePlaybackMode = "Default"
	SubtitleModeAlways     SubtitlePlaybackMode = "Always"
	SubtitleModeOnlyForced SubtitlePlaybackMode = "OnlyForced"
	SubtitleModeNone       SubtitlePlaybackMode = "None"
	SubtitleModeSmart      SubtitlePlaybackMode = "Smart"
)

func (m SubtitlePlaybackMode) Valid() bool {
	switch m {
	case SubtitleModeDefault, SubtitleModeAlways, SubtitleModeOnlyForced, SubtitleModeNone, SubtitleModeSmart:
		return true
	}
	return false
}

// SortOrder is the media list sort direction.
type SortOrder string

const (
	SortAscending  SortOrder = "Ascending"
	SortDescending SortOrder = "Descending"
)

func (s SortOrder) Valid() bool {
	return s == SortAscending || s == SortDescending
}

// SegmentSkipMode controls intro/credit segment skipping. Values are
// lower-case on the wire.
type SegmentSkipMode string

const (
	SegmentSkipNone SegmentSkipMode = "none"
	SegmentSkipAsk  SegmentSkipMode = "ask"
	SegmentSkipAuto SegmentSkipMode = "auto"
)

func (s SegmentSkipMode) Valid() bool {
	switch s {
	case SegmentSkipNone, SegmentSkipAsk, SegmentSkipAuto:
		return true
	}
	return false
}

// Bitrate is a streaming bitrate cap in bits per second. It serializes as its
// symbolic name in YAML but as the raw number in JSON, and deserializes from
// either form in both formats.
type Bitrate int

const (
	Bitrate250KB Bitrate = 250_000
	Bitrate500KB Bitrate = 500_000
	Bitrate1MB   Bitrate = 1_000_000
	Bitrate2MB   Bitrate = 2_000_000
	Bitrate4MB   Bitrate = 4_000_000
	Bitrate8MB   Bitrate = 8_000_000
)

var bitrateNames = map[Bitrate]string{
	Bitrate250KB: "_250KB",
	Bitrate500KB: "_500KB",
	Bitrate1MB:   "_1MB",
	Bitrate2MB:   "_2MB",
	Bitrate4MB:   "_4MB",
	Bitrate8MB:   "_8MB",
}

var bitrateValues = func() map[string]Bitrate {
	m := make(map[string]Bitrate, len(bitrateNames))
	for v, name := range bitrateNames {
		m[name] = v
	}
	return m
}()

func (b Bitrate) Valid() bool {
	_, ok := bitrateNames[b]
	return ok
}

// String returns the symbolic name, or the raw number for unknown values.
func (b Bitrate) String() string {
	if name, ok := bitrateNames[b]; ok {
		return name
	}
	return strconv.Itoa(int(b))
}

func (b Bitrate) MarshalYAML() (any, error) {
	if name, ok := bitrateNames[b]; ok {
		return name, nil
	}
	return nil, fmt.Errorf("settings: unknown bitrate %d", int(b))
}

func (b *Bitrate) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err == nil {
		return b.fromName(name)
	}
	var raw int
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("settings: bitrate must be a name or a number: %w", err)
	}
	*b = Bitrate(raw)
	return nil
}

func (b Bitrate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(b))), nil
}

func (b *Bitrate) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		return b.fromName(name)
	}
	var raw int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("settings: bitrate must be a name or a number: %w", err)
	}
	*b = Bitrate(raw)
	return nil
}

func (b *Bitrate) fromName(name string) error {
	v, ok := bitrateValues[name]
	if !ok {
		return fmt.Errorf("settings: unknown bitrate name %q", name)
	}
	*b = v
	return nil
}
