package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestParseYAMLObjectForm(t *testing.T) {
	doc := `
settings:
  subtitleMode:
    locked: true
    value: Default
  defaultVideoOrientation:
    locked: true
    value: LandscapeLeft
  defaultBitrate:
    locked: true
    value: _250KB
`
	cfg, err := ParseYAML([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, cfg.Settings)

	require.NotNil(t, cfg.Settings.SubtitleMode)
	assert.True(t, cfg.Settings.SubtitleMode.Locked)
	assert.Equal(t, SubtitleModeDefault, cfg.Settings.SubtitleMode.Value)

	require.NotNil(t, cfg.Settings.DefaultVideoOrientation)
	assert.Equal(t, OrientationLandscapeLeft, cfg.Settings.DefaultVideoOrientation.Value)

	require.NotNil(t, cfg.Settings.DefaultBitrate)
	assert.Equal(t, Bitrate250KB, cfg.Settings.DefaultBitrate.Value)
}

func TestParseYAMLBareScalarMeansUnlocked(t *testing.T) {
	doc := `
settings:
  subtitleMode: Smart
  defaultBitrate: _1MB
`
	cfg, err := ParseYAML([]byte(doc))
	require.NoError(t, err)

	require.NotNil(t, cfg.Settings.SubtitleMode)
	assert.False(t, cfg.Settings.SubtitleMode.Locked)
	assert.Equal(t, SubtitleModeSmart, cfg.Settings.SubtitleMode.Value)

	require.NotNil(t, cfg.Settings.DefaultBitrate)
	assert.False(t, cfg.Settings.DefaultBitrate.Locked)
	assert.Equal(t, Bitrate1MB, cfg.Settings.DefaultBitrate.Value)
}

func TestParseJSONAcceptsNumericBitrate(t *testing.T) {
	doc := `{
		"settings": {
			"subtitleMode": {"locked": true, "value": "Default"},
			"defaultVideoOrientation": {"locked": true, "value": "LandscapeLeft"},
			"defaultBitrate": {"locked": true, "value": 250000}
		}
	}`
	cfg, err := ParseJSON([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, SubtitleModeDefault, cfg.Settings.SubtitleMode.Value)
	assert.Equal(t, OrientationLandscapeLeft, cfg.Settings.DefaultVideoOrientation.Value)
	assert.Equal(t, Bitrate250KB, cfg.Settings.DefaultBitrate.Value)
}

func TestBitrateYAMLSerializesAsName(t *testing.T) {
	cfg := &Config{Settings: &Settings{
		DefaultBitrate: Unlocked(Bitrate250KB),
	}}

	out, err := cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, out, "_250KB")
	assert.NotContains(t, out, "250000")
}

func TestBitrateJSONSerializesAsNumber(t *testing.T) {
	cfg := &Config{Settings: &Settings{
		DefaultBitrate: Unlocked(Bitrate250KB),
	}}

	out, err := cfg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), "250000")
	assert.NotContains(t, string(out), "_250KB")
}

func TestYAMLRoundTrip(t *testing.T) {
	original := &Config{Settings: &Settings{
		DeviceProfile:           Locked(DeviceProfileNative),
		SubtitleMode:            Unlocked(SubtitleModeOnlyForced),
		DefaultVideoOrientation: Locked(OrientationLandscapeRight),
		DefaultBitrate:          Locked(Bitrate4MB),
		LibraryDisplayType:      Unlocked(DisplayTypeList),
		SegmentSkip:             Locked(SegmentSkipAuto),
		ForwardToAdmins:         Locked(true),
	}}

	doc, err := original.ToYAML()
	require.NoError(t, err)

	parsed, err := ParseYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseRejectsUnknownEnumValues(t *testing.T) {
	cases := map[string]string{
		"subtitleMode":    "settings:\n  subtitleMode: Sometimes\n",
		"bitrate name":    "settings:\n  defaultBitrate: _3MB\n",
		"orientation":     "settings:\n  defaultVideoOrientation: Upside\n",
		"segmentSkipMode": "settings:\n  segmentSkip: always\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := &Config{Settings: &Settings{
		SubtitleMode:   Unlocked(SubtitlePlaybackMode("Nope")),
		SearchEngine:   Unlocked(SearchEngine("Bing")),
		DefaultBitrate: Unlocked(Bitrate(123)),
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subtitleMode")
	assert.Contains(t, err.Error(), "searchEngine")
	assert.Contains(t, err.Error(), "defaultBitrate")
}

func TestLockableYAMLAlwaysEmitsObjectForm(t *testing.T) {
	out, err := yaml.Marshal(Unlocked(SubtitleModeSmart))
	require.NoError(t, err)
	assert.Contains(t, string(out), "locked: false")
	assert.Contains(t, string(out), "value: Smart")
}

func TestLockableJSONBareValue(t *testing.T) {
	var l Lockable[SubtitlePlaybackMode]
	require.NoError(t, json.Unmarshal([]byte(`"Smart"`), &l))
	assert.False(t, l.Locked)
	assert.Equal(t, SubtitleModeSmart, l.Value)
}

func TestDefaultDocumentIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	doc, err := cfg.ToYAML()
	require.NoError(t, err)
	_, err = ParseYAML([]byte(doc))
	require.NoError(t, err)
}
