package worldgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/traits"
)

const rosterYAML = `countries:
  - id: ZED
    name: Zedonia
    gdp: 800
    lon: 12.5
    lat: 48.0
    traits:
      protectionism: 0.9
      cooperation: 0.2
  - id: ARL
    name: Arlen
    gdp: 450
    lon: -60.0
    lat: -15.0
    resources:
      - resource: oil
        ratio: 0.65
      - resource: grain
        description: heavily import dependent
      - resource: lithium
`

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "countries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRoster(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, rosterYAML))
	require.NoError(t, err)
	require.Len(t, r.Countries, 2)
	assert.Equal(t, "ZED", r.Countries[0].ID)
	assert.Equal(t, 0.9, r.Countries[0].Traits["protectionism"])
}

func TestLoadRosterErrors(t *testing.T) {
	_, err := LoadRoster(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadRoster(writeRoster(t, "countries: []\n"))
	assert.Error(t, err, "an empty roster is rejected")

	_, err = LoadRoster(writeRoster(t, "{not yaml"))
	assert.Error(t, err)
}

func TestBuildCountriesDeterministicAndSorted(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, rosterYAML))
	require.NoError(t, err)

	first := BuildCountries(r, 42)
	second := BuildCountries(r, 42)

	require.Len(t, first, 2)
	assert.Equal(t, "ARL", first[0].ID, "output sorted by id regardless of roster order")
	for i := range first {
		assert.Equal(t, first[i].Profile, second[i].Profile)
	}

	other := BuildCountries(r, 43)
	assert.NotEqual(t, first[0].Profile, other[0].Profile, "seed changes noise-filled traits")
}

func TestExplicitTraitsOverrideNoise(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, rosterYAML))
	require.NoError(t, err)

	countries := BuildCountries(r, 42)
	zed := countries[1]
	require.Equal(t, "ZED", zed.ID)

	assert.Equal(t, 0.9, zed.Profile.Protectionism)
	assert.Equal(t, 0.2, zed.Profile.Cooperation)
}

func TestNoiseFilledTraitsStayInRange(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, rosterYAML))
	require.NoError(t, err)

	for _, c := range BuildCountries(r, 7) {
		for name, v := range c.Profile.Map() {
			assert.GreaterOrEqual(t, v, 0.0, "trait %s of %s", name, c.ID)
			assert.LessOrEqual(t, v, 1.0, "trait %s of %s", name, c.ID)
		}
	}
}

func TestResourceEntriesMapToDependencyVariants(t *testing.T) {
	r, err := LoadRoster(writeRoster(t, rosterYAML))
	require.NoError(t, err)

	countries := BuildCountries(r, 42)
	arl := countries[0]
	require.Equal(t, "ARL", arl.ID)
	require.Len(t, arl.Resources, 3)

	oil := arl.Resources["oil"]
	assert.Equal(t, traits.ResourceNumeric, oil.Kind)
	assert.Equal(t, 0.65, oil.Ratio)

	grain := arl.Resources["grain"]
	assert.Equal(t, traits.ResourceDescribed, grain.Kind)
	assert.Equal(t, "heavily import dependent", grain.Description)

	lithium := arl.Resources["lithium"]
	assert.Equal(t, traits.ResourceAbsent, lithium.Kind)
	assert.Equal(t, 0.3, lithium.NumericOr(0.3))
}

func TestTraitFieldCorrelatesNearbyCoordinates(t *testing.T) {
	f := NewTraitField(42)

	near1 := f.Sample(10.0, 50.0)
	near2 := f.Sample(10.5, 50.5)
	far := f.Sample(-150.0, -40.0)

	// Neighboring samples agree more than distant ones on average.
	sumNear, sumFar := 0.0, 0.0
	for name, v := range near1 {
		d := v - near2[name]
		if d < 0 {
			d = -d
		}
		sumNear += d

		d = v - far[name]
		if d < 0 {
			d = -d
		}
		sumFar += d
	}
	assert.Less(t, sumNear, sumFar)
}
