package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		features []string
	}{
		{
			name:     "Typical feature list",
			features: []string{"DDoS protection", "Daily backups"},
		},
		{
			name:     "Single feature",
			features: []string{"SSD"},
		},
		{
			name:     "Strings needing JSON escaping",
			features: []string{`24/7 "priority" support`, "línea dedicada", "a,b;c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := encodeFeatures(tt.features)
			require.NoError(t, err)
			require.NotNil(t, encoded)

			decoded, err := decodeFeatures(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.features, decoded)
		})
	}
}

func TestEncodeFeatures_EmptyStoredAsNull(t *testing.T) {
	encoded, err := encodeFeatures(nil)
	require.NoError(t, err)
	assert.Nil(t, encoded)

	encoded, err = encodeFeatures([]string{})
	require.NoError(t, err)
	assert.Nil(t, encoded)
}

func TestDecodeFeatures_NullColumn(t *testing.T) {
	decoded, err := decodeFeatures(nil)

	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestDecodeFeatures_CorruptColumn(t *testing.T) {
	corrupt := `{"not":"a list"`

	decoded, err := decodeFeatures(&corrupt)

	assert.Error(t, err)
	assert.Nil(t, decoded)
}

func TestDecodeFeatures_PreservesOrder(t *testing.T) {
	features := []string{"z", "a", "m", "a"}

	encoded, err := encodeFeatures(features)
	require.NoError(t, err)

	decoded, err := decodeFeatures(encoded)
	require.NoError(t, err)
	assert.Equal(t, features, decoded)
}
