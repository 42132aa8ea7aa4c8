package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/domain"
)

func TestParsePins_Valid(t *testing.T) {
	pins, err := domain.ParsePins("pins=L=0:R=-6:CY=0")
	require.NoError(t, err)
	require.Len(t, pins, 3)
	assert.Equal(t, domain.Pin{Key: "L", Value: 0}, pins[0])
	assert.Equal(t, domain.Pin{Key: "R", Value: -6}, pins[1])
	assert.Equal(t, domain.Pin{Key: "CY", Value: 0}, pins[2])
}

func TestParsePins_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"pins=L=0:R=-6:CY=0",
		"pins=W=120:H=44",
		"pins=T=8.5:B=-8.5",
		"pins=CX=0:CY=0:W=40:H=40",
	} {
		pins, err := domain.ParsePins(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, pins.String())
	}
}

func TestParsePins_LowercaseKeys(t *testing.T) {
	pins, err := domain.ParsePins("pins=l=10:cx=0")
	require.NoError(t, err)
	assert.Equal(t, "pins=L=10:CX=0", pins.String())
}

func TestParsePins_DuplicateKeepsFirst(t *testing.T) {
	pins, err := domain.ParsePins("pins=L=1:L=2:W=10")
	require.NoError(t, err)
	assert.Equal(t, "pins=L=1:W=10", pins.String())
}

func TestParsePins_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing prefix": "L=0:R=-6",
		"unknown key":    "pins=Q=5",
		"bad value":      "pins=L=abc",
		"no pairs":       "pins=",
		"not key=value":  "pins=L",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := domain.ParsePins(input)
			var ge *domain.LayoutGrammarError
			require.ErrorAs(t, err, &ge)
			assert.NotEmpty(t, ge.Problems)
		})
	}
}

func TestParsePins_CollectsAllProblems(t *testing.T) {
	_, err := domain.ParsePins("pins=Q=5:L=abc:Z=1")
	var ge *domain.LayoutGrammarError
	require.ErrorAs(t, err, &ge)
	assert.Len(t, ge.Problems, 3)
}
