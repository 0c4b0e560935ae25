package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHashDeterministic(t *testing.T) {
	h1, err := MessageHash("hello")
	require.NoError(t, err)
	h2, err := MessageHash("hello")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // hex-encoded SHA-256
}

func TestMessageHashDiffersByContent(t *testing.T) {
	h1 := MustMessageHash("hello")
	h2 := MustMessageHash("hello ")

	assert.NotEqual(t, h1, h2)
}

func TestMessageHashNormalizesNFC(t *testing.T) {
	// Decomposed and precomposed forms of the same character hash equal
	h1 := MustMessageHash("café")
	h2 := MustMessageHash("café")

	assert.Equal(t, h1, h2)
}

func TestDomainSeparation(t *testing.T) {
	// Same payload, different domain, different digest
	payload := []byte(`{"content":"x"}`)
	assert.NotEqual(t,
		hashWithDomain(DomainMessage, payload),
		hashWithDomain(DomainTrace, payload),
	)
}

func TestTraceHash(t *testing.T) {
	h, err := TraceHash(map[string]any{
		"scenario_name": "smoke",
		"calls":         []any{},
	})
	require.NoError(t, err)
	assert.Len(t, h, 64)
}
