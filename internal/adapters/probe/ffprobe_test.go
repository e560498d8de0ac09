package probe

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "fractional", raw: `{"format": {"filename": "a.mp4", "duration": "125.733000"}}`, want: intPtr(126)},
		{name: "rounds down", raw: `{"format": {"duration": "59.4"}}`, want: intPtr(59)},
		{name: "whole", raw: `{"format": {"duration": "60"}}`, want: intPtr(60)},
		{name: "not available", raw: `{"format": {"duration": "N/A"}}`, want: nil},
		{name: "missing duration", raw: `{"format": {"filename": "a.mp4"}}`, want: nil},
		{name: "empty object", raw: `{}`, want: nil},
		{name: "garbage duration", raw: `{"format": {"duration": "abc"}}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := parseDuration([]byte(tt.raw))

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("output that is not json", func(t *testing.T) {
		// Act
		got, err := parseDuration([]byte("125.733000\n"))

		// Assert
		require.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestProbeWithoutBinary(t *testing.T) {
	// Arrange
	p := NewFFProbe("definitely-not-ffprobe-on-this-host", slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Act
	d, err := p.Probe(context.Background(), "/tmp/video.mp4")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, d)
}

func intPtr(v int) *int { return &v }
