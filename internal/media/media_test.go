package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikiala/unikiala-api/internal/apperr"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 255, B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func decodeDataURL(t *testing.T, s string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(s, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestEventImageFitsLargeImage(t *testing.T) {
	t.Parallel()

	out, err := EventImage(pngOf(t, 2400, 1200))
	require.NoError(t, err)

	b := decodeDataURL(t, out).Bounds()
	assert.Equal(t, 1200, b.Dx())
	assert.Equal(t, 600, b.Dy())
}

func TestEventImageKeepsSmallImage(t *testing.T) {
	t.Parallel()

	out, err := EventImage(pngOf(t, 300, 200))
	require.NoError(t, err)

	b := decodeDataURL(t, out).Bounds()
	assert.Equal(t, 300, b.Dx())
	assert.Equal(t, 200, b.Dy())
}

func TestEventImageRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := EventImage(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, apperr.InvalidInput)
}

func TestEventImageRejectsOversize(t *testing.T) {
	t.Parallel()

	_, err := EventImage(bytes.NewReader(make([]byte, MaxUploadBytes+10)))
	assert.ErrorIs(t, err, apperr.InvalidInput)
	assert.ErrorIs(t, err, errTooLarge)
}
