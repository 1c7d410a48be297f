// Package media prepares uploaded event images for the catalog.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"

	"github.com/disintegration/imaging"

	"github.com/unikiala/unikiala-api/internal/apperr"
)

const (
	MaxUploadBytes = 5 << 20
	MaxWidth       = 1200
	MaxHeight      = 800
	jpegQuality    = 85
	dataURLPrefix  = "data:image/jpeg;base64,"
)

var errTooLarge = errors.New("media: upload exceeds limit")

// EventImage decodes an uploaded image, fits it inside MaxWidth x MaxHeight
// and returns it as a JPEG data URL usable as an event image_url.
func EventImage(r io.Reader) (string, error) {
	const op = "media.EventImage"

	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", apperr.E(apperr.KindInvalidInput, op, "Não foi possível ler a imagem.", err)
	}
	if len(raw) > MaxUploadBytes {
		return "", apperr.E(apperr.KindInvalidInput, op, "A imagem deve ter no máximo 5MB.", errTooLarge)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.E(apperr.KindInvalidInput, op, "Formato de imagem não suportado.", err)
	}
	fitted := imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", apperr.E(apperr.KindUnknown, op, "Não foi possível processar a imagem.", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
