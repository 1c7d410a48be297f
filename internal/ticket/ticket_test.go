package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikiala/unikiala-api/internal/model"
)

func TestQRURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://api.qrserver.com/v1/create-qr-code/?size=250x250&data=KWIK-AB12CD34&color=FF00FF&bgcolor=000000&margin=1",
		QRURL("KWIK-AB12CD34"))
}

func TestRenderPDF(t *testing.T) {
	t.Parallel()

	ev := model.SeedEvents()[0]
	tk := New("KWIK-AB12CD34", "João Manuel", 2, 34000, ev, time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, QRURL("KWIK-AB12CD34"), tk.QRURL)

	out, err := RenderPDF(tk)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}
