package parley

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodedWidth(t *testing.T, part ContentPart) int {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(part.Base64)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width
}

func TestImageLoader_URLPassthrough(t *testing.T) {
	part, err := ImageLoader{}.Load(context.Background(), "https://example.com/table.jpg")
	require.NoError(t, err)
	assert.Equal(t, NewImageURLPart("https://example.com/table.jpg"), part)
}

func TestImageLoader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.png")
	require.NoError(t, os.WriteFile(path, writePNG(t, 20, 10), 0o600))

	t.Run("inlines without resizing", func(t *testing.T) {
		part, err := ImageLoader{MaxWidth: 100}.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, ContentPartTypeImage, part.Type)
		assert.Equal(t, "image/png", part.MimeType)
		assert.Equal(t, 20, decodedWidth(t, part))
	})

	t.Run("downscales wide images", func(t *testing.T) {
		part, err := ImageLoader{MaxWidth: 5}.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "image/png", part.MimeType)
		assert.Equal(t, 5, decodedWidth(t, part))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ImageLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
		var imgErr *ImageError
		require.ErrorAs(t, err, &imgErr)
		assert.Equal(t, "open", imgErr.Op)
	})

	t.Run("not an image", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.png")
		require.NoError(t, os.WriteFile(bad, []byte("text"), 0o600))
		_, err := ImageLoader{}.Load(context.Background(), bad)
		var imgErr *ImageError
		require.ErrorAs(t, err, &imgErr)
		assert.Equal(t, "decode", imgErr.Op)
	})
}

func TestImageLoader_FetchesRemoteWhenResizing(t *testing.T) {
	body := writePNG(t, 40, 40)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	loader := ImageLoader{MaxWidth: 10, Client: srv.Client()}

	part, err := loader.Load(context.Background(), srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, 10, decodedWidth(t, part))

	_, err = loader.Load(context.Background(), srv.URL+"/missing.png")
	var imgErr *ImageError
	require.ErrorAs(t, err, &imgErr)
	assert.Equal(t, "fetch", imgErr.Op)
}
