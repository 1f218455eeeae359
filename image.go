package parley

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/nfnt/resize"
)

// ImageLoader turns a file path or URL into an image ContentPart.
//
// URLs are passed through untouched unless MaxWidth is set, in which case
// they are fetched so they can be downscaled. Local files are always inlined
// as base64.
type ImageLoader struct {
	// MaxWidth downscales wider images, preserving aspect ratio. 0 disables resizing.
	MaxWidth uint
	// Client fetches remote images. http.DefaultClient when nil.
	Client *http.Client
}

// Load reads src and returns an image part for a multimodal message.
func (l ImageLoader) Load(ctx context.Context, src string) (ContentPart, error) {
	remote := strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
	if remote && l.MaxWidth == 0 {
		return NewImageURLPart(src), nil
	}

	var data []byte
	var err error
	if remote {
		data, err = l.fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
		if err != nil {
			err = &ImageError{Op: "open", Source: src, Err: err}
		}
	}
	if err != nil {
		return ContentPart{}, err
	}

	return l.encode(src, data)
}

func (l ImageLoader) fetch(ctx context.Context, src string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, &ImageError{Op: "fetch", Source: src, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &ImageError{Op: "fetch", Source: src, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &ImageError{Op: "fetch", Source: src, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ImageError{Op: "fetch", Source: src, Err: err}
	}
	return data, nil
}

func (l ImageLoader) encode(src string, data []byte) (ContentPart, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ContentPart{}, &ImageError{Op: "decode", Source: src, Err: err}
	}

	if l.MaxWidth == 0 || uint(img.Bounds().Dx()) <= l.MaxWidth {
		return NewImageBase64Part(base64.StdEncoding.EncodeToString(data), "image/"+format), nil
	}

	resized := resize.Resize(l.MaxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	mime := "image/jpeg"
	switch format {
	case "png", "gif":
		mime = "image/png"
		err = png.Encode(&buf, resized)
	default:
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return ContentPart{}, &ImageError{Op: "encode", Source: src, Err: err}
	}
	return NewImageBase64Part(base64.StdEncoding.EncodeToString(buf.Bytes()), mime), nil
}
