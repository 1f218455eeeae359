package main

import (
	"context"
	"errors"
	"strings"

	ai "github.com/spetersoncode/parley"
)

const defaultVisionPrompt = "What is in this image?"

func runVision(ctx context.Context, a *app, args []string) error {
	fs := a.flags("vision")
	image := fs.String("image", "", "image `path or URL` (required)")
	maxWidth := fs.Uint("max-width", 1024, "downscale wider images to this width; 0 keeps the original")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *image == "" {
		return errors.New("vision: -image is required")
	}

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		prompt = defaultVisionPrompt
	}

	loader := ai.ImageLoader{MaxWidth: *maxWidth}
	part, err := loader.Load(ctx, *image)
	if err != nil {
		return err
	}

	messages := []ai.Message{{
		ID:    ai.GenerateMessageID(),
		Role:  ai.RoleUser,
		Parts: []ai.ContentPart{ai.NewTextPart(prompt), part},
	}}
	return a.converse(ctx, "vision", a.model(nil), nil, messages, false)
}
