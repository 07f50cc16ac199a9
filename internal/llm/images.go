package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	imagegen "google.golang.org/genai"
)

// AspectRatio is an Imagen output aspect ratio.
type AspectRatio string

// Aspect ratios used for persona illustrations.
const (
	AspectWide   AspectRatio = "16:9"
	AspectSquare AspectRatio = "1:1"
)

// ImageOutputMIMEType is the encoding requested from the image model.
const ImageOutputMIMEType = "image/jpeg"

// ImageClient generates a single image for a prompt and returns it as a data URL.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string, aspect AspectRatio) (string, error)
}

// ImagenClient implements ImageClient with the Google GenAI Imagen endpoint.
type ImagenClient struct {
	client *imagegen.Client
	model  string
}

// NewImagenClient creates an Imagen client for the configured image model.
func NewImagenClient(ctx context.Context, config *Config, apiKey string) (*ImagenClient, error) {
	if err := CheckAPIKey(apiKey); err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := imagegen.NewClient(ctx, &imagegen.ClientConfig{
		APIKey:  apiKey,
		Backend: imagegen.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &ImagenClient{client: client, model: config.GetImageModel()}, nil
}

// GenerateImage requests one image and returns it as a base64 data URL.
func (c *ImagenClient) GenerateImage(ctx context.Context, prompt string, aspect AspectRatio) (string, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.model, prompt, &imagegen.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: ImageOutputMIMEType,
		AspectRatio:    string(aspect),
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", classifyError(err))
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0] == nil ||
		resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", &NoContentError{Reason: "no image data"}
	}

	img := resp.GeneratedImages[0].Image
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = ImageOutputMIMEType
	}
	return DataURL(mimeType, img.ImageBytes), nil
}

// DataURL encodes raw bytes as a data: URL.
func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
