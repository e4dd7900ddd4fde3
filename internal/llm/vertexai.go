package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/vertexai/genai"
)

// ErrMissingCredential indicates the Vertex AI credential environment is not
// configured. This is a hard failure, not a degraded mode.
var ErrMissingCredential = errors.New("missing Vertex AI credential")

// VertexAIClient wraps the Vertex AI Gemini API
type VertexAIClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	projectID string
	location  string
}

// NewVertexAIClient creates a new Vertex AI client
func NewVertexAIClient(ctx context.Context) (*VertexAIClient, error) {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable not set: %w", ErrMissingCredential)
	}

	location := os.Getenv("GOOGLE_CLOUD_LOCATION")
	if location == "" {
		location = "us-central1" // Default location
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")

	// Configure model parameters
	model.SetTemperature(0.2) // Lower temperature for more consistent scoring
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(8192)

	return &VertexAIClient{
		client:    client,
		model:     model,
		projectID: projectID,
		location:  location,
	}, nil
}

// SetSystemInstruction attaches a fixed system instruction to every call
func (v *VertexAIClient) SetSystemInstruction(text string) {
	v.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(text)},
	}
}

// SetResponseSchema constrains responses to JSON matching the given schema
func (v *VertexAIClient) SetResponseSchema(schema *genai.Schema) {
	v.model.GenerationConfig.ResponseMIMEType = "application/json"
	v.model.GenerationConfig.ResponseSchema = schema
}

// GenerateContent sends a text prompt to the model and returns the response
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return v.generate(ctx, genai.Text(prompt))
}

// GenerateFromMedia sends an inline media payload plus a text prompt to the
// model and returns the response text
func (v *VertexAIClient) GenerateFromMedia(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	blob := genai.Blob{
		MIMEType: mimeType,
		Data:     data,
	}
	return v.generate(ctx, blob, genai.Text(prompt))
}

func (v *VertexAIClient) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	resp, err := v.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	// Extract text from response
	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}

// Close closes the Vertex AI client
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
