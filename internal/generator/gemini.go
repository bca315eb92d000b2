package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash"

	prompt = "Basado en la imagen proporcionada de un artículo de decoración para el hogar, " +
		"genera un título de producto atractivo y una descripción corta y elegante. " +
		"El título debe ser conciso y llamativo. La descripción debe resaltar el estilo, " +
		"el material y la ubicación ideal del artículo en un hogar."
)

// Gemini calls the Gemini API with the image inline and a JSON response
// schema of {name, description}.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("API key not set")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, image []byte, mimeType string) (Details, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, responseConfig())
	if err != nil {
		return Details{}, fmt.Errorf("gemini generate content: %w", err)
	}

	return ParseDetails(resp.Text())
}

func responseConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name": {
					Type:        genai.TypeString,
					Description: "Un título de producto corto y atractivo.",
				},
				"description": {
					Type:        genai.TypeString,
					Description: "Una descripción de producto convincente (2-3 frases).",
				},
			},
			Required: []string{"name", "description"},
		},
	}
}
