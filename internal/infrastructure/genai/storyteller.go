package genaiinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shijra-api/internal/domain"
	"github.com/shijra-api/internal/pkg/validate"
	"google.golang.org/genai"
)

const promptTemplate = `Create a wise, metaphorical short story based on this seed thought: %q.
The tone should be dreamy, philosophical, and inspiring.
Limit the story to around 200 words.
Also provide a title, a one-sentence summary, and 3 relatable tags.`

// contentGenerator is satisfied by (*genai.Client).Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Storyteller turns a seed thought into a structured Story using Gemini.
type Storyteller struct {
	models contentGenerator
	model  string
}

// NewStoryteller creates a Gemini-backed Storyteller.
func NewStoryteller(ctx context.Context, apiKey, model string) (*Storyteller, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Storyteller{models: client.Models, model: model}, nil
}

// storySchema mirrors domain.Story; every field is required.
var storySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":   {Type: genai.TypeString},
		"content": {Type: genai.TypeString},
		"summary": {Type: genai.TypeString},
		"tags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"title", "content", "summary", "tags"},
}

// Generate asks the model for a story. Upstream errors and output that does
// not decode into a complete Story are both reported as domain.ErrUpstream.
func (s *Storyteller) Generate(ctx context.Context, seed string) (*domain.Story, error) {
	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(fmt.Sprintf(promptTemplate, seed)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   storySchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w: %w", domain.ErrUpstream, err)
	}
	return parseStory(resp.Text())
}

func parseStory(text string) (*domain.Story, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty model response: %w", domain.ErrUpstream)
	}
	var story domain.Story
	if err := json.Unmarshal([]byte(text), &story); err != nil {
		return nil, fmt.Errorf("decode story: %w: %w", domain.ErrUpstream, err)
	}
	if err := validate.Struct(story); err != nil {
		return nil, fmt.Errorf("incomplete story: %w: %w", domain.ErrUpstream, err)
	}
	return &story, nil
}
