// Package content produces blog material with external services: article
// drafts from Gemini and stock photos from Pexels.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const systemPrompt = "You are an expert writer specializing in health, nature, consciousness, spirituality, and holistic wellness. " +
	"Write engaging, informative blog posts that are SEO-friendly and educational. " +
	"Cover topics like natural remedies, mindfulness, nutrition, herbal medicine, sustainable living, and personal growth. " +
	"Focus on scientific facts when available, practical applications, and inspiring content."

const promptTemplate = "Write a comprehensive blog post about: %s. Include an engaging title, detailed content with sections " +
	"covering the main topic, benefits, scientific research (if applicable), practical applications, and important " +
	"considerations. Make it around 800-1200 words. Format with proper headings using markdown. Be creative and informative."

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

// Gemini drafts blog posts with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the Gemini client.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Close releases the client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Draft writes a markdown article about keywords.
func (g *Gemini) Draft(ctx context.Context, keywords string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	res, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(promptTemplate, keywords)))
	if err != nil {
		return "", fmt.Errorf("error generating content: %w", err)
	}

	var sb strings.Builder
	for _, cand := range res.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// SplitDraft takes the first line of a draft as its title and the rest as the
// body. Markdown heading markers are removed from the title; a draft without
// a first line falls back to the keywords.
func SplitDraft(draft, keywords string) (title, body string) {
	lines := strings.Split(strings.TrimSpace(draft), "\n")
	title = strings.TrimSpace(strings.ReplaceAll(lines[0], "#", ""))
	if title == "" {
		title = keywords
	}
	if len(lines) > 1 {
		return title, strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return title, draft
}
