// Package openai implements the transform gateway against an OpenAI-style
// chat completions API, including vision input for dish photos.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/infrastructure/config"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/photodish/v1/pkg/datauri"
	"go.uber.org/zap"
)

// Client implements the TransformGateway interface using the OpenAI API
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
	logger      *zap.Logger
}

// NewClient creates a new OpenAI transform gateway
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:      cfg.OpenAIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// OpenAI API structures
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text-only messages or a slice of
	// contentPart when the message carries an image.
	Content any `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Output schema shapes for parsing model JSON

type generateOutput struct {
	IsFood bool           `json:"isFood"`
	Recipe *recipe.Recipe `json:"recipe"`
}

type summarizeOutput struct {
	Summary string `json:"summary"`
}

type remixOutput struct {
	Recipe *recipe.Recipe `json:"recipe"`
}

const generateInstructions = `You are an expert chef specializing in reverse engineering recipes from dish photos.

First, determine if the image provided is a picture of food.
If it is not food, set the isFood flag to false and do not generate a recipe.
If it IS food, set the isFood flag to true and create a complete recipe for the dish in the photo, with its ingredients and instructions.

Respond with ONLY a valid JSON object in this exact format, no other text:
{"isFood": true, "recipe": {"name": "Dish Name", "ingredients": ["..."], "instructions": ["..."]}}`

// GenerateFromPhoto reverse engineers a recipe from a dish photo.
func (c *Client) GenerateFromPhoto(ctx context.Context, in outbound.GenerateFromPhotoInput) (*outbound.GenerateFromPhotoOutput, error) {
	if _, err := datauri.ParseImage(in.PhotoDataURI); err != nil {
		return nil, fmt.Errorf("invalid photo input: %w", err)
	}

	messages := []chatMessage{
		{Role: "system", Content: generateInstructions},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: "Generate a recipe for the dish in this photo."},
			{Type: "image_url", ImageURL: &imageRef{URL: in.PhotoDataURI}},
		}},
	}

	raw, err := c.call(ctx, "generate-from-photo", messages)
	if err != nil {
		return nil, err
	}

	var out generateOutput
	if err := c.parseJSON(raw, &out); err != nil {
		return nil, err
	}
	if !out.IsFood {
		return &outbound.GenerateFromPhotoOutput{IsFood: false}, nil
	}
	if out.Recipe == nil {
		return nil, fmt.Errorf("model flagged food but returned no recipe")
	}
	if err := out.Recipe.Validate(); err != nil {
		return nil, fmt.Errorf("generated recipe violates schema: %w", err)
	}
	return &outbound.GenerateFromPhotoOutput{IsFood: true, Recipe: out.Recipe}, nil
}

const summarizeInstructions = `You are an expert chef specializing in summarizing recipes for different skill levels.

If the mode is Simple, summarize the recipe so it is easy for beginners to understand.
If the mode is Expert, summarize the recipe in a more detailed and technical way for experienced cooks.

Respond with ONLY a valid JSON object in this exact format, no other text:
{"summary": "..."}`

// Summarize produces a summary of a recipe in the requested mode.
func (c *Client) Summarize(ctx context.Context, in outbound.SummarizeInput) (*outbound.SummarizeOutput, error) {
	if strings.TrimSpace(in.Recipe) == "" {
		return nil, fmt.Errorf("invalid summarize input: recipe text is empty")
	}
	if in.Mode != outbound.ModeSimple && in.Mode != outbound.ModeExpert {
		return nil, fmt.Errorf("invalid summarize input: unknown mode %q", in.Mode)
	}

	user := fmt.Sprintf("Recipe:\n%s\n\nMode: %s", in.Recipe, in.Mode)
	raw, err := c.call(ctx, "summarize", []chatMessage{
		{Role: "system", Content: summarizeInstructions},
		{Role: "user", Content: user},
	})
	if err != nil {
		return nil, err
	}

	var out summarizeOutput
	if err := c.parseJSON(raw, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Summary) == "" {
		return nil, fmt.Errorf("model returned an empty summary")
	}
	return &outbound.SummarizeOutput{Summary: out.Summary}, nil
}

const remixInstructions = `You are an expert chef who excels at creatively modifying recipes. A user wants to "remix" an existing recipe.

You will be given the original recipe (name, ingredients, instructions) and a request from the user on how they want to change it.

Generate a new recipe that incorporates the user's request. This may involve changing the name, adding/removing/substituting ingredients, and altering the instructions. Make sure the new instructions are complete and make sense for the new set of ingredients.

Respond with ONLY a valid JSON object in this exact format, no other text:
{"recipe": {"name": "Dish Name", "ingredients": ["..."], "instructions": ["..."]}}`

// Remix regenerates a recipe guided by the user's modification request.
// The output is a full replacement for the input recipe.
func (c *Client) Remix(ctx context.Context, in outbound.RemixInput) (*outbound.RemixOutput, error) {
	core := in.Recipe.Core()
	if err := core.Validate(); err != nil {
		return nil, fmt.Errorf("invalid remix input: %w", err)
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, fmt.Errorf("invalid remix input: prompt is empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Original Recipe Name: %s\n", core.Name)
	b.WriteString("Original Ingredients:\n")
	for _, ing := range core.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	b.WriteString("Original Instructions:\n")
	for _, step := range core.Instructions {
		fmt.Fprintf(&b, "- %s\n", step)
	}
	fmt.Fprintf(&b, "\nUser's Remix Request: %s", in.Prompt)

	raw, err := c.call(ctx, "remix", []chatMessage{
		{Role: "system", Content: remixInstructions},
		{Role: "user", Content: b.String()},
	})
	if err != nil {
		return nil, err
	}

	var out remixOutput
	if err := c.parseJSON(raw, &out); err != nil {
		return nil, err
	}
	if out.Recipe == nil {
		return nil, fmt.Errorf("model returned no remixed recipe")
	}
	if err := out.Recipe.Validate(); err != nil {
		return nil, fmt.Errorf("remixed recipe violates schema: %w", err)
	}
	return &outbound.RemixOutput{Recipe: *out.Recipe}, nil
}

const pairingInstructions = `You are an expert sommelier and food pairing specialist. Given a recipe name and its ingredients, suggest one wine, one beer, and one non-alcoholic beverage that would pair wonderfully with the dish.

For each suggestion, provide the name of the drink, a concise one-sentence reason explaining why it's a good match, and a one or two word hint for generating an image of it.

If you cannot find a suitable pairing for a category, omit it.

Respond with ONLY a valid JSON object in this exact format, no other text:
{"wine": {"name": "...", "reason": "...", "imageHint": "..."}, "beer": {...}, "nonAlcoholic": {...}}`

// SuggestDrinkPairing suggests beverages for a dish. Any subset of the
// three categories may be omitted by the model; omission is success.
func (c *Client) SuggestDrinkPairing(ctx context.Context, in outbound.SuggestDrinkPairingInput) (*recipe.PairingSet, error) {
	if strings.TrimSpace(in.RecipeName) == "" {
		return nil, fmt.Errorf("invalid pairing input: recipe name is empty")
	}
	if len(in.RecipeIngredients) == 0 {
		return nil, fmt.Errorf("invalid pairing input: no ingredients")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dish Name: %s\n\nIngredients:\n", in.RecipeName)
	for _, ing := range in.RecipeIngredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}

	raw, err := c.call(ctx, "suggest-drink-pairing", []chatMessage{
		{Role: "system", Content: pairingInstructions},
		{Role: "user", Content: b.String()},
	})
	if err != nil {
		return nil, err
	}

	var out recipe.PairingSet
	if err := c.parseJSON(raw, &out); err != nil {
		return nil, err
	}
	for _, p := range []*recipe.Pairing{out.Wine, out.Beer, out.NonAlcoholic} {
		if p != nil && p.Name == "" {
			return nil, fmt.Errorf("pairing suggestion is missing a name")
		}
	}
	return &out, nil
}

// call makes the chat completions request and returns the raw message text.
func (c *Client) call(ctx context.Context, operation string, messages []chatMessage) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Info("model call completed",
		zap.String("operation", operation),
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

// parseJSON extracts the JSON object from the model text and unmarshals it.
// Models sometimes wrap the object in prose or code fences.
func (c *Client) parseJSON(response string, v any) error {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no valid JSON found in response")
	}

	jsonStr := response[start : end+1]
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		c.logger.Error("failed to parse model JSON",
			zap.Error(err),
			zap.String("response", jsonStr))
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
