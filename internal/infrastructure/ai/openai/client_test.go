package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/photodish/v1/internal/domain/recipe"
	"github.com/photodish/v1/internal/infrastructure/config"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/photodish/v1/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeModel serves a canned chat-completions response and records the
// request it received.
type fakeModel struct {
	t        *testing.T
	status   int
	content  string
	requests []map[string]any
}

func (f *fakeModel) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(f.t, "/chat/completions", r.URL.Path)
		require.Equal(f.t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.requests = append(f.requests, req)

		if f.status != 0 && f.status != http.StatusOK {
			w.WriteHeader(f.status)
			fmt.Fprint(w, `{"error":{"message":"boom"}}`)
			return
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": f.content}},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(f.t, json.NewEncoder(w).Encode(resp))
	}
}

func newTestClient(t *testing.T, model *fakeModel) *Client {
	srv := httptest.NewServer(model.handler())
	t.Cleanup(srv.Close)

	return NewClient(config.AIConfig{
		OpenAIKey:   "test-key",
		OpenAIModel: "gpt-4o-mini",
		BaseURL:     srv.URL,
		MaxTokens:   1500,
		Temperature: 0.7,
	}, zap.NewNop())
}

func (f *fakeModel) lastMessages() []any {
	require.NotEmpty(f.t, f.requests)
	msgs, ok := f.requests[len(f.requests)-1]["messages"].([]any)
	require.True(f.t, ok)
	return msgs
}

func TestGenerateFromPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidPhoto_ShouldNotCallModel", func(t *testing.T) {
		model := &fakeModel{t: t}
		client := newTestClient(t, model)

		_, err := client.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
			PhotoDataURI: "https://example.com/pic.jpg",
		})
		assert.Error(t, err)
		assert.Empty(t, model.requests)
	})

	t.Run("FoodPhoto_ShouldReturnValidatedRecipe", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"isFood": true, "recipe": {"name": "Pad Thai", "ingredients": ["rice noodles", "tamarind"], "instructions": ["Soak noodles.", "Stir fry."]}}`}
		client := newTestClient(t, model)

		out, err := client.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
			PhotoDataURI: testutils.PhotoDataURI(),
		})
		require.NoError(t, err)
		assert.True(t, out.IsFood)
		assert.Equal(t, "Pad Thai", out.Recipe.Name)

		// The photo must travel as an image_url content part.
		msgs := model.lastMessages()
		require.Len(t, msgs, 2)
		user := msgs[1].(map[string]any)
		parts := user["content"].([]any)
		require.Len(t, parts, 2)
		image := parts[1].(map[string]any)
		assert.Equal(t, "image_url", image["type"])
		assert.Equal(t, testutils.PhotoDataURI(), image["image_url"].(map[string]any)["url"])
	})

	t.Run("NotFood_ShouldBeCleanOutcome", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"isFood": false}`}
		client := newTestClient(t, model)

		out, err := client.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
			PhotoDataURI: testutils.PhotoDataURI(),
		})
		require.NoError(t, err)
		assert.False(t, out.IsFood)
		assert.Nil(t, out.Recipe)
	})

	t.Run("FoodWithoutRecipe_ShouldFail", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"isFood": true}`}
		client := newTestClient(t, model)

		_, err := client.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
			PhotoDataURI: testutils.PhotoDataURI(),
		})
		assert.Error(t, err)
	})

	t.Run("HalfPopulatedRecipe_ShouldFailSchemaValidation", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"isFood": true, "recipe": {"name": "Mystery", "ingredients": ["something"], "instructions": []}}`}
		client := newTestClient(t, model)

		_, err := client.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
			PhotoDataURI: testutils.PhotoDataURI(),
		})
		assert.ErrorIs(t, err, recipe.ErrHalfPopulated)
	})

	t.Run("ProseWrappedJSON_ShouldStillParse", func(t *testing.T) {
		model := &fakeModel{t: t, content: "Here you go:\n```json\n" +
			`{"isFood": true, "recipe": {"name": "Toast", "ingredients": ["bread"], "instructions": ["Toast it."]}}` +
			"\n```"}
		client := newTestClient(t, model)

		out, err := client.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
			PhotoDataURI: testutils.PhotoDataURI(),
		})
		require.NoError(t, err)
		assert.Equal(t, "Toast", out.Recipe.Name)
	})

	t.Run("APIError_ShouldFail", func(t *testing.T) {
		model := &fakeModel{t: t, status: http.StatusTooManyRequests}
		client := newTestClient(t, model)

		_, err := client.GenerateFromPhoto(ctx, outbound.GenerateFromPhotoInput{
			PhotoDataURI: testutils.PhotoDataURI(),
		})
		assert.ErrorContains(t, err, "API error 429")
	})
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyRecipe_ShouldNotCallModel", func(t *testing.T) {
		model := &fakeModel{t: t}
		client := newTestClient(t, model)

		_, err := client.Summarize(ctx, outbound.SummarizeInput{Recipe: "  ", Mode: outbound.ModeSimple})
		assert.Error(t, err)
		assert.Empty(t, model.requests)
	})

	t.Run("UnknownMode_ShouldBeRejected", func(t *testing.T) {
		model := &fakeModel{t: t}
		client := newTestClient(t, model)

		_, err := client.Summarize(ctx, outbound.SummarizeInput{Recipe: "some recipe", Mode: "Casual"})
		assert.Error(t, err)
	})

	t.Run("Success_ShouldIncludeModeInPrompt", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"summary": "1. Cook.\n2. Eat."}`}
		client := newTestClient(t, model)

		out, err := client.Summarize(ctx, outbound.SummarizeInput{
			Recipe: "Ingredients:\neggs\n\nInstructions:\nscramble",
			Mode:   outbound.ModeSimple,
		})
		require.NoError(t, err)
		assert.Equal(t, "1. Cook.\n2. Eat.", out.Summary)

		msgs := model.lastMessages()
		user := msgs[1].(map[string]any)["content"].(string)
		assert.Contains(t, user, "Mode: Simple")
	})

	t.Run("EmptySummary_ShouldFail", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"summary": "   "}`}
		client := newTestClient(t, model)

		_, err := client.Summarize(ctx, outbound.SummarizeInput{Recipe: "recipe", Mode: outbound.ModeExpert})
		assert.Error(t, err)
	})
}

func TestRemix(t *testing.T) {
	ctx := context.Background()

	base := recipe.Recipe{
		Name:         "Carbonara",
		Ingredients:  []string{"spaghetti", "guanciale", "eggs"},
		Instructions: []string{"Boil pasta.", "Render guanciale.", "Toss."},
	}

	t.Run("EmptyPrompt_ShouldNotCallModel", func(t *testing.T) {
		model := &fakeModel{t: t}
		client := newTestClient(t, model)

		_, err := client.Remix(ctx, outbound.RemixInput{Recipe: base, Prompt: ""})
		assert.Error(t, err)
		assert.Empty(t, model.requests)
	})

	t.Run("Success_ShouldReturnReplacementRecipe", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"recipe": {"name": "Vegan Carbonara", "ingredients": ["spaghetti", "mushrooms"], "instructions": ["Boil pasta.", "Saute mushrooms.", "Toss."]}}`}
		client := newTestClient(t, model)

		out, err := client.Remix(ctx, outbound.RemixInput{Recipe: base, Prompt: "make it vegan"})
		require.NoError(t, err)
		assert.Equal(t, "Vegan Carbonara", out.Recipe.Name)

		msgs := model.lastMessages()
		user := msgs[1].(map[string]any)["content"].(string)
		assert.Contains(t, user, "Original Recipe Name: Carbonara")
		assert.Contains(t, user, "User's Remix Request: make it vegan")
	})

	t.Run("MissingRecipe_ShouldFail", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"notes": "sorry"}`}
		client := newTestClient(t, model)

		_, err := client.Remix(ctx, outbound.RemixInput{Recipe: base, Prompt: "spicier"})
		assert.Error(t, err)
	})
}

func TestSuggestDrinkPairing(t *testing.T) {
	ctx := context.Background()

	in := outbound.SuggestDrinkPairingInput{
		RecipeName:        "Carbonara",
		RecipeIngredients: []string{"spaghetti", "guanciale"},
	}

	t.Run("FullSet", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"wine": {"name": "Frascati", "reason": "Crisp acidity cuts the fat.", "imageHint": "white wine"}, "beer": {"name": "Pilsner", "reason": "Clean and light.", "imageHint": "lager"}, "nonAlcoholic": {"name": "Sparkling water", "reason": "Refreshes the palate.", "imageHint": "sparkling water"}}`}
		client := newTestClient(t, model)

		set, err := client.SuggestDrinkPairing(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "Frascati", set.Wine.Name)
		assert.Equal(t, "Pilsner", set.Beer.Name)
		assert.False(t, set.Empty())
	})

	t.Run("OmittedCategories_AreSuccess", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"wine": {"name": "Frascati", "reason": "Good match.", "imageHint": "wine"}}`}
		client := newTestClient(t, model)

		set, err := client.SuggestDrinkPairing(ctx, in)
		require.NoError(t, err)
		assert.NotNil(t, set.Wine)
		assert.Nil(t, set.Beer)
		assert.Nil(t, set.NonAlcoholic)
	})

	t.Run("NamelessPairing_ShouldFail", func(t *testing.T) {
		model := &fakeModel{t: t, content: `{"beer": {"reason": "trust me"}}`}
		client := newTestClient(t, model)

		_, err := client.SuggestDrinkPairing(ctx, in)
		assert.Error(t, err)
	})

	t.Run("NoIngredients_ShouldNotCallModel", func(t *testing.T) {
		model := &fakeModel{t: t}
		client := newTestClient(t, model)

		_, err := client.SuggestDrinkPairing(ctx, outbound.SuggestDrinkPairingInput{RecipeName: "Dish"})
		assert.Error(t, err)
		assert.Empty(t, model.requests)
	})
}
