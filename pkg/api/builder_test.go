package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(context.Context) (string, bool, error) {
	return s.token, s.token != "", s.err
}

func TestNewRequestBuilder_Configuration(t *testing.T) {
	for _, base := range []string{"", "   ", "not a url", "/relative/path", "://bad"} {
		_, err := NewRequestBuilder(base, nil, "")
		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr), "base %q: expected ConfigurationError, got %v", base, err)
	}

	b, err := NewRequestBuilder("https://api.example.com/v1", nil, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAuthScheme, b.scheme)
}

func TestBuild_Endpoints(t *testing.T) {
	b, err := NewRequestBuilder("https://api.example.com/v1/", nil, "")
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		ep     Endpoint
		method string
		url    string
		body   bool
	}{
		{FetchRecipes(), http.MethodGet, "https://api.example.com/v1/recipe", false},
		{AddRecipe(recipes.Recipe{ID: "r1", Name: "Pie"}), http.MethodPost, "https://api.example.com/v1/recipe", true},
		{UpdateRecipe(recipes.Recipe{ID: "r1", Name: "Pie"}), http.MethodPost, "https://api.example.com/v1/recipe", true},
		{ParseRecipe("https://food.example.com/pie"), http.MethodPost, "https://api.example.com/v1/recipe/parse", true},
	}
	for _, tt := range tests {
		t.Run(tt.ep.String(), func(t *testing.T) {
			req, err := b.Build(ctx, tt.ep)
			require.NoError(t, err)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.url, req.URL.String())
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Empty(t, req.Header.Get("Authorization"))
			if tt.body {
				require.NotNil(t, req.Body)
			} else {
				assert.Nil(t, req.Body)
			}
		})
	}
}

func TestBuild_ParseBody(t *testing.T) {
	b, err := NewRequestBuilder("https://api.example.com", nil, "")
	require.NoError(t, err)

	req, err := b.Build(context.Background(), ParseRecipe("https://food.example.com/pie?x=1"))
	require.NoError(t, err)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url": "https://food.example.com/pie?x=1"}`, string(raw))
}

func TestBuild_RecipeBodyIsSnakeCase(t *testing.T) {
	b, err := NewRequestBuilder("https://api.example.com", nil, "")
	require.NoError(t, err)

	req, err := b.Build(context.Background(), UpdateRecipe(recipes.Recipe{ID: "r1", Name: "Pie", PrepTime: 5, TotalTime: 10}))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.NewDecoder(req.Body).Decode(&fields))
	assert.Equal(t, float64(5), fields["prep_time"])
	assert.Contains(t, fields, "times_completed")
	assert.Contains(t, fields, "created_on")
}

func TestBuild_RejectsRelativeRecipeURL(t *testing.T) {
	b, err := NewRequestBuilder("https://api.example.com", nil, "")
	require.NoError(t, err)

	_, err = b.Build(context.Background(), ParseRecipe("food.example.com/pie"))
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestBuild_Authorization(t *testing.T) {
	ctx := context.Background()

	b, err := NewRequestBuilder("https://api.example.com", staticTokens{token: "tok"}, "")
	require.NoError(t, err)
	req, err := b.Build(ctx, FetchRecipes())
	require.NoError(t, err)
	assert.Equal(t, "Basic tok", req.Header.Get("Authorization"))

	b, err = NewRequestBuilder("https://api.example.com", staticTokens{token: "tok"}, "Bearer")
	require.NoError(t, err)
	req, err = b.Build(ctx, FetchRecipes())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))

	b, err = NewRequestBuilder("https://api.example.com", staticTokens{err: errors.New("locked")}, "")
	require.NoError(t, err)
	_, err = b.Build(ctx, FetchRecipes())
	var wrapped *WrappedError
	require.True(t, errors.As(err, &wrapped))
	assert.Contains(t, err.Error(), "locked")
}
