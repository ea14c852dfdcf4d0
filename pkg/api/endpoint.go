package api

import (
	"encoding/json"
	"net/http"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

const (
	recipePath      = "/recipe"
	parseRecipePath = "/recipe/parse"
)

type operation int

const (
	opFetchRecipes operation = iota + 1
	opAddRecipe
	opUpdateRecipe
	opParseRecipe
)

// Endpoint is one operation of the recipe service together with the payload
// it carries. The set is closed: build values with FetchRecipes, AddRecipe,
// UpdateRecipe or ParseRecipe.
type Endpoint struct {
	op     operation
	recipe recipes.Recipe
	url    string
}

func FetchRecipes() Endpoint { return Endpoint{op: opFetchRecipes} }

func AddRecipe(r recipes.Recipe) Endpoint { return Endpoint{op: opAddRecipe, recipe: r} }

func UpdateRecipe(r recipes.Recipe) Endpoint { return Endpoint{op: opUpdateRecipe, recipe: r} }

// ParseRecipe asks the service to turn the page at rawURL into a Recipe.
func ParseRecipe(rawURL string) Endpoint { return Endpoint{op: opParseRecipe, url: rawURL} }

func (e Endpoint) String() string {
	switch e.op {
	case opFetchRecipes:
		return "fetchRecipes"
	case opAddRecipe:
		return "addRecipe"
	case opUpdateRecipe:
		return "updateRecipe"
	case opParseRecipe:
		return "parseRecipe"
	default:
		return "unknown"
	}
}

// Method is POST for operations that send a body, GET otherwise.
func (e Endpoint) Method() string {
	switch e.op {
	case opAddRecipe, opUpdateRecipe, opParseRecipe:
		return http.MethodPost
	default:
		return http.MethodGet
	}
}

// Path is relative to the service base URL.
func (e Endpoint) Path() string {
	if e.op == opParseRecipe {
		return parseRecipePath
	}
	return recipePath
}

type parseRequest struct {
	URL string `json:"url"`
}

// body encodes the request payload; nil means no body.
func (e Endpoint) body() ([]byte, error) {
	switch e.op {
	case opAddRecipe, opUpdateRecipe:
		return json.Marshal(e.recipe)
	case opParseRecipe:
		return json.Marshal(parseRequest{URL: e.url})
	default:
		return nil, nil
	}
}
