package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/recipebox/pkg/api"
	"github.com/unowned-ai/recipebox/pkg/query"
	"github.com/unowned-ai/recipebox/pkg/recipes"
)

const dateLayout = "2006-01-02"

// RecipeSummary is the list form of a recipe.
type RecipeSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Categories     string    `json:"categories,omitempty"`
	Cuisines       string    `json:"cuisines,omitempty"`
	TotalTime      int       `json:"total_time"`
	Favorite       bool      `json:"favorite"`
	TimesCompleted int       `json:"times_completed"`
	CreatedOn      time.Time `json:"created_on"`
}

// RecipeDetail is a stored recipe with its sectioned instructions.
type RecipeDetail struct {
	recipes.Recipe
	Sections []recipes.InstructionSection `json:"sections"`
}

func summarize(r recipes.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:             r.ID,
		Name:           r.Name,
		Categories:     r.CategoryLabel(),
		Cuisines:       r.CuisineLabel(),
		TotalTime:      r.TotalTime,
		Favorite:       r.Favorite,
		TimesCompleted: r.TimesCompleted,
		CreatedOn:      r.CreatedOn,
	}
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Recipebox MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_recipebox"), nil
}

// RegisterParseRecipeTool registers the parse_recipe tool.
func RegisterParseRecipeTool(s *server.MCPServer, g *recipes.Gateway, client *api.Client) {
	tool := mcp.NewTool("parse_recipe",
		mcp.WithDescription("Sends a recipe page URL to the parse service and stores the resulting recipe."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Absolute URL of the recipe page.")),
	)
	s.AddTool(tool, parseRecipeHandler(g, client))
}

func parseRecipeHandler(g *recipes.Gateway, client *api.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawURL, ok := request.Params.Arguments["url"].(string)
		if !ok || strings.TrimSpace(rawURL) == "" {
			return mcp.NewToolResultError("'url' parameter is required and must be a non-empty string."), nil
		}
		if client == nil {
			return mcp.NewToolResultError("No parse service configured (set RECIPEBOX_API_BASE_URL)."), nil
		}

		ref, err := api.RequestAndStore(ctx, client, api.ParseRecipe(strings.TrimSpace(rawURL)), g, recipes.KindRecipe)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to parse recipe: %v", err)), nil
		}
		r, err := g.Resolve(ctx, ref)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Recipe was stored but could not be loaded: %v", err)), nil
		}
		return jsonResult(detail(r))
	}
}

// RegisterListRecipesTool registers the list_recipes tool.
func RegisterListRecipesTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("list_recipes",
		mcp.WithDescription("Lists stored recipes, optionally filtered by a name search and sorted."),
		mcp.WithString("search", mcp.Description("Case-insensitive substring of the recipe name.")),
		mcp.WithString("sort", mcp.Description("Sort key: 'created' (default) or 'name'.")),
		mcp.WithString("order", mcp.Description("'latest' or 'oldest' for created; 'a-z' or 'z-a' for name. Defaults to the first.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of recipes to return. 0 returns all.")),
		mcp.WithNumber("offset", mcp.Description("Number of recipes to skip.")),
	)
	s.AddTool(tool, listRecipesHandler(g))
}

func listRecipesHandler(g *recipes.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.Params.Arguments
		search, _ := args["search"].(string)
		sortStr, _ := args["sort"].(string)
		orderStr, _ := args["order"].(string)
		limit, _ := args["limit"].(float64)
		offset, _ := args["offset"].(float64)

		key := query.KeyCreatedOn
		if sortStr != "" {
			k, err := query.ParseSortKey(sortStr)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			key = k
		}
		order, err := query.ParseSortOrder(key, orderStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		view := query.NewView(g, 0)
		defer view.Close()
		view.SelectKey(key)
		if err := view.SetOrder(order); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view.SetTerm(search)

		refs, err := view.Page(ctx, int(offset), int(limit))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list recipes: %v", err)), nil
		}

		out := make([]RecipeSummary, 0, len(refs))
		for _, ref := range refs {
			r, err := g.Resolve(ctx, ref)
			if errors.Is(err, recipes.ErrRecipeNotFound) {
				continue
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to load recipe %s: %v", ref.ID(), err)), nil
			}
			out = append(out, summarize(r))
		}
		return jsonResult(out)
	}
}

// RegisterGetRecipeTool registers the get_recipe tool.
func RegisterGetRecipeTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("get_recipe",
		mcp.WithDescription("Retrieves a stored recipe, including instructions grouped into sections."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id.")),
	)
	s.AddTool(tool, getRecipeHandler(g))
}

func getRecipeHandler(g *recipes.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		r, err := g.Resolve(ctx, recipes.RecipeRef(id))
		if err != nil {
			return notFoundOr(err, "Failed to get recipe"), nil
		}
		return jsonResult(detail(r))
	}
}

// RegisterToggleFavoriteTool registers the toggle_favorite tool.
func RegisterToggleFavoriteTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("toggle_favorite",
		mcp.WithDescription("Flips the favorite flag of a recipe."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		fav, err := g.ToggleFavorite(ctx, recipes.RecipeRef(id))
		if err != nil {
			return notFoundOr(err, "Failed to toggle favorite"), nil
		}
		return jsonResult(map[string]any{"id": id, "favorite": fav})
	})
}

// RegisterMarkCookedTool registers the mark_cooked tool.
func RegisterMarkCookedTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("mark_cooked",
		mcp.WithDescription("Records that a recipe was cooked once more."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		n, err := g.MarkCooked(ctx, recipes.RecipeRef(id))
		if err != nil {
			return notFoundOr(err, "Failed to mark recipe cooked"), nil
		}
		return jsonResult(map[string]any{"id": id, "times_completed": n})
	})
}

// RegisterDeleteRecipeTool registers the delete_recipe tool.
func RegisterDeleteRecipeTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("delete_recipe",
		mcp.WithDescription("Deletes a recipe with its ingredients and instructions. Tags are kept."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id.")),
	)
	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		if err := g.Delete(ctx, recipes.RecipeRef(id)); err != nil {
			return notFoundOr(err, "Failed to delete recipe"), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Recipe '%s' deleted.", id)), nil
	})
}

// RegisterPlanRecipeTool registers the plan_recipe tool.
func RegisterPlanRecipeTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("plan_recipe",
		mcp.WithDescription("Puts a recipe on the week menu for a day."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Recipe id.")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day in YYYY-MM-DD form.")),
	)
	s.AddTool(tool, planRecipeHandler(g))
}

func planRecipeHandler(g *recipes.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := requiredID(request)
		if errResult != nil {
			return errResult, nil
		}
		dateStr, _ := request.Params.Arguments["date"].(string)
		day, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
		if err != nil {
			return mcp.NewToolResultError("'date' parameter is required in YYYY-MM-DD form."), nil
		}
		entry, err := g.PlanRecipe(ctx, id, day)
		if err != nil {
			return notFoundOr(err, "Failed to plan recipe"), nil
		}
		return jsonResult(entry)
	}
}

// RegisterWeekMenuTool registers the week_menu tool.
func RegisterWeekMenuTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("week_menu",
		mcp.WithDescription("Lists the recipes planned for the Monday to Sunday week containing a day."),
		mcp.WithString("date", mcp.Description("Any day of the week in YYYY-MM-DD form. Defaults to today.")),
	)
	s.AddTool(tool, weekMenuHandler(g, time.Now))
}

func weekMenuHandler(g *recipes.Gateway, now func() time.Time) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day := now()
		if dateStr, _ := request.Params.Arguments["date"].(string); dateStr != "" {
			parsed, err := time.Parse(dateLayout, strings.TrimSpace(dateStr))
			if err != nil {
				return mcp.NewToolResultError("'date' must be in YYYY-MM-DD form."), nil
			}
			day = parsed
		}
		items, err := g.WeekMenu(ctx, day)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load week menu: %v", err)), nil
		}
		return jsonResult(items)
	}
}

// RegisterListTagsTool registers the list_tags tool.
func RegisterListTagsTool(s *server.MCPServer, g *recipes.Gateway) {
	tool := mcp.NewTool("list_tags",
		mcp.WithDescription("Lists categories, cuisines or base ingredients with the number of recipes using each."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("'category', 'cuisine' or 'ingredient'.")),
	)
	s.AddTool(tool, listTagsHandler(g))
}

func listTagsHandler(g *recipes.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kindStr, _ := request.Params.Arguments["kind"].(string)
		kind, err := recipes.ParseTagKind(kindStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tags, err := g.Tags(ctx, kind)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tags: %v", err)), nil
		}
		if len(tags) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(tags)
	}
}

func detail(r recipes.Recipe) RecipeDetail {
	return RecipeDetail{Recipe: r, Sections: r.DetailedInstructions()}
}

func requiredID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id, ok := request.Params.Arguments["id"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", mcp.NewToolResultError("'id' parameter is required and must be a non-empty string.")
	}
	return strings.TrimSpace(id), nil
}

func notFoundOr(err error, prefix string) *mcp.CallToolResult {
	if errors.Is(err, recipes.ErrRecipeNotFound) {
		return mcp.NewToolResultError("Recipe not found.")
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
