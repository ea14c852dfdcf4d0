package recipes

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed samples.yaml
var builtinSamples string

type sampleIngredient struct {
	Name     string  `yaml:"name"`
	Quantity *string `yaml:"quantity"`
	Method   *string `yaml:"method"`
}

type sampleRecipe struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Author       string             `yaml:"author"`
	Website      string             `yaml:"website"`
	Categories   []string           `yaml:"categories"`
	Cuisines     []string           `yaml:"cuisines"`
	Detail       string             `yaml:"detail"`
	PrepTime     int                `yaml:"prep_time"`
	TotalTime    int                `yaml:"total_time"`
	Image        string             `yaml:"image"`
	SourceURL    string             `yaml:"source_url"`
	Instructions []string           `yaml:"instructions"`
	Ingredients  []sampleIngredient `yaml:"ingredients"`
}

type sampleFile struct {
	Recipes []sampleRecipe `yaml:"recipes"`
}

// LoadSamples reads a YAML recipe list. Every recipe is validated; the first
// invalid one aborts the load.
func LoadSamples(r io.Reader) ([]Recipe, error) {
	var file sampleFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, decodeError("samples", err)
	}

	out := make([]Recipe, 0, len(file.Recipes))
	for i, s := range file.Recipes {
		rec := s.recipe()
		if err := Validate(rec); err != nil {
			return nil, fmt.Errorf("sample %d (%q): %w", i, s.Name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// BuiltinSamples returns the recipes bundled with the binary.
func BuiltinSamples() ([]Recipe, error) {
	return LoadSamples(strings.NewReader(builtinSamples))
}

func (s sampleRecipe) recipe() Recipe {
	rec := Recipe{
		ID:           s.ID,
		Name:         s.Name,
		Detail:       s.Detail,
		PrepTime:     s.PrepTime,
		TotalTime:    s.TotalTime,
		Image:        s.Image,
		SourceURL:    s.SourceURL,
		Instructions: s.Instructions,
		Display:      s.Name,
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	if s.Author != "" {
		rec.Author = &Author{Name: s.Author, Website: s.Website}
	}
	for _, c := range s.Categories {
		rec.Categories = append(rec.Categories, Category{Name: c})
	}
	for _, c := range s.Cuisines {
		rec.Cuisines = append(rec.Cuisines, Cuisine{Name: c})
	}
	for _, ing := range s.Ingredients {
		rec.Ingredients = append(rec.Ingredients, Ingredient{
			Base:     BaseIngredient{Name: ing.Name},
			Quantity: ing.Quantity,
			Method:   ing.Method,
			Display:  RenderIngredient(ing.Name, ing.Quantity, ing.Method),
		})
	}
	return rec
}
