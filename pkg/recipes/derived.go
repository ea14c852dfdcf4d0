package recipes

import (
	"net/url"
	"strings"
	"time"
)

// DefaultSectionTitle names the single section of an instruction list that
// has no section headers.
const DefaultSectionTitle = "Instructions"

const (
	sectionSuffix = "Instructions"
	sectionPrefix = "For the"
)

// InstructionSection is a titled run of instruction steps.
type InstructionSection struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// PrepDuration is the preparation time as a duration.
func (r Recipe) PrepDuration() time.Duration {
	return time.Duration(r.PrepTime) * time.Minute
}

// TotalDuration is the total time as a duration.
func (r Recipe) TotalDuration() time.Duration {
	return time.Duration(r.TotalTime) * time.Minute
}

// CookDuration is the part of the total time that is not preparation.
func (r Recipe) CookDuration() time.Duration {
	if r.TotalTime <= r.PrepTime {
		return 0
	}
	return time.Duration(r.TotalTime-r.PrepTime) * time.Minute
}

// ImageURL parses the stored image string. It returns nil when the recipe has
// no image or the string is not an absolute URL.
func (r Recipe) ImageURL() *url.URL {
	if r.Image == "" {
		return nil
	}
	u, err := url.Parse(r.Image)
	if err != nil || !u.IsAbs() {
		return nil
	}
	return u
}

// CategoryLabel joins category names for display.
func (r Recipe) CategoryLabel() string {
	names := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// CuisineLabel joins cuisine names for display.
func (r Recipe) CuisineLabel() string {
	names := make([]string, 0, len(r.Cuisines))
	for _, c := range r.Cuisines {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// IsSectionHeader reports whether an instruction line titles a section:
// it ends with "Instructions" or starts with "For the".
func IsSectionHeader(line string) bool {
	return strings.HasSuffix(line, sectionSuffix) || strings.HasPrefix(line, sectionPrefix)
}

// DetailedInstructions groups the instruction list into sections.
//
// Without any header line the whole list is one section titled
// DefaultSectionTitle. Otherwise every header starts a section holding the
// lines up to the next header. Lines that come before the first header are
// kept in a leading DefaultSectionTitle section.
func (r Recipe) DetailedInstructions() []InstructionSection {
	return SectionInstructions(r.Instructions)
}

// SectionInstructions implements DetailedInstructions for a bare list.
func SectionInstructions(lines []string) []InstructionSection {
	var sections []InstructionSection
	var current *InstructionSection

	for _, line := range lines {
		if IsSectionHeader(line) {
			sections = append(sections, InstructionSection{Title: line, Steps: []string{}})
			current = &sections[len(sections)-1]
			continue
		}
		if current == nil {
			sections = append(sections, InstructionSection{Title: DefaultSectionTitle, Steps: []string{}})
			current = &sections[len(sections)-1]
		}
		current.Steps = append(current.Steps, line)
	}

	if len(sections) == 0 {
		return []InstructionSection{{Title: DefaultSectionTitle, Steps: []string{}}}
	}
	return sections
}

// Label is the display string for the ingredient, rendered from its parts
// when the payload did not carry one.
func (i Ingredient) Label() string {
	if i.Display != "" {
		return i.Display
	}
	return RenderIngredient(i.Base.Name, i.Quantity, i.Method)
}

// RenderIngredient combines amount, base name and preparation method,
// e.g. "2 cups flour, sifted".
func RenderIngredient(base string, quantity, method *string) string {
	var b strings.Builder
	if quantity != nil && strings.TrimSpace(*quantity) != "" {
		b.WriteString(strings.TrimSpace(*quantity))
		b.WriteByte(' ')
	}
	b.WriteString(base)
	if method != nil && strings.TrimSpace(*method) != "" {
		b.WriteString(", ")
		b.WriteString(strings.TrimSpace(*method))
	}
	return b.String()
}
