package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"gopkg.in/yaml.v3"
)

// IngredientEntry is one item of the legacy ingredients.yaml catalogue.
type IngredientEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Unit string `yaml:"unit"`
}

// Groups lists the raw ingredient lines of a legacy recipe per audience.
type Groups struct {
	General  []string `yaml:"_general"`
	Decko    []string `yaml:"decko"`
	Pubos    []string `yaml:"pubos"`
	Dospelak []string `yaml:"dospelak"`
}

// RecipeEntry is one item of the legacy recipes.yaml file.
type RecipeEntry struct {
	Ingredients Groups `yaml:"ingredients"`
	Porci       Porci  `yaml:"porci"`
}

// Porci keeps the serving count as written. Files mix quoted and bare numbers, and
// some carry free text.
type Porci string

func (p *Porci) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("porci at line %d: expected a scalar", node.Line)
	}
	*p = Porci(node.Value)
	return nil
}

// ParseIngredients decodes an ingredients catalogue keyed by ingredient key.
func ParseIngredients(data []byte) (map[string]IngredientEntry, error) {
	entries := map[string]IngredientEntry{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return entries, nil
}

// ParseRecipes decodes a recipes file keyed by recipe name.
func ParseRecipes(data []byte) (map[string]RecipeEntry, error) {
	entries := map[string]RecipeEntry{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return entries, nil
}

// ReadSource returns the YAML text stored at path. PDF exports of the legacy sheets are
// reduced to their plain text first.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return data, nil
	}
	text, err := extractTextFromPDF(data)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", filepath.Base(path), err)
	}
	return []byte(text), nil
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// FindSource looks for base.yaml, base.yml or base.pdf in dir, in that order.
func FindSource(dir, base string) (string, error) {
	for _, ext := range []string{".yaml", ".yml", ".pdf"} {
		candidate := filepath.Join(dir, base+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no %s.yaml, %s.yml or %s.pdf in %s", base, base, base, dir)
}
