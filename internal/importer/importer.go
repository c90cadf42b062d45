// Package importer loads the legacy YAML ingredient catalogue and recipe book into the
// store, turning per-audience quantities into base quantities with multipliers.
package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	applog "campmeals/internal/log"
	"campmeals/internal/planning"
	"campmeals/models"
)

// AutoCreatedUnit is the unit given to ingredients that recipes mention but the
// catalogue does not.
const AutoCreatedUnit = "g"

// Catalog is the storage the importer writes to. *store.Store implements it.
type Catalog interface {
	FindOrCreateCategory(ctx context.Context, name string) (models.Category, error)
	FindOrCreateIngredient(ctx context.Context, name string, categoryID uint, unit string) (models.Ingredient, error)
	ListIngredients(ctx context.Context, categoryID *uint) ([]models.Ingredient, error)
	RecipeExists(ctx context.Context, name string) (bool, error)
	CreateImportedRecipe(ctx context.Context, recipe *models.Recipe) error
}

// Summary counts what an import run changed.
type Summary struct {
	IngredientsImported    int
	IngredientsAutoCreated int
	RecipesImported        int
	RecipesSkipped         int
	LinesSkipped           int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d ingredients imported, %d recipes imported, %d ingredients auto-created, %d recipes skipped, %d lines skipped",
		s.IngredientsImported, s.RecipesImported, s.IngredientsAutoCreated, s.RecipesSkipped, s.LinesSkipped)
}

// MapCategory translates a legacy ingredient type into a category name.
func MapCategory(kind string) string {
	switch kind {
	case "ovoce zelenina":
		return "Vegetables"
	case "pekarna":
		return "Baking Goods"
	case "maso":
		return "Meat & Fish"
	default:
		return models.FallbackCategory
	}
}

// Importer runs one import against a catalog. It is not safe for concurrent use.
type Importer struct {
	catalog    Catalog
	lookup     map[string]uint
	existing   map[string]bool
	categories map[string]uint
}

func New(catalog Catalog) *Importer {
	return &Importer{catalog: catalog}
}

// Run imports the catalogue first and the recipes second. Keys are processed in sorted
// order so repeated runs behave the same. Recipes whose name is already stored are
// skipped; each new recipe is written in its own transaction.
func (im *Importer) Run(ctx context.Context, ingredients map[string]IngredientEntry, recipes map[string]RecipeEntry) (Summary, error) {
	summary := Summary{}
	if err := im.seedLookup(ctx); err != nil {
		return summary, err
	}

	if err := im.importIngredients(ctx, ingredients, &summary); err != nil {
		return summary, err
	}
	if err := im.importRecipes(ctx, recipes, &summary); err != nil {
		return summary, err
	}

	applog.Info(ctx, "import finished",
		"ingredients_imported", summary.IngredientsImported,
		"recipes_imported", summary.RecipesImported,
		"ingredients_auto_created", summary.IngredientsAutoCreated,
		"recipes_skipped", summary.RecipesSkipped,
	)
	return summary, nil
}

// RunDir reads ingredients and recipes from dir (YAML or PDF) and imports them.
func (im *Importer) RunDir(ctx context.Context, dir string) (Summary, error) {
	ingredientsPath, err := FindSource(dir, "ingredients")
	if err != nil {
		return Summary{}, err
	}
	recipesPath, err := FindSource(dir, "recipes")
	if err != nil {
		return Summary{}, err
	}

	data, err := ReadSource(ingredientsPath)
	if err != nil {
		return Summary{}, fmt.Errorf("read ingredients: %w", err)
	}
	ingredients, err := ParseIngredients(data)
	if err != nil {
		return Summary{}, err
	}

	data, err = ReadSource(recipesPath)
	if err != nil {
		return Summary{}, fmt.Errorf("read recipes: %w", err)
	}
	recipes, err := ParseRecipes(data)
	if err != nil {
		return Summary{}, err
	}

	return im.Run(ctx, ingredients, recipes)
}

// seedLookup maps the exact and lower-cased names of stored ingredients to their ids so
// re-runs match ingredients created earlier.
func (im *Importer) seedLookup(ctx context.Context) error {
	im.lookup = map[string]uint{}
	im.existing = map[string]bool{}
	im.categories = map[string]uint{}

	stored, err := im.catalog.ListIngredients(ctx, nil)
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	for _, ingredient := range stored {
		im.existing[ingredient.Name] = true
		im.remember(ingredient.Name, ingredient.ID)
		im.rememberLower(ingredient.Name, ingredient.ID)
	}
	return nil
}

func (im *Importer) remember(key string, id uint) {
	im.lookup[key] = id
}

func (im *Importer) rememberLower(name string, id uint) {
	lower := strings.ToLower(name)
	if _, ok := im.lookup[lower]; !ok {
		im.lookup[lower] = id
	}
}

func (im *Importer) categoryID(ctx context.Context, name string) (uint, error) {
	if id, ok := im.categories[name]; ok {
		return id, nil
	}
	category, err := im.catalog.FindOrCreateCategory(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("category %q: %w", name, err)
	}
	im.categories[name] = category.ID
	return category.ID, nil
}

func (im *Importer) importIngredients(ctx context.Context, entries map[string]IngredientEntry, summary *Summary) error {
	for _, key := range sortedKeys(entries) {
		entry := entries[key]
		categoryID, err := im.categoryID(ctx, MapCategory(entry.Type))
		if err != nil {
			return err
		}
		ingredient, err := im.catalog.FindOrCreateIngredient(ctx, entry.Name, categoryID, entry.Unit)
		if err != nil {
			return fmt.Errorf("ingredient %q: %w", key, err)
		}
		if !im.existing[ingredient.Name] {
			im.existing[ingredient.Name] = true
			summary.IngredientsImported++
		}
		im.remember(key, ingredient.ID)
		im.rememberLower(entry.Name, ingredient.ID)
	}
	return nil
}

// resolve finds the ingredient for a recipe line key: exact key first, then the
// lower-cased key. Unknown keys become new ingredients in the fallback category.
func (im *Importer) resolve(ctx context.Context, key string, summary *Summary) (uint, error) {
	if id, ok := im.lookup[key]; ok {
		return id, nil
	}
	if id, ok := im.lookup[strings.ToLower(key)]; ok {
		return id, nil
	}

	otherID, err := im.categoryID(ctx, models.FallbackCategory)
	if err != nil {
		return 0, err
	}
	ingredient, err := im.catalog.FindOrCreateIngredient(ctx, key, otherID, AutoCreatedUnit)
	if err != nil {
		return 0, fmt.Errorf("auto-create ingredient %q: %w", key, err)
	}
	im.remember(key, ingredient.ID)
	if !im.existing[ingredient.Name] {
		im.existing[ingredient.Name] = true
		summary.IngredientsAutoCreated++
		applog.Debug(ctx, "auto-created ingredient", "key", key, "category", models.FallbackCategory)
	}
	return ingredient.ID, nil
}

func (im *Importer) importRecipes(ctx context.Context, entries map[string]RecipeEntry, summary *Summary) error {
	for _, name := range sortedKeys(entries) {
		entry := entries[name]

		exists, err := im.catalog.RecipeExists(ctx, name)
		if err != nil {
			return fmt.Errorf("recipe %q: %w", name, err)
		}
		if exists {
			summary.RecipesSkipped++
			continue
		}

		porci := planning.ParsePorci(string(entry.Porci))
		normalized := planning.NormalizeLegacyRecipe(planning.LegacyGroups{
			General: entry.Ingredients.General,
			Child:   entry.Ingredients.Decko,
			Teen:    entry.Ingredients.Pubos,
			Adult:   entry.Ingredients.Dospelak,
		}, porci)

		recipe := models.Recipe{Name: name, BaseServings: 1}
		for _, item := range normalized {
			id, err := im.resolve(ctx, item.Key, summary)
			if err != nil {
				return fmt.Errorf("recipe %q: %w", name, err)
			}
			line := models.RecipeIngredient{
				IngredientID:    id,
				BaseQuantity:    item.BaseQuantity,
				Unit:            item.Unit,
				ChildMultiplier: planning.Float(item.ChildMultiplier),
				TeenMultiplier:  planning.Float(item.TeenMultiplier),
				AdultMultiplier: planning.Float(item.AdultMultiplier),
			}
			if err := planning.ValidateRecipeIngredient(line.Line()); err != nil {
				summary.LinesSkipped++
				applog.Warn(ctx, "skipping invalid recipe line", "recipe", name, "key", item.Key, "error", err)
				continue
			}
			recipe.Ingredients = append(recipe.Ingredients, line)
		}

		if err := im.catalog.CreateImportedRecipe(ctx, &recipe); err != nil {
			return fmt.Errorf("recipe %q: %w", name, err)
		}
		summary.RecipesImported++
		applog.Debug(ctx, "imported recipe", "name", name, "lines", len(recipe.Ingredients), "porci", porci)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
