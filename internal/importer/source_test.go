package importer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTextPDF writes a single-page PDF that shows every line in its own text object,
// the way the legacy sheets were printed.
func writeTextPDF(t *testing.T, path string, text string) {
	t.Helper()

	escape := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	var content bytes.Buffer
	y := 800
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(&content, "BT /F1 10 Tf 40 %d Td (%s) Tj ET\n", y, escape.Replace(line))
		y -= 12
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, object := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, object)
	}
	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	if err := os.WriteFile(path, out.Bytes(), 0o600); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestReadSourceExtractsPDFText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recipes.pdf")
	writeTextPDF(t, path, recipesYAML)

	data, err := ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if !strings.Contains(string(data), "\n      - \"2 ks  Vejce\"\n") {
		t.Fatalf("expected indented recipe lines to survive extraction, got %q", data)
	}

	recipes, err := ParseRecipes(data)
	if err != nil {
		t.Fatalf("ParseRecipes: %v", err)
	}
	if len(recipes) != 3 || len(recipes["gulas"].Ingredients.Dospelak) != 2 || recipes["palacinky"].Porci != "4" {
		t.Fatalf("unexpected recipes from pdf: %+v", recipes)
	}
}

func TestRunDirImportsPDFRecipes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ingredients.yaml"), []byte(ingredientsYAML), 0o600); err != nil {
		t.Fatalf("write ingredients: %v", err)
	}
	writeTextPDF(t, filepath.Join(dir, "recipes.pdf"), recipesYAML)

	s := newTestStore(t)
	summary, err := New(s).RunDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("RunDir: %v", err)
	}
	want := Summary{IngredientsImported: 3, IngredientsAutoCreated: 1, RecipesImported: 3}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}

	list, err := s.ListRecipes(context.Background())
	if err != nil {
		t.Fatalf("list recipes: %v", err)
	}
	for _, recipe := range list {
		if recipe.Name != "gulas" {
			continue
		}
		full, err := s.GetRecipeWithIngredients(context.Background(), recipe.ID)
		if err != nil {
			t.Fatalf("load gulas: %v", err)
		}
		lineFor(t, full, "Brambory")
		lineFor(t, full, "Sul")
		return
	}
	t.Fatalf("gulas not imported: %+v", list)
}

func TestFindSourcePrefersYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTextPDF(t, filepath.Join(dir, "recipes.pdf"), recipesYAML)
	if got, err := FindSource(dir, "recipes"); err != nil || filepath.Ext(got) != ".pdf" {
		t.Fatalf("FindSource = %q, %v; want the pdf", got, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "recipes.yml"), []byte(recipesYAML), 0o600); err != nil {
		t.Fatalf("write yml: %v", err)
	}
	if got, err := FindSource(dir, "recipes"); err != nil || filepath.Ext(got) != ".yml" {
		t.Fatalf("FindSource = %q, %v; want the yml", got, err)
	}
}
