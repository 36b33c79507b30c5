package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bensuskins/meal-planner/internal/services"
)

const extractedJSON = `{
	"name": "Garlic Rice",
	"ingredients": ["2 cups rice", "3 cloves garlic, minced"],
	"structuredIngredients": [
		{"name": "rice", "quantity": "2", "unit": "cups", "notes": null},
		{"name": "garlic", "quantity": "3", "unit": "cloves", "notes": "minced"}
	],
	"instructions": "Cook rice.\nAdd garlic.",
	"prepTime": "25 min",
	"proteinType": null,
	"carbType": "rice"
}`

func TestRecipeExtractor_ExtractFromText(t *testing.T) {
	generator := &stubGenerator{content: "Here you go:\n" + extractedJSON}
	extractor := services.NewRecipeExtractor(generator, http.DefaultClient)

	recipe, err := extractor.ExtractFromText(context.Background(), "Garlic rice: 2 cups rice, 3 cloves garlic")
	if err != nil {
		t.Fatalf("extracting: %v", err)
	}

	if recipe.Name != "Garlic Rice" {
		t.Errorf("expected name 'Garlic Rice', got %q", recipe.Name)
	}
	if recipe.Ingredients != "2 cups rice\n3 cloves garlic, minced" {
		t.Errorf("unexpected raw ingredients %q", recipe.Ingredients)
	}
	if len(recipe.StructuredIngredients) != 2 {
		t.Fatalf("expected 2 structured ingredients, got %d", len(recipe.StructuredIngredients))
	}
	garlic := recipe.StructuredIngredients[1]
	if garlic.Name != "garlic" || garlic.Order != 1 {
		t.Errorf("unexpected garlic ingredient: %+v", garlic)
	}
	if recipe.ProteinType != nil {
		t.Errorf("expected nil protein type, got %q", *recipe.ProteinType)
	}
	if recipe.CarbType == nil || *recipe.CarbType != "rice" {
		t.Errorf("expected carb type 'rice', got %v", recipe.CarbType)
	}
	if !strings.Contains(generator.prompts[0], "Garlic rice: 2 cups rice") {
		t.Error("expected prompt to contain the source text")
	}
}

func TestRecipeExtractor_FallsBackToParser(t *testing.T) {
	generator := &stubGenerator{content: `{"name": "Omelette", "ingredients": ["3 large eggs", "1 tbsp butter (unsalted)", "2 cups"]}`}
	extractor := services.NewRecipeExtractor(generator, http.DefaultClient)

	recipe, err := extractor.ExtractFromText(context.Background(), "an omelette")
	if err != nil {
		t.Fatalf("extracting: %v", err)
	}

	if len(recipe.StructuredIngredients) != 3 {
		t.Fatalf("expected 3 structured ingredients, got %d", len(recipe.StructuredIngredients))
	}
	eggs := recipe.StructuredIngredients[0]
	if eggs.Name != "eggs" || eggs.Unit == nil || *eggs.Unit != "large" {
		t.Errorf("unexpected eggs ingredient: %+v", eggs)
	}
	butter := recipe.StructuredIngredients[1]
	if butter.Name != "butter" || butter.Notes == nil || *butter.Notes != "unsalted" {
		t.Errorf("unexpected butter ingredient: %+v", butter)
	}
	if recipe.StructuredIngredients[2].Name != "2 cups" {
		t.Errorf("expected nameless line kept as '2 cups', got %q", recipe.StructuredIngredients[2].Name)
	}
}

func TestRecipeExtractor_Failures(t *testing.T) {
	tests := []struct {
		name      string
		generator *stubGenerator
	}{
		{name: "provider error", generator: &stubGenerator{err: errors.New("quota exceeded")}},
		{name: "not json", generator: &stubGenerator{content: "no recipe here"}},
		{name: "missing name", generator: &stubGenerator{content: `{"ingredients": ["salt"]}`}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			extractor := services.NewRecipeExtractor(test.generator, http.DefaultClient)
			_, err := extractor.ExtractFromText(context.Background(), "some recipe")
			if !errors.Is(err, services.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
		})
	}
}

func TestRecipeExtractor_NotConfigured(t *testing.T) {
	extractor := services.NewRecipeExtractor(nil, http.DefaultClient)

	_, err := extractor.ExtractFromText(context.Background(), "some recipe")
	if !errors.Is(err, services.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestRecipeExtractor_EmptyText(t *testing.T) {
	extractor := services.NewRecipeExtractor(&stubGenerator{}, http.DefaultClient)

	_, err := extractor.ExtractFromText(context.Background(), "  ")
	var validation *services.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestRecipeExtractor_ExtractFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><style>body{}</style></head><body>
			<nav>Home | Recipes</nav>
			<script>trackVisitor()</script>
			<h1>Garlic Rice</h1>
			<ul>
				<li>2 cups rice</li>
				<li>3 cloves garlic</li>
			</ul>
			<footer>Copyright</footer>
		</body></html>`))
	}))
	defer server.Close()

	generator := &stubGenerator{content: extractedJSON}
	extractor := services.NewRecipeExtractor(generator, server.Client())

	recipe, err := extractor.ExtractFromURL(context.Background(), server.URL+"/garlic-rice")
	if err != nil {
		t.Fatalf("extracting: %v", err)
	}

	if recipe.SourceURL == nil || *recipe.SourceURL != server.URL+"/garlic-rice" {
		t.Errorf("expected source url %s, got %v", server.URL+"/garlic-rice", recipe.SourceURL)
	}

	prompt := generator.prompts[0]
	if !strings.Contains(prompt, "Garlic Rice 2 cups rice 3 cloves garlic") {
		t.Error("expected prompt to contain the page text")
	}
	for _, stripped := range []string{"trackVisitor", "Copyright", "Home | Recipes"} {
		if strings.Contains(prompt, stripped) {
			t.Errorf("expected %q to be stripped from the prompt", stripped)
		}
	}
}

func TestRecipeExtractor_ExtractFromURL_ReadsBoundedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><h1>Garlic Rice</h1><!--"))
		w.Write([]byte(strings.Repeat("x", 3<<20)))
		w.Write([]byte("--><p>Trailing Text</p></body></html>"))
	}))
	defer server.Close()

	generator := &stubGenerator{content: extractedJSON}
	extractor := services.NewRecipeExtractor(generator, server.Client())

	if _, err := extractor.ExtractFromURL(context.Background(), server.URL); err != nil {
		t.Fatalf("extracting: %v", err)
	}

	prompt := generator.prompts[0]
	if !strings.Contains(prompt, "Garlic Rice") {
		t.Error("expected prompt to contain the start of the page")
	}
	if strings.Contains(prompt, "Trailing Text") {
		t.Error("expected text past the read limit to be ignored")
	}
}

func TestRecipeExtractor_ExtractFromURL_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	extractor := services.NewRecipeExtractor(&stubGenerator{content: extractedJSON}, server.Client())

	_, err := extractor.ExtractFromURL(context.Background(), server.URL+"/missing")
	if !errors.Is(err, services.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}

	_, err = extractor.ExtractFromURL(context.Background(), "ftp://example.com/recipe")
	var validation *services.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
