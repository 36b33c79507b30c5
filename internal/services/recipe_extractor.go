package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"text/template"

	"github.com/PuerkitoBio/goquery"
	"github.com/bensuskins/meal-planner/internal/llm"
	"github.com/bensuskins/meal-planner/internal/models"
)

//go:embed recipe_extractor_prompt.md
var recipeExtractorPrompt string

var recipeExtractorTemplate = template.Must(template.New("recipe_extractor").Parse(recipeExtractorPrompt))

// maxPageText caps the page text sent to the model.
const maxPageText = 20000

// maxPageBytes caps how much of a fetched page is read before parsing.
const maxPageBytes = 2 << 20

type ExtractedRecipe struct {
	Name                  string                        `json:"name"`
	Ingredients           string                        `json:"ingredients"`
	StructuredIngredients []models.StructuredIngredient `json:"structuredIngredients"`
	Instructions          string                        `json:"instructions"`
	PrepTime              *string                       `json:"prepTime"`
	ProteinType           *string                       `json:"proteinType"`
	CarbType              *string                       `json:"carbType"`
	SourceURL             *string                       `json:"sourceUrl"`
}

type RecipeExtractor struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewRecipeExtractor accepts a nil textGen; extraction then fails with
// ErrUpstream.
func NewRecipeExtractor(textGen llm.TextGenerator, httpClient *http.Client) *RecipeExtractor {
	return &RecipeExtractor{textGen: textGen, httpClient: httpClient}
}

type extractorReply struct {
	Name                  string   `json:"name"`
	Ingredients           []string `json:"ingredients"`
	StructuredIngredients []struct {
		Name     string  `json:"name"`
		Quantity *string `json:"quantity"`
		Unit     *string `json:"unit"`
		Notes    *string `json:"notes"`
	} `json:"structuredIngredients"`
	Instructions string  `json:"instructions"`
	PrepTime     *string `json:"prepTime"`
	ProteinType  *string `json:"proteinType"`
	CarbType     *string `json:"carbType"`
}

func (extractor *RecipeExtractor) ExtractFromText(ctx context.Context, text string) (ExtractedRecipe, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ExtractedRecipe{}, validationError("text is required")
	}
	if extractor.textGen == nil {
		return ExtractedRecipe{}, fmt.Errorf("%w: no ai provider configured", ErrUpstream)
	}

	var prompt bytes.Buffer
	if err := recipeExtractorTemplate.Execute(&prompt, struct{ Content string }{Content: text}); err != nil {
		return ExtractedRecipe{}, fmt.Errorf("building extractor prompt: %w", err)
	}

	response, err := extractor.textGen.GenerateContent(ctx, prompt.String())
	if err != nil {
		return ExtractedRecipe{}, fmt.Errorf("%w: extracting recipe: %w", ErrUpstream, err)
	}

	var reply extractorReply
	if err := decodeModelJSON(response.Content, &reply); err != nil {
		return ExtractedRecipe{}, err
	}
	if strings.TrimSpace(reply.Name) == "" {
		return ExtractedRecipe{}, fmt.Errorf("%w: response has no recipe name", ErrUpstream)
	}

	extracted := ExtractedRecipe{
		Name:         strings.TrimSpace(reply.Name),
		Ingredients:  strings.Join(reply.Ingredients, "\n"),
		Instructions: reply.Instructions,
		PrepTime:     nonEmptyPtr(reply.PrepTime),
		ProteinType:  nonEmptyPtr(reply.ProteinType),
		CarbType:     nonEmptyPtr(reply.CarbType),
	}

	for _, ingredient := range reply.StructuredIngredients {
		if strings.TrimSpace(ingredient.Name) == "" {
			continue
		}
		extracted.StructuredIngredients = append(extracted.StructuredIngredients, models.StructuredIngredient{
			Name:     strings.TrimSpace(ingredient.Name),
			Quantity: nonEmptyPtr(ingredient.Quantity),
			Unit:     nonEmptyPtr(ingredient.Unit),
			Notes:    nonEmptyPtr(ingredient.Notes),
			Order:    len(extracted.StructuredIngredients),
		})
	}
	if len(extracted.StructuredIngredients) == 0 {
		extracted.StructuredIngredients = StructuredIngredientsFromText(extracted.Ingredients)
	}
	return extracted, nil
}

// ExtractFromURL downloads the page, strips markup and noise, and extracts the
// recipe from the remaining text.
func (extractor *RecipeExtractor) ExtractFromURL(ctx context.Context, rawURL string) (ExtractedRecipe, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ExtractedRecipe{}, validationError(fmt.Sprintf("invalid url %q", rawURL))
	}

	text, err := extractor.fetchPageText(ctx, parsed.String())
	if err != nil {
		return ExtractedRecipe{}, fmt.Errorf("%w: fetching %s: %w", ErrUpstream, parsed.Host, err)
	}

	extracted, err := extractor.ExtractFromText(ctx, text)
	if err != nil {
		return ExtractedRecipe{}, err
	}
	source := parsed.String()
	extracted.SourceURL = &source
	return extracted, nil
}

func (extractor *RecipeExtractor) fetchPageText(ctx context.Context, pageURL string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	response, err := extractor.httpClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	document, err := goquery.NewDocumentFromReader(io.LimitReader(response.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	document.Find("script, style, nav, footer, header, iframe, noscript, .ads, #ads").Remove()

	text := strings.Join(strings.Fields(document.Find("body").Text()), " ")
	if text == "" {
		return "", fmt.Errorf("page has no text")
	}
	if len(text) > maxPageText {
		text = strings.ToValidUTF8(text[:maxPageText], "")
	}
	return text, nil
}

func nonEmptyPtr(value *string) *string {
	if value == nil {
		return nil
	}
	return nonEmpty(*value)
}
