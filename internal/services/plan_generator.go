package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/bensuskins/meal-planner/internal/llm"
	"github.com/bensuskins/meal-planner/internal/models"
)

//go:embed plan_generator_prompt.md
var planGeneratorPrompt string

var planGeneratorTemplate = template.Must(template.New("plan_generator").Parse(planGeneratorPrompt))

type GeneratedPlan struct {
	Days        []PlanModification `json:"days"`
	Explanation string             `json:"explanation"`
}

type PlanGenerator struct {
	textGen llm.TextGenerator
}

func NewPlanGenerator(textGen llm.TextGenerator) *PlanGenerator {
	return &PlanGenerator{textGen: textGen}
}

type planPromptData struct {
	StartDate   string
	EndDate     string
	Instruction string
	Days        []models.MealPlanDay
	Recipes     []planPromptRecipe
}

type planPromptRecipe struct {
	ID          string
	Name        string
	Tier        models.Tier
	ProteinType string
	CarbType    string
}

// Generate asks the model for a replacement week. The reply is decoded but
// not validated against the week or catalog.
func (generator *PlanGenerator) Generate(ctx context.Context, instruction string, week []models.MealPlanDay, recipes []models.Recipe) (GeneratedPlan, error) {
	if generator.textGen == nil {
		return GeneratedPlan{}, fmt.Errorf("%w: no ai provider configured", ErrUpstream)
	}

	data := planPromptData{Instruction: instruction, Days: week}
	if len(week) > 0 {
		data.StartDate = week[0].Date
		data.EndDate = week[len(week)-1].Date
	}
	for _, recipe := range recipes {
		entry := planPromptRecipe{ID: recipe.ID, Name: recipe.Name, Tier: recipe.Tier}
		if recipe.ProteinType != nil {
			entry.ProteinType = *recipe.ProteinType
		}
		if recipe.CarbType != nil {
			entry.CarbType = *recipe.CarbType
		}
		data.Recipes = append(data.Recipes, entry)
	}

	var prompt bytes.Buffer
	if err := planGeneratorTemplate.Execute(&prompt, data); err != nil {
		return GeneratedPlan{}, fmt.Errorf("building plan prompt: %w", err)
	}

	response, err := generator.textGen.GenerateContent(ctx, prompt.String())
	if err != nil {
		return GeneratedPlan{}, fmt.Errorf("%w: generating plan: %w", ErrUpstream, err)
	}
	slog.Debug("generated meal plan", "model", response.Usage.Model, "total_tokens", response.Usage.TotalTokens)

	var plan GeneratedPlan
	if err := decodeModelJSON(response.Content, &plan); err != nil {
		return GeneratedPlan{}, err
	}
	return plan, nil
}
