package services

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/bensuskins/meal-planner/internal/models"
)

var slotLabels = map[models.MealSlot]string{
	models.MealSlotLunch:     "Lunch",
	models.MealSlotProtein:   "Protein",
	models.MealSlotCarb:      "Carb",
	models.MealSlotVegetable: "Vegetable",
}

// MealPlanCalendar renders one all-day event per day that has at least one
// filled slot. recipeNames maps recipe ids to display names.
func MealPlanCalendar(householdName string, days []models.MealPlanDay, recipeNames map[string]string, stamp time.Time) string {
	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId("-//meal-planner//EN")
	calendar.SetXWRCalName(householdName + " Meal Plan")

	for _, day := range days {
		date, err := time.Parse(DateLayout, day.Date)
		if err != nil {
			continue
		}

		var names, lines []string
		for _, slot := range models.MealSlots {
			id := day.RecipeID(slot)
			if id == "" {
				continue
			}
			name, ok := recipeNames[id]
			if !ok {
				name = "Unknown recipe"
			}
			names = append(names, name)
			lines = append(lines, fmt.Sprintf("%s: %s", slotLabels[slot], name))
		}
		if len(names) == 0 {
			continue
		}

		event := calendar.AddEvent("meal-" + day.Date + "@meal-planner")
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
		event.SetSummary(strings.Join(names, ", "))
		event.SetDescription(strings.Join(lines, "\n"))
	}

	return calendar.Serialize()
}
