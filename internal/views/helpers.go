// Package views renders the few HTML pages the planner serves: the login form, the camp
// list and the printable shopping list and meal schedule.
package views

//go:generate templ generate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"campmeals/internal/planning"
)

// Language selects the wording of the printable reports.
type Language string

const (
	English Language = "en"
	Czech   Language = "cz"
)

// ParseLanguage accepts "cz" (or "cs") for Czech. Anything else renders in English.
func ParseLanguage(value string) Language {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "cz", "cs":
		return Czech
	default:
		return English
	}
}

// Code is the value of the html lang attribute.
func (l Language) Code() string {
	if l == Czech {
		return "cs"
	}
	return "en"
}

type phrases struct {
	shoppingList   string
	mealSchedule   string
	camp           string
	date           string
	meal           string
	recipe         string
	children       string
	teens          string
	adults         string
	noMealsInRange string
	noMealsPlanned string
	dateRange      string
	dateLayout     string
	mealTypes      map[planning.MealType]string
}

var wording = map[Language]phrases{
	English: {
		shoppingList:   "Shopping list",
		mealSchedule:   "Meal schedule",
		camp:           "Camp",
		date:           "Date",
		meal:           "Meal",
		recipe:         "Recipe",
		children:       "Children",
		teens:          "Teens",
		adults:         "Adults",
		noMealsInRange: "No meals planned in this range.",
		noMealsPlanned: "No meals planned yet.",
		dateRange:      "From %s to %s",
		dateLayout:     "2006-01-02",
		mealTypes: map[planning.MealType]string{
			planning.Breakfast:      "Breakfast",
			planning.MorningSnack:   "Morning snack",
			planning.Lunch:          "Lunch",
			planning.AfternoonSnack: "Afternoon snack",
			planning.Dinner:         "Dinner",
		},
	},
	Czech: {
		shoppingList:   "Nákupní seznam",
		mealSchedule:   "Jídelníček",
		camp:           "Tábor",
		date:           "Datum",
		meal:           "Jídlo",
		recipe:         "Recept",
		children:       "Děti",
		teens:          "Mládež",
		adults:         "Dospělí",
		noMealsInRange: "V tomto období nejsou naplánována žádná jídla.",
		noMealsPlanned: "Zatím nejsou naplánována žádná jídla.",
		dateRange:      "Od %s do %s",
		dateLayout:     "02.01.2006",
		mealTypes: map[planning.MealType]string{
			planning.Breakfast:      "Snídaně",
			planning.MorningSnack:   "Dopolední svačina",
			planning.Lunch:          "Oběd",
			planning.AfternoonSnack: "Odpolední svačina",
			planning.Dinner:         "Večeře",
		},
	},
}

func (l Language) phrases() phrases {
	if p, ok := wording[l]; ok {
		return p
	}
	return wording[English]
}

// FormatQuantity prints a quantity with two decimals.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', 2, 64)
}

// FormatDate prints a date the way the language writes it: 2025-07-01 or 01.07.2025.
func FormatDate(lang Language, t time.Time) string {
	return t.Format(lang.phrases().dateLayout)
}

// FormatDateRange prints a single date when start and end fall on the same day.
func FormatDateRange(lang Language, start, end time.Time) string {
	from, to := FormatDate(lang, start), FormatDate(lang, end)
	if from == to {
		return from
	}
	return fmt.Sprintf(lang.phrases().dateRange, from, to)
}

// MealLabel names a meal slot, e.g. "Afternoon snack" or "Odpolední svačina".
func MealLabel(lang Language, m planning.MealType) string {
	if label, ok := lang.phrases().mealTypes[m]; ok {
		return label
	}
	return m.String()
}

func pageTitle(heading, campName string) string {
	return heading + ": " + campName
}

func reportURL(path string, campID uint, lang Language) templ.SafeURL {
	url := path + "?camp_id=" + strconv.FormatUint(uint64(campID), 10)
	if lang != English {
		url += "&lang=" + string(lang)
	}
	return templ.URL(url)
}

type categoryGroup struct {
	Name  string
	Items []planning.ShoppingListItem
}

// groupByCategory splits the shopping list into runs of the same category. The
// aggregator already keeps categories contiguous, so order is preserved.
func groupByCategory(items []planning.ShoppingListItem) []categoryGroup {
	var groups []categoryGroup
	for _, item := range items {
		if n := len(groups); n > 0 && groups[n-1].Name == item.CategoryName {
			groups[n-1].Items = append(groups[n-1].Items, item)
			continue
		}
		groups = append(groups, categoryGroup{Name: item.CategoryName, Items: []planning.ShoppingListItem{item}})
	}
	return groups
}
