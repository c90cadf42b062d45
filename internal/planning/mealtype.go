package planning

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// MealType is one of the five fixed meal slots of a camp day.
type MealType int

const (
	Breakfast MealType = iota + 1
	MorningSnack
	Lunch
	AfternoonSnack
	Dinner
)

var mealTypeNames = [...]string{
	Breakfast:      "breakfast",
	MorningSnack:   "morning_snack",
	Lunch:          "lunch",
	AfternoonSnack: "afternoon_snack",
	Dinner:         "dinner",
}

// MealTypes lists every meal slot in day order.
func MealTypes() []MealType {
	return []MealType{Breakfast, MorningSnack, Lunch, AfternoonSnack, Dinner}
}

// Ordinal returns the position of the slot within a day, starting at 1 for breakfast.
func (m MealType) Ordinal() int {
	return int(m)
}

// Valid reports whether m is one of the five known slots.
func (m MealType) Valid() bool {
	return m >= Breakfast && m <= Dinner
}

func (m MealType) String() string {
	if !m.Valid() {
		return fmt.Sprintf("MealType(%d)", int(m))
	}
	return mealTypeNames[m]
}

// ParseMealType resolves the snake_case slot name used in storage and JSON payloads.
func ParseMealType(value string) (MealType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, m := range MealTypes() {
		if mealTypeNames[m] == normalized {
			return m, nil
		}
	}
	return 0, &ValidationError{Field: "meal_type", Message: fmt.Sprintf("unknown meal type %q", value)}
}

func (m MealType) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid meal type %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *MealType) UnmarshalText(text []byte) error {
	parsed, err := ParseMealType(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the slot by name so the column stays readable in SQL.
func (m MealType) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid meal type %d", int(m))
	}
	return m.String(), nil
}

func (m *MealType) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return m.UnmarshalText([]byte(v))
	case []byte:
		return m.UnmarshalText(v)
	case nil:
		return fmt.Errorf("scan meal type: null value")
	default:
		return fmt.Errorf("scan meal type: unsupported type %T", src)
	}
}
