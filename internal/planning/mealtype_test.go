package planning

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMealType(t *testing.T) {
	t.Parallel()

	for _, m := range MealTypes() {
		parsed, err := ParseMealType(m.String())
		if err != nil || parsed != m {
			t.Fatalf("ParseMealType(%q) = %v, %v", m.String(), parsed, err)
		}
	}

	if got, err := ParseMealType(" Afternoon_Snack "); err != nil || got != AfternoonSnack {
		t.Fatalf("expected case-insensitive parse, got %v, %v", got, err)
	}

	_, err := ParseMealType("brunch")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "meal_type" {
		t.Fatalf("expected meal_type validation error, got %v", err)
	}
}

func TestMealTypeOrdinalFollowsDayOrder(t *testing.T) {
	t.Parallel()

	types := MealTypes()
	for i := 1; i < len(types); i++ {
		if types[i-1].Ordinal() >= types[i].Ordinal() {
			t.Fatalf("%s should come before %s", types[i-1], types[i])
		}
	}
	if MealType(0).Valid() || MealType(6).Valid() {
		t.Fatal("out of range meal types must be invalid")
	}
}

func TestMealTypeJSON(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(struct {
		MealType MealType `json:"meal_type"`
	}{MorningSnack})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"meal_type":"morning_snack"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	var decoded struct {
		MealType MealType `json:"meal_type"`
	}
	if err := json.Unmarshal([]byte(`{"meal_type":"dinner"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.MealType != Dinner {
		t.Fatalf("decoded %v, want dinner", decoded.MealType)
	}
	if err := json.Unmarshal([]byte(`{"meal_type":"supper"}`), &decoded); err == nil {
		t.Fatal("expected unknown meal type to fail")
	}
}

func TestMealTypeScan(t *testing.T) {
	t.Parallel()

	var m MealType
	if err := m.Scan([]byte("lunch")); err != nil || m != Lunch {
		t.Fatalf("Scan([]byte) = %v, %v", m, err)
	}
	if err := m.Scan("breakfast"); err != nil || m != Breakfast {
		t.Fatalf("Scan(string) = %v, %v", m, err)
	}
	if err := m.Scan(nil); err == nil {
		t.Fatal("expected error scanning NULL")
	}
	if _, err := MealType(9).Value(); err == nil {
		t.Fatal("expected error storing invalid meal type")
	}
}
