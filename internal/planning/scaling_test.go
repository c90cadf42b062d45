package planning

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func TestRequiredQuantity(t *testing.T) {
	t.Parallel()

	explicit := RecipeIngredient{
		IngredientID:    1,
		BaseQuantity:    200,
		Unit:            "g",
		ChildMultiplier: Float(0.5),
		TeenMultiplier:  Float(0.8),
		AdultMultiplier: Float(1.2),
	}

	tests := []struct {
		name     string
		ri       RecipeIngredient
		servings int
		a        Attendance
		want     float64
	}{
		{"adults only", explicit, 4, Attendance{Adults: 4}, 200 * 4 * 1.2 / 4},
		{"mixed bands", explicit, 10, Attendance{Children: 10, Teens: 5, Adults: 2}, 200 * (10*0.5 + 5*0.8 + 2*1.2) / 10},
		{"zero attendance", explicit, 3, Attendance{}, 0},
		{"zero multiplier", RecipeIngredient{IngredientID: 2, BaseQuantity: 50, ChildMultiplier: Float(0), TeenMultiplier: Float(0), AdultMultiplier: Float(1)}, 1, Attendance{Children: 30}, 0},
		{"defaults", RecipeIngredient{IngredientID: 3, BaseQuantity: 100}, 2, Attendance{Children: 2, Teens: 4, Adults: 1}, 100 * (2*0.5 + 4*0.75 + 1*1.0) / 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RequiredQuantityFor(tt.ri, tt.servings, tt.a)
			if !almostEqual(got, tt.want) {
				t.Fatalf("RequiredQuantity = %v, want %v", got, tt.want)
			}
		})
	}
}

func scaled(a Attendance, factor int) Attendance {
	return Attendance{Children: a.Children * factor, Teens: a.Teens * factor, Adults: a.Adults * factor}
}

func TestRequiredQuantityIsLinearInEachBand(t *testing.T) {
	t.Parallel()

	ri := RecipeIngredient{IngredientID: 1, BaseQuantity: 120, ChildMultiplier: Float(0.4), TeenMultiplier: Float(0.9)}
	base := Attendance{Children: 3, Teens: 7, Adults: 11}
	single := RequiredQuantityFor(ri, 6, base)
	doubled := RequiredQuantityFor(ri, 6, scaled(base, 2))
	if !almostEqual(doubled, 2*single) {
		t.Fatalf("doubling attendance gave %v, want %v", doubled, 2*single)
	}

	bands := []Attendance{{Children: 1}, {Teens: 1}, {Adults: 1}}
	for _, unit := range bands {
		one := RequiredQuantityFor(ri, 6, unit)
		five := RequiredQuantityFor(ri, 6, scaled(unit, 5))
		if !almostEqual(five, 5*one) {
			t.Fatalf("band %+v: five people gave %v, want %v", unit, five, 5*one)
		}
	}

	sum := RequiredQuantityFor(ri, 6, Attendance{Children: 3}) +
		RequiredQuantityFor(ri, 6, Attendance{Teens: 7}) +
		RequiredQuantityFor(ri, 6, Attendance{Adults: 11})
	if !almostEqual(sum, single) {
		t.Fatalf("sum of bands = %v, want %v", sum, single)
	}
}

func TestRequiredQuantityZeroAttendance(t *testing.T) {
	t.Parallel()

	for _, ri := range []RecipeIngredient{
		{IngredientID: 1, BaseQuantity: 1},
		{IngredientID: 2, BaseQuantity: 999, ChildMultiplier: Float(3), TeenMultiplier: Float(2), AdultMultiplier: Float(1)},
	} {
		if got := RequiredQuantity(ri, 7, 0, 0, 0); got != 0 {
			t.Fatalf("RequiredQuantity(%+v, 7, 0, 0, 0) = %v, want 0", ri, got)
		}
	}
}

func TestRequiredQuantityDefaultMultipliers(t *testing.T) {
	t.Parallel()

	unset := RecipeIngredient{IngredientID: 9, BaseQuantity: 42, Unit: "ml"}
	set := unset
	set.ChildMultiplier = Float(0.5)
	set.TeenMultiplier = Float(0.75)
	set.AdultMultiplier = Float(1.0)

	for _, a := range []Attendance{{}, {Children: 1}, {Teens: 3}, {Adults: 2}, {Children: 12, Teens: 5, Adults: 4}} {
		if got, want := RequiredQuantityFor(unset, 4, a), RequiredQuantityFor(set, 4, a); got != want {
			t.Fatalf("attendance %+v: unset multipliers gave %v, explicit defaults gave %v", a, got, want)
		}
	}
}

func TestRequiredQuantityPanicsOnInvalidServings(t *testing.T) {
	t.Parallel()

	for _, servings := range []int{0, -3} {
		servings := servings
		t.Run("servings", func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for base servings %d", servings)
				}
			}()
			RequiredQuantity(RecipeIngredient{IngredientID: 1, BaseQuantity: 1}, servings, 1, 1, 1)
		})
	}
}

func TestRequiredQuantityPanicsOnNegativeInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ri   RecipeIngredient
		a    Attendance
	}{
		{"negative children", RecipeIngredient{IngredientID: 1, BaseQuantity: 1}, Attendance{Children: -1}},
		{"negative multiplier", RecipeIngredient{IngredientID: 1, BaseQuantity: 1, TeenMultiplier: Float(-0.1)}, Attendance{Teens: 1}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			RequiredQuantityFor(tc.ri, 1, tc.a)
		})
	}
}
