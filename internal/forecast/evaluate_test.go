package forecast

import (
	"reflect"
	"testing"
	"time"

	"meteoalerte/internal/model"
)

func TestEvaluateRainLeadTime(t *testing.T) {
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	rainCodes := model.DefaultRainCodes()

	window := Window{
		{Time: now.Add(1 * time.Hour), Temperature: 8, WeatherCode: 0},
		{Time: now.Add(2 * time.Hour), Temperature: 9, WeatherCode: 61},
		{Time: now.Add(3 * time.Hour), Temperature: 9, WeatherCode: 65},
	}

	intents := Evaluate(window, now, "Brest, Bretagne, France", 10, rainCodes)
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	want := model.AlertIntent{
		Kind:          model.AlertRain,
		Location:      "Brest, Bretagne, France",
		LeadTimeHours: 2,
	}
	if !reflect.DeepEqual(intents[0], want) {
		t.Errorf("expected %+v, got %+v", want, intents[0])
	}
}

func TestEvaluateLeadTimeNeverBelowOne(t *testing.T) {
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	window := Window{
		{Time: now.Add(10 * time.Minute), Temperature: 5, WeatherCode: 61},
	}

	intents := Evaluate(window, now, "Lille", 10, model.DefaultRainCodes())
	if len(intents) != 1 || intents[0].LeadTimeHours != 1 {
		t.Fatalf("expected lead time clamped to 1, got %+v", intents)
	}
}

func TestEvaluateHeat(t *testing.T) {
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	window := Window{
		{Time: now.Add(1 * time.Hour), Temperature: 9.4, WeatherCode: 0},
		{Time: now.Add(2 * time.Hour), Temperature: 15, WeatherCode: 1},
		{Time: now.Add(3 * time.Hour), Temperature: 17, WeatherCode: 1},
	}

	intents := Evaluate(window, now, "Nice", 10, model.DefaultRainCodes())
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	if intents[0].Kind != model.AlertHeat || intents[0].PeakTemperature != 15 {
		t.Errorf("expected heat intent at 15, got %+v", intents[0])
	}
}

func TestEvaluateBothRulesFire(t *testing.T) {
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	window := Window{
		{Time: now.Add(1 * time.Hour), Temperature: 22, WeatherCode: 80},
	}

	intents := Evaluate(window, now, "Toulouse", 10, model.DefaultRainCodes())
	if len(intents) != 2 {
		t.Fatalf("expected rain and heat intents, got %d", len(intents))
	}
	if intents[0].Kind != model.AlertRain || intents[1].Kind != model.AlertHeat {
		t.Errorf("unexpected intents %+v", intents)
	}
}

func TestEvaluateEmptyWindow(t *testing.T) {
	intents := Evaluate(nil, time.Now(), "Paris", 10, model.DefaultRainCodes())
	if len(intents) != 0 {
		t.Fatalf("expected no intents for empty window, got %d", len(intents))
	}
}

func TestEvaluateAtMostOneIntentPerRule(t *testing.T) {
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	window := Window{
		{Time: now.Add(1 * time.Hour), Temperature: 20, WeatherCode: 61},
		{Time: now.Add(2 * time.Hour), Temperature: 25, WeatherCode: 63},
		{Time: now.Add(3 * time.Hour), Temperature: 30, WeatherCode: 65},
	}

	intents := Evaluate(window, now, "Lyon", 10, model.DefaultRainCodes())
	if len(intents) != 2 {
		t.Fatalf("expected exactly 2 intents, got %d", len(intents))
	}
	// first qualifying slice wins both rules
	if intents[0].LeadTimeHours != 1 {
		t.Errorf("expected lead time of the earliest rainy slice, got %d", intents[0].LeadTimeHours)
	}
	if intents[1].PeakTemperature != 20 {
		t.Errorf("expected peak of the earliest hot slice, got %.0f", intents[1].PeakTemperature)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	window := Window{
		{Time: now.Add(1 * time.Hour), Temperature: 12, WeatherCode: 61},
	}

	first := Evaluate(window, now, "Nantes", 10, model.DefaultRainCodes())
	second := Evaluate(window, now, "Nantes", 10, model.DefaultRainCodes())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same window yielded different intents: %+v vs %+v", first, second)
	}
}
