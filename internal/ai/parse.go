package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

const (
	defaultUnit        = "pcs"
	defaultConfidence  = 0.7
	defaultScanQuality = "medium"
)

// ErrNoAnswer is returned when the model reply has no usable content.
var ErrNoAnswer = errors.New("model returned no usable answer")

// extractJSON strips markdown fences and returns the outermost {...} span.
func extractJSON(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func decodeReply(raw string, v any) error {
	if err := json.Unmarshal([]byte(extractJSON(raw)), v); err != nil {
		return fmt.Errorf("failed to decode model reply: %w", err)
	}
	return nil
}

// number accepts 2, 2.5 and "2" alike.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

func parseFoodName(raw string) (string, error) {
	var reply struct {
		FoodName string `json:"foodName"`
	}
	if err := decodeReply(raw, &reply); err != nil {
		return "", err
	}
	name := strings.TrimSpace(reply.FoodName)
	if name == "" {
		return "", ErrNoAnswer
	}
	return name, nil
}

func parseRecipe(raw string) (*domain.RecipeDetails, error) {
	var reply struct {
		DishName    string `json:"dishName"`
		Cuisine     string `json:"cuisine"`
		CookingTime string `json:"cookingTime"`
		Ingredients []struct {
			Name string `json:"name"`
			Icon string `json:"icon"`
		} `json:"ingredients"`
		Steps []string `json:"steps"`
	}
	if err := decodeReply(raw, &reply); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply.DishName) == "" || reply.Ingredients == nil || reply.Steps == nil {
		return nil, ErrNoAnswer
	}

	recipe := &domain.RecipeDetails{
		DishName:    strings.TrimSpace(reply.DishName),
		Cuisine:     strings.TrimSpace(reply.Cuisine),
		CookingTime: strings.TrimSpace(reply.CookingTime),
		Ingredients: make([]domain.Ingredient, 0, len(reply.Ingredients)),
		Steps:       make([]string, 0, len(reply.Steps)),
	}
	for _, ing := range reply.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, domain.Ingredient{
			Name: strings.TrimSpace(ing.Name),
			Icon: strings.TrimSpace(ing.Icon),
		})
	}
	for _, step := range reply.Steps {
		recipe.Steps = append(recipe.Steps, strings.TrimSpace(step))
	}
	return recipe, nil
}

// parseFridge keeps only items with a name and a positive quantity.
func parseFridge(raw string) (*domain.FridgeSnapshot, error) {
	var reply struct {
		Items []struct {
			Name            string `json:"name"`
			Quantity        number `json:"quantity"`
			Unit            string `json:"unit"`
			Freshness       string `json:"freshness"`
			Confidence      number `json:"confidence"`
			VisualNotes     string `json:"visualNotes"`
			StorageLocation string `json:"storageLocation"`
		} `json:"items"`
		ScanQuality string `json:"scanQuality"`
	}
	if err := decodeReply(raw, &reply); err != nil {
		return nil, err
	}
	if reply.Items == nil {
		return nil, ErrNoAnswer
	}

	snap := &domain.FridgeSnapshot{
		Items:       make([]domain.FreshItem, 0, len(reply.Items)),
		ScanQuality: strings.TrimSpace(reply.ScanQuality),
	}
	if snap.ScanQuality == "" {
		snap.ScanQuality = defaultScanQuality
	}

	for _, it := range reply.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" || it.Quantity <= 0 {
			continue
		}
		unit := strings.TrimSpace(it.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		confidence := float64(it.Confidence)
		if confidence <= 0 {
			confidence = defaultConfidence
		}
		snap.Items = append(snap.Items, domain.FreshItem{
			Name:            name,
			Quantity:        float64(it.Quantity),
			Unit:            unit,
			Freshness:       domain.ParseFreshness(it.Freshness),
			Confidence:      confidence,
			VisualNotes:     strings.TrimSpace(it.VisualNotes),
			StorageLocation: strings.TrimSpace(it.StorageLocation),
		})
	}
	return snap, nil
}
