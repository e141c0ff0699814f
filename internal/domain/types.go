package domain

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Store names the shop an item should be bought from.
type Store string

// StoreAny means any general supermarket will do.
const StoreAny Store = "Any"

type Freshness string

const (
	FreshnessFresh    Freshness = "fresh"
	FreshnessUseSoon  Freshness = "use-soon"
	FreshnessPriority Freshness = "priority"
)

// ParseFreshness maps model or user input onto a known freshness level.
// Unknown values are treated as fresh.
func ParseFreshness(s string) Freshness {
	switch Freshness(strings.ToLower(strings.TrimSpace(s))) {
	case FreshnessUseSoon:
		return FreshnessUseSoon
	case FreshnessPriority:
		return FreshnessPriority
	default:
		return FreshnessFresh
	}
}

type ShoppingItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Checked  bool   `json:"checked"`
	AddedAt  int64  `json:"addedAt"`
	Store    Store  `json:"store,omitempty"`
}

type InventoryItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Freshness Freshness `json:"freshness"`
	Location  string    `json:"location"`
	AddedAt   int64     `json:"addedAt"`
}

// DefaultLocation is used for inventory items added without a location.
const DefaultLocation = "fridge"

// NormalizeLocation case-folds a free-form storage location.
func NormalizeLocation(loc string) string {
	loc = Fold(loc)
	if loc == "" {
		return DefaultLocation
	}
	return loc
}

// Pantry staple scores are stock levels in [MinScore, MaxScore].
const (
	MinScore         = 0
	MaxScore         = 100
	DefaultScore     = 100
	DefaultIncrement = 20
	DefaultDecrement = 10
)

type PantryStaple struct {
	ID        string `json:"id"`
	DeviceID  string `json:"deviceId"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	CreatedAt int64  `json:"createdAt"`
}

// ValidateScore rejects stock levels outside [MinScore, MaxScore].
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return ErrInvalidScore
	}
	return nil
}

type StorePreference struct {
	DeviceID       string `json:"deviceId"`
	ItemName       string `json:"itemName"`
	PreferredStore Store  `json:"preferredStore"`
	UpdatedAt      int64  `json:"updatedAt"`
}

type CravingType string

const (
	CravingMic  CravingType = "mic"
	CravingEdit CravingType = "edit"
	CravingLink CravingType = "link"
)

type Craving struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Image   string         `json:"image"`
	TimeAgo string         `json:"timeAgo"`
	Type    CravingType    `json:"type"`
	Recipe  *RecipeDetails `json:"recipe"`
	AddedAt int64          `json:"addedAt,omitempty"`
}

type Ingredient struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type RecipeDetails struct {
	DishName    string       `json:"dishName"`
	Cuisine     string       `json:"cuisine"`
	CookingTime string       `json:"cookingTime"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

// FreshItem is one ingredient detected by a fridge scan.
type FreshItem struct {
	Name            string    `json:"name"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	Freshness       Freshness `json:"freshness"`
	Confidence      float64   `json:"confidence"`
	VisualNotes     string    `json:"visualNotes,omitempty"`
	StorageLocation string    `json:"storageLocation,omitempty"`
}

type FridgeSnapshot struct {
	Items       []FreshItem `json:"items"`
	ScanQuality string      `json:"scanQuality"`
}

var (
	ErrInvalidScore = errors.New("score must be between 0 and 100")
	ErrEmptyName    = errors.New("name must not be empty")
	ErrNotFound     = errors.New("not found")

	// ErrOwnerConflict is returned when a write names an id that another
	// owner already holds.
	ErrOwnerConflict = errors.New("id belongs to another owner")
)

// Fold returns s NFKC-normalised, case-folded and trimmed. It is the
// canonical form for item names used as lookup keys.
func Fold(s string) string {
	return strings.TrimSpace(cases.Fold().String(norm.NFKC.String(s)))
}

// Image is a photo sent for analysis. Data is base64 on the wire.
type Image struct {
	Data     []byte `json:"base64"`
	MimeType string `json:"mimeType"`
}
