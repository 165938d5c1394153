package config

import "time"

const (
	// Backend request timeout (scan and chat calls can be slow)
	RequestTimeout = 90 * time.Second

	// Catalog cache duration
	CatalogCacheDuration = 5 * time.Minute

	// Wardrobe items per page
	ItemsPerPage = 5

	// Largest photo the bot will download for scanning
	MaxPhotoBytes = 10 << 20
)

// Colors accepted by the backend classifier.
var Colors = []string{"Black", "White", "Gray", "Blue", "Brown", "Green", "Red", "Pink", "Yellow", "Purple", "Orange"}

// WarmthLevels accepted by the backend classifier.
var WarmthLevels = []string{"Cold", "Cool", "Neutral", "Warm", "Hot"}

// SuggestedPrompts shown on /start for an empty chat.
var SuggestedPrompts = []string{
	"What should I wear to a casual dinner?",
	"Help me create a professional work outfit",
	"What colors go well together in my wardrobe?",
	"Suggest an outfit for a weekend brunch",
}
