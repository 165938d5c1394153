package domain

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImageReference points at a wardrobe item the stylist mentioned in a
// reply. Display-only; references are never sent back with the history.
type ImageReference struct {
	ItemID   string `json:"item_id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// Message is one turn of the per-chat conversation history.
type Message struct {
	Role    Role
	Content string
	Images  []ImageReference
}
