package models

// Pet is a single animal belonging to a client.
type Pet struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Client is one customer record from the roster. The roster is owned by the
// storage layer; analysis code treats it as a read-only snapshot.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Pets  []Pet  `json:"pets,omitempty"`
}

// PetNames returns just the pet names, in roster order.
func (c Client) PetNames() []string {
	names := make([]string, 0, len(c.Pets))
	for _, p := range c.Pets {
		names = append(names, p.Name)
	}
	return names
}

// SuggestionSource says where a suggestion came from.
type SuggestionSource string

const (
	SourceExistingMapping SuggestionSource = "existing-mapping"
	SourceAutoMatch       SuggestionSource = "auto-match"
)

// ClientSuggestion is one ranked candidate produced per matching request.
// Confidence is in [0,1]; Reasons are human-readable justifications in the
// order the signals fired.
type ClientSuggestion struct {
	ClientID   string           `json:"clientId"`
	ClientName string           `json:"clientName"`
	Confidence float64          `json:"confidence"`
	Reasons    []string         `json:"reasons"`
	Source     SuggestionSource `json:"source"`
}
