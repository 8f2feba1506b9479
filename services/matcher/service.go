package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"petgenie/models"
)

// MappingStore is the persisted label-to-client table. Keys handed to the
// store are already normalized; the store owns atomicity and durability.
type MappingStore interface {
	Get(label string) (string, bool, error)
	Set(label, clientID string) error
	Remove(label string) error
	RemoveForClient(clientID string) error
}

// Weights holds the hand-tuned scoring constants. They live here rather
// than inline so they can be tuned, or swapped for a learned scorer,
// without touching control flow.
type Weights struct {
	NameInTitle      float64 // client name appears in the title
	NameHasFirstWord float64 // client name contains the title's first word
	SimilarityScale  float64 // multiplier on name similarity
	SimilarityFloor  float64 // minimum similarity before it scores at all
	PetNameInTitle   float64 // one of the client's pets appears in the title
	PrefixSimilarity float64 // pre-dash segment closely matches the name
	PrefixFloor      float64 // similarity the pre-dash segment must beat
}

// DefaultWeights returns the stock scoring constants.
func DefaultWeights() Weights {
	return Weights{
		NameInTitle:      0.8,
		NameHasFirstWord: 0.4,
		SimilarityScale:  0.5,
		SimilarityFloor:  0.6,
		PetNameInTitle:   0.6,
		PrefixSimilarity: 0.3,
		PrefixFloor:      0.8,
	}
}

// DefaultThreshold is the minimum confidence a suggestion needs to survive
// auto-matching.
const DefaultThreshold = 0.3

// Service ranks client candidates for loosely-named calendar entries.
// Mapping state lives behind MappingStore; the service itself holds no
// mutable state and is safe for concurrent use.
type Service struct {
	store   MappingStore
	weights Weights
}

// New creates a matcher backed by the given mapping store.
func New(store MappingStore) *Service {
	return &Service{store: store, weights: DefaultWeights()}
}

// NewWithWeights creates a matcher with custom scoring constants.
func NewWithWeights(store MappingStore, w Weights) *Service {
	return &Service{store: store, weights: w}
}

// Normalize folds a label for comparison: unicode to ASCII, lowercased,
// whitespace collapsed.
func Normalize(label string) string {
	folded := unidecode.Unidecode(strings.TrimSpace(label))
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// GetClientID looks a label up in the persisted mapping. Exact match only,
// after normalization.
func (s *Service) GetClientID(label string) (string, bool, error) {
	key := Normalize(label)
	if key == "" {
		return "", false, nil
	}
	return s.store.Get(key)
}

// SetMapping records that a label refers to a client.
func (s *Service) SetMapping(label, clientID string) error {
	key := Normalize(label)
	if key == "" {
		return fmt.Errorf("cannot map an empty label")
	}
	return s.store.Set(key, clientID)
}

// RemoveMapping forgets a single label.
func (s *Service) RemoveMapping(label string) error {
	return s.store.Remove(Normalize(label))
}

// RemoveMappingsForClient forgets every label pointing at the client, e.g.
// when the client record is deleted.
func (s *Service) RemoveMappingsForClient(clientID string) error {
	return s.store.RemoveForClient(clientID)
}

// AutoMatch scores every client in the roster against the title and returns
// the candidates at or above threshold, best first. Scoring is additive and
// capped at 1.0; each signal contributes a reason string.
func (s *Service) AutoMatch(title string, clients []models.Client, threshold float64) []models.ClientSuggestion {
	normTitle := Normalize(title)
	if normTitle == "" {
		return nil
	}

	firstWord := normTitle
	if idx := strings.IndexByte(normTitle, ' '); idx > 0 {
		firstWord = normTitle[:idx]
	}
	prefix := titlePrefix(title)

	var suggestions []models.ClientSuggestion
	for _, client := range clients {
		score, reasons := s.scoreClient(client, normTitle, firstWord, prefix)
		if score < threshold || len(reasons) == 0 {
			continue
		}
		suggestions = append(suggestions, models.ClientSuggestion{
			ClientID:   client.ID,
			ClientName: client.Name,
			Confidence: score,
			Reasons:    reasons,
			Source:     models.SourceAutoMatch,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// Suggest combines the persisted mapping (always confidence 1.0) with
// auto-match results for clients not already suggested.
func (s *Service) Suggest(title, label string, clients []models.Client) ([]models.ClientSuggestion, error) {
	var suggestions []models.ClientSuggestion
	seen := make(map[string]bool)

	if label != "" {
		clientID, ok, err := s.GetClientID(label)
		if err != nil {
			return nil, fmt.Errorf("mapping lookup: %w", err)
		}
		if ok {
			name := clientID
			for _, c := range clients {
				if c.ID == clientID {
					name = c.Name
					break
				}
			}
			suggestions = append(suggestions, models.ClientSuggestion{
				ClientID:   clientID,
				ClientName: name,
				Confidence: 1.0,
				Reasons:    []string{fmt.Sprintf("previously mapped from %q", label)},
				Source:     models.SourceExistingMapping,
			})
			seen[clientID] = true
		}
	}

	for _, auto := range s.AutoMatch(title, clients, DefaultThreshold) {
		if seen[auto.ClientID] {
			continue
		}
		suggestions = append(suggestions, auto)
		seen[auto.ClientID] = true
	}
	return suggestions, nil
}

func (s *Service) scoreClient(client models.Client, normTitle, firstWord, prefix string) (float64, []string) {
	w := s.weights
	normName := Normalize(client.Name)
	if normName == "" {
		return 0, nil
	}

	score := 0.0
	var reasons []string

	// Name signals are mutually exclusive, strongest first: an explicit
	// name mention is rarely coincidental.
	switch {
	case strings.Contains(normTitle, normName):
		score += w.NameInTitle
		reasons = append(reasons, fmt.Sprintf("title mentions %q", client.Name))
	case firstWord != "" && strings.Contains(normName, firstWord):
		score += w.NameHasFirstWord
		reasons = append(reasons, fmt.Sprintf("client name contains %q", firstWord))
	default:
		if sim := Similarity(normTitle, normName); sim > w.SimilarityFloor {
			score += sim * w.SimilarityScale
			reasons = append(reasons, fmt.Sprintf("title is %.0f%% similar to %q", sim*100, client.Name))
		}
	}

	// Pet names score independently, first match only.
	for _, pet := range client.Pets {
		normPet := Normalize(pet.Name)
		if normPet != "" && strings.Contains(normTitle, normPet) {
			score += w.PetNameInTitle
			reasons = append(reasons, fmt.Sprintf("title mentions pet %q", pet.Name))
			break
		}
	}

	// A near-exact pre-dash segment is its own signal.
	if prefix != "" {
		if sim := Similarity(Normalize(prefix), normName); sim > w.PrefixFloor {
			score += w.PrefixSimilarity
			reasons = append(reasons, fmt.Sprintf("entry is prefixed %q", prefix))
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, reasons
}

// titlePrefix returns the segment before the first " - ", or "" when the
// title has no separator.
func titlePrefix(title string) string {
	if idx := strings.Index(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return ""
}
