// Package preferences keeps each user's declared interests and onboarding
// answers. The in-memory record is authoritative for the session; every
// mutation is written through to a key/value Repository, and a remote
// profile can upgrade the questionnaire flag but never downgrade it.
package preferences

import "slices"

// DefaultNamespace prefixes every storage key.
const DefaultNamespace = "userPreferences"

// UserPreferences is the persisted preference record. The JSON layout is the
// storage format and must stay stable.
type UserPreferences struct {
	Interests              []string `json:"interests"`
	Frequency              string   `json:"frequency"`
	PricingPreference      string   `json:"pricingPreference"`
	CompletedQuestionnaire bool     `json:"completedQuestionnaire"`
}

// Default returns the record used when nothing is stored for a user.
func Default() UserPreferences {
	return UserPreferences{Interests: []string{}}
}

// Key returns the storage key for userID under namespace.
func Key(namespace, userID string) string {
	return namespace + "_" + userID
}

func (p UserPreferences) clone() UserPreferences {
	p.Interests = slices.Clone(p.Interests)
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return p
}
