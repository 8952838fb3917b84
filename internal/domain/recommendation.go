package domain

// MissingItem is a collectible together with the characters that still need it
type MissingItem struct {
	Collectible  Collectible `json:"collectible"`
	CharacterIDs []string    `json:"character_ids"`
}

// Recommendation is one ranked entry of an individual recommendation
type Recommendation struct {
	Collectible Collectible `json:"collectible"`
	// Sources only contains farmable-kind sources
	Sources []AcquisitionSource `json:"sources"`
	Score   float64             `json:"score"`
	Rank    int                 `json:"rank"`
}

// GroupRecommendation is one ranked entry of a group recommendation
type GroupRecommendation struct {
	Collectible    Collectible         `json:"collectible"`
	Sources        []AcquisitionSource `json:"sources"`
	Rank           int                 `json:"rank"`
	MissingCount   int                 `json:"missing_count"`
	ProcessedCount int                 `json:"processed_count"`
	CharacterIDs   []string            `json:"character_ids"`
}

// RecommendationResult is the outcome of a single-character request.
// Every degradation the pipeline applied is reported here.
type RecommendationResult struct {
	CharacterID     string           `json:"character_id"`
	Kind            CollectibleKind  `json:"kind"`
	TotalMissing    int              `json:"total_missing"`
	FarmableMissing int              `json:"farmable_missing"`
	Recommendations []Recommendation `json:"recommendations"`

	// ReachabilityApplied is true when the level filter narrowed the candidates
	ReachabilityApplied bool `json:"reachability_applied"`
	// ReachabilitySkipped is true when progress was requested but the summary lookup failed
	ReachabilitySkipped bool `json:"reachability_skipped"`
	// ReachabilityBypassed is true when the filter would have removed every candidate
	ReachabilityBypassed bool   `json:"reachability_bypassed"`
	SummaryError         string `json:"summary_error,omitempty"`
	CharacterLevel       int    `json:"character_level,omitempty"`
}

// SkippedCharacter records a roster member that could not be processed
type SkippedCharacter struct {
	CharacterID string `json:"character_id"`
	Reason      string `json:"reason"`
}

// GroupRecommendationResult is the outcome of a roster request
type GroupRecommendationResult struct {
	TotalCharacters       int                   `json:"total_characters"`
	ProcessedCharacters   []string              `json:"processed_characters"`
	UnprocessedCharacters []SkippedCharacter    `json:"unprocessed_characters,omitempty"`
	Mounts                []GroupRecommendation `json:"mount_recommendations"`
	Minions               []GroupRecommendation `json:"minion_recommendations"`
}

// ForKind returns the recommendations for a kind
func (g *GroupRecommendationResult) ForKind(kind CollectibleKind) []GroupRecommendation {
	if kind == KindMinion {
		return g.Minions
	}
	return g.Mounts
}
