package types

// Signal names reported on a ScoreResult
const (
	SignalLexical    = "lexical"
	SignalSkill      = "skill"
	SignalExperience = "experience"
	SignalSemantic   = "semantic"
)

// ScoreResult is the explainable relevance score of one profile against one posting.
type ScoreResult struct {
	PostingKey           string   `json:"posting_key"`
	PostingID            string   `json:"posting_id,omitempty"`
	Title                string   `json:"title"`
	Company              string   `json:"company"`
	LexicalSimilarity    float64  `json:"lexical_similarity"`
	SkillSimilarity      float64  `json:"skill_similarity"`
	ExperienceSimilarity float64  `json:"experience_similarity"`
	SemanticSimilarity   *float64 `json:"semantic_similarity,omitempty"`
	OverallScore         float64  `json:"overall_score"`
	MatchingSkills       []string `json:"matching_skills"`
	MissingSkills        []string `json:"missing_skills"`
	Signals              []string `json:"signals"` // signals that contributed to OverallScore
	Notes                string   `json:"notes,omitempty"`
}

// GapReport explains a candidate's skills relative to a target posting.
type GapReport struct {
	Matching        []string `json:"matching"`
	Missing         []string `json:"missing"`
	Extra           []string `json:"extra"`
	MatchPercentage float64  `json:"match_percentage"`
	// Suggestions are skills related to the candidate's that neither side lists yet.
	Suggestions []string `json:"suggestions"`
}
