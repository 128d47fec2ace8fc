// Package gap compares a candidate's skills with the skills a posting asks for.
package gap

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/jobmatch/internal/types"
)

// Canonicalizer folds a free-form skill name to the name scoring uses,
// such as (*extraction.Extractor).Canonical.
type Canonicalizer func(string) string

// RelatedSkills maps a skill to skills commonly learned alongside it.
var RelatedSkills = map[string][]string{
	"python":           {"django", "flask", "pandas", "numpy", "scikit-learn"},
	"javascript":       {"react", "node.js", "express", "vue", "angular"},
	"react":            {"redux", "next.js", "typescript", "webpack"},
	"java":             {"spring", "spring boot", "maven", "gradle"},
	"aws":              {"docker", "kubernetes", "terraform", "jenkins"},
	"machine learning": {"python", "tensorflow", "pytorch", "scikit-learn"},
	"data science":     {"python", "r", "sql", "tableau", "jupyter"},
	"go":               {"docker", "kubernetes", "grpc", "postgresql"},
	"docker":           {"kubernetes", "terraform"},
}

// Analyze returns the matching, missing and extra skills of candidate relative to posting.
// Names are compared case-insensitively after trimming. MatchPercentage is the share of the
// posting's skills the candidate has, in [0,100] rounded to two decimals, and 0 when the
// posting lists no skills.
func Analyze(candidate, posting []string) types.GapReport {
	have := normalize(candidate, nil)
	want := normalize(posting, nil)

	var matching, missing []string
	for name := range want {
		if _, ok := have[name]; ok {
			matching = append(matching, name)
		} else {
			missing = append(missing, name)
		}
	}
	return build(have, matching, missing)
}

// AnalyzeSkillSets compares two extracted skill sets.
func AnalyzeSkillSets(candidate, posting types.SkillSet) types.GapReport {
	return Analyze(candidate.Names(), posting.Names())
}

// AnalyzeResult explains a score: matching and missing skills are taken from result as
// scored, and the profile's skills are folded with canonical before extras are computed.
// A nil canonical only lowercases and trims.
func AnalyzeResult(profile *types.Profile, result types.ScoreResult, canonical Canonicalizer) types.GapReport {
	have := normalize(profile.Skills.Names(), canonical)
	matching := keys(normalize(result.MatchingSkills, nil))
	missing := keys(normalize(result.MissingSkills, nil))
	return build(have, matching, missing)
}

// Suggest returns the related skills of have that have does not contain, sorted.
func Suggest(have []string) []string {
	return suggest(normalize(have, nil), nil)
}

func build(have map[string]struct{}, matching, missing []string) types.GapReport {
	report := types.GapReport{
		Matching: append([]string{}, matching...),
		Missing:  append([]string{}, missing...),
		Extra:    []string{},
	}
	wanted := make(map[string]struct{}, len(matching)+len(missing))
	for _, name := range report.Matching {
		wanted[name] = struct{}{}
	}
	for _, name := range report.Missing {
		wanted[name] = struct{}{}
	}
	for name := range have {
		if _, ok := wanted[name]; !ok {
			report.Extra = append(report.Extra, name)
		}
	}
	sort.Strings(report.Matching)
	sort.Strings(report.Missing)
	sort.Strings(report.Extra)

	if len(wanted) > 0 {
		pct := float64(len(report.Matching)) / float64(len(wanted)) * 100
		report.MatchPercentage = math.Round(pct*100) / 100
	}
	report.Suggestions = suggest(have, wanted)
	return report
}

// suggest collects related skills of have, leaving out have and exclude.
func suggest(have, exclude map[string]struct{}) []string {
	found := make(map[string]struct{})
	for name := range have {
		for _, related := range RelatedSkills[name] {
			if _, ok := have[related]; ok {
				continue
			}
			if _, ok := exclude[related]; ok {
				continue
			}
			found[related] = struct{}{}
		}
	}
	return keys(found)
}

func normalize(names []string, canonical Canonicalizer) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if canonical != nil {
			n = canonical(n)
		}
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
