package extraction

// Synonyms maps a canonical skill name to the spelling variants folded into it.
// A variant only folds when its canonical name is known to the vocabulary snapshot.
var Synonyms = map[string][]string{
	"javascript": {"js", "ecmascript"},
	"typescript": {"ts"},
	"python":     {"python3", "py"},
	"c++":        {"cpp", "cplusplus"},
	"c#":         {"csharp", "c sharp"},
	"node.js":    {"nodejs", "node js"},
	"react":      {"reactjs", "react.js", "react js"},
	"vue":        {"vuejs", "vue.js", "vue js"},
	"angular":    {"angularjs", "angular.js", "angular js"},
	"express":    {"expressjs", "express.js"},
	"postgresql": {"postgres", "psql"},
	"mongodb":    {"mongo"},
	"kubernetes": {"k8s"},
	"go":         {"golang"},
	"gcp":        {"google cloud platform"},
	"aws":        {"amazon web services"},
	"azure":      {"microsoft azure"},
	"ci/cd":      {"cicd", "continuous integration"},
}

// variantIndex inverts Synonyms.
var variantIndex = func() map[string]string {
	idx := make(map[string]string)
	for canonical, variants := range Synonyms {
		for _, v := range variants {
			idx[v] = canonical
		}
	}
	return idx
}()
