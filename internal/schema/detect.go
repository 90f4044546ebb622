package schema

import (
	"path/filepath"
	"strings"
)

// filenameHints maps filename fragments to dataset types, checked in order.
var filenameHints = []struct {
	fragments []string
	t         DatasetType
}{
	{[]string{"sentiment", "review"}, TypeSentiment},
	{[]string{"leetcode", "problem"}, TypeLeetcode},
	{[]string{"qa", "question"}, TypeQA},
	{[]string{"class", "category"}, TypeClassification},
}

// DetectType picks the dataset type for an input file. An explicit override
// wins; otherwise the base filename is matched against known fragments.
// Returns TypeUndefined when nothing matches.
func DetectType(path, override string) (DatasetType, error) {
	if strings.TrimSpace(override) != "" {
		return ParseDatasetType(override)
	}

	name := filepath.Base(path)
	for _, hint := range filenameHints {
		for _, frag := range hint.fragments {
			if strings.Contains(name, frag) {
				return hint.t, nil
			}
		}
	}
	return TypeUndefined, nil
}
