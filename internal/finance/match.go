package finance

import "strings"

// Operations are keyed by free-text name and projects by theirs; the two are
// maintained by different people, so the join tolerates casing, spacing and
// one side carrying a prefix or suffix. Exact normalized equality wins; a
// containment match is scored by length ratio and only accepted above the
// threshold, which resolves collisions toward the closest-length candidate.

const nameMatchThreshold = 0.6

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

func scoreNames(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	shorter, longer := na, nb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	return 0
}

// namesMatch reports whether an operation name and a project name refer to
// the same venture.
func namesMatch(operationName, projectName string) bool {
	return scoreNames(operationName, projectName) >= nameMatchThreshold
}
