package reconcile

import (
	"sort"

	apperrors "github.com/ripixel/fitglue-importer/pkg/errors"
)

// AliasMatch is the best alias for a name. Score is 0-100.
type AliasMatch struct {
	Value string
	Key   string
	Score int
}

type aliasEntry struct {
	key       string
	value     string
	processed string
}

// AliasResolver scores a name against every alias key and returns the best
// one. It is read-only after construction and safe for concurrent use.
type AliasResolver struct {
	entries []aliasEntry
}

// NewAliasResolver precomputes the processed form of every key. Keys are
// kept sorted so ties resolve to the lexicographically smallest key.
func NewAliasResolver(table AliasTable) *AliasResolver {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]aliasEntry, len(keys))
	for i, k := range keys {
		entries[i] = aliasEntry{key: k, value: table[k], processed: fuzzProcess(k)}
	}
	return &AliasResolver{entries: entries}
}

// Len returns the number of aliases.
func (r *AliasResolver) Len() int { return len(r.entries) }

// Resolve returns the highest scoring alias for normalized. There is no
// minimum score: the best key is returned however poor the match is.
func (r *AliasResolver) Resolve(normalized string) (AliasMatch, error) {
	if len(r.entries) == 0 {
		return AliasMatch{}, apperrors.ErrAliasResolution.WithMessage("alias table is empty")
	}

	query := fuzzProcess(normalized)
	best := -1
	bestScore := -1
	for i, e := range r.entries {
		s := weightedRatio(query, e.processed)
		if s > bestScore {
			best, bestScore = i, s
			if s == 100 {
				break
			}
		}
	}

	e := r.entries[best]
	return AliasMatch{Value: e.value, Key: e.key, Score: bestScore}, nil
}
