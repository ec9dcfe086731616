package reconcile

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// similarity is the indel ratio 2*LCS/(la+lb) scaled to 0-100.
func similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	lcs := edlib.LCS(a, b)
	return 100 * float64(2*lcs) / float64(la+lb)
}

// partialSimilarity slides the shorter string across the longer one and
// keeps the best window.
func partialSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	short := string(ra)
	best := 0.0
	for i := 0; i+len(ra) <= len(rb); i++ {
		s := similarity(short, string(rb[i:i+len(ra)]))
		if s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSort(a, b string, score func(string, string) float64) float64 {
	return score(sortedTokens(a), sortedTokens(b))
}

func tokenSet(a, b string, score func(string, string) float64) float64 {
	setA := tokenSetOf(a)
	setB := tokenSetOf(b)

	var inter, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(inter, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	return max(score(t0, t1), score(t0, t2), score(t1, t2))
}

func tokenSetOf(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

// weightedRatio combines the full, partial, token-sort and token-set scores
// of two processed strings into one 0-100 score. Partial scores only count
// when the lengths differ enough, and are discounted.
func weightedRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	base := similarity(a, b)

	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	const tokenScale = 0.95
	if lenRatio < 1.5 {
		best := max(base,
			tokenSort(a, b, similarity)*tokenScale,
			tokenSet(a, b, similarity)*tokenScale)
		return int(math.Round(best))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	best := max(base,
		partialSimilarity(a, b)*partialScale,
		tokenSort(a, b, partialSimilarity)*tokenScale*partialScale,
		tokenSet(a, b, partialSimilarity)*tokenScale*partialScale)
	return int(math.Round(best))
}

// fuzzProcess prepares text for fuzzy scoring: lowercase, every
// non-alphanumeric rune becomes a space, abbreviations are expanded and
// whitespace is collapsed.
func fuzzProcess(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	words := strings.Fields(s)
	for i, w := range words {
		if exp, ok := abbreviations[w]; ok {
			words[i] = exp
		}
	}
	return strings.Join(words, " ")
}
