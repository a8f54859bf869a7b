// Package align implements Smith-Waterman local sequence alignment.
//
// The DP matrix is O(n*m) in time and memory, so callers aligning long
// sequences should impose size limits before invoking Local.
package align

// Scoring holds the match/mismatch/gap scores for local alignment.
type Scoring struct {
	Match    int
	Mismatch int
	Gap      int
}

// DefaultScoring is the scheme used for plasmid gene location.
var DefaultScoring = Scoring{Match: 2, Mismatch: -1, Gap: -1}

// Result describes the best-scoring local alignment between a query and a
// target. Coordinates are 0-based, end-exclusive.
type Result struct {
	Score       int
	QueryStart  int
	QueryEnd    int
	TargetStart int
	TargetEnd   int
	Matches     int // exactly matching columns
	Columns     int // total alignment columns including gaps
}

// Identity returns the fraction of alignment columns that match exactly.
func (r Result) Identity() float64 {
	if r.Columns == 0 {
		return 0
	}
	return float64(r.Matches) / float64(r.Columns)
}

// QueryCoverage returns the fraction of the query included in the alignment.
func (r Result) QueryCoverage(queryLen int) float64 {
	if queryLen == 0 {
		return 0
	}
	return float64(r.QueryEnd-r.QueryStart) / float64(queryLen)
}

// Local computes the best Smith-Waterman local alignment of query against
// target. An 'X' in the target is treated as matching any query character,
// since ambiguous translations should not be penalized.
func Local(query, target string, sc Scoring) Result {
	n, m := len(query), len(target)
	if n == 0 || m == 0 {
		return Result{}
	}

	// H[i][j] = best score of a local alignment ending at query[i-1], target[j-1].
	h := make([][]int, n+1)
	for i := range h {
		h[i] = make([]int, m+1)
	}

	best := Result{}
	bestI, bestJ := 0, 0

	for i := 1; i <= n; i++ {
		qc := query[i-1]
		for j := 1; j <= m; j++ {
			sub := sc.Mismatch
			if qc == target[j-1] || target[j-1] == 'X' {
				sub = sc.Match
			}
			score := h[i-1][j-1] + sub
			if up := h[i-1][j] + sc.Gap; up > score {
				score = up
			}
			if left := h[i][j-1] + sc.Gap; left > score {
				score = left
			}
			if score < 0 {
				score = 0
			}
			h[i][j] = score
			if score > best.Score {
				best.Score = score
				bestI, bestJ = i, j
			}
		}
	}

	if best.Score == 0 {
		return Result{}
	}

	// Traceback from the maximum cell to the first zero cell, counting
	// matches and columns along the way.
	i, j := bestI, bestJ
	for i > 0 && j > 0 && h[i][j] > 0 {
		sub := sc.Mismatch
		match := query[i-1] == target[j-1] || target[j-1] == 'X'
		if match {
			sub = sc.Match
		}
		switch {
		case h[i][j] == h[i-1][j-1]+sub:
			if match {
				best.Matches++
			}
			best.Columns++
			i--
			j--
		case h[i][j] == h[i-1][j]+sc.Gap:
			best.Columns++
			i--
		default:
			best.Columns++
			j--
		}
	}

	best.QueryStart, best.QueryEnd = i, bestI
	best.TargetStart, best.TargetEnd = j, bestJ
	return best
}
