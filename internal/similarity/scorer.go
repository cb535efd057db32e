// Package similarity ranks candidate jobs against a reference job using a
// weighted attribute score. It is a pure computation over a candidate pool
// the storage layer has already filtered; it only scores and ranks.
package similarity

import (
	"math"
	"sort"
	"strings"

	"jobboard-api/internal/models"
)

// weights is the single source of truth for the scoring components.
// The four entries sum to 1.0; same-region location credit is half the
// same-city credit.
var weights = struct {
	Location  float64
	Title     float64
	Category  float64
	Seniority float64
}{
	Location:  0.30,
	Title:     0.40,
	Category:  0.20,
	Seniority: 0.10,
}

// defaultSeniority is assumed when a job carries no seniority.
const defaultSeniority = "mid"

// RankSimilar scores every candidate against reference and returns them in
// descending score order, truncated to limit. The sort is stable: tied
// scores keep their input order. Neither input is mutated.
func RankSimilar(reference models.Job, candidates []models.Job, limit int) []models.ScoredJob {
	if len(candidates) == 0 {
		return []models.ScoredJob{}
	}

	refWords := titleWords(reference.Title)

	scored := make([]models.ScoredJob, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, models.ScoredJob{
			Job:   candidate,
			Score: score(reference, refWords, candidate),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	return scored
}

// Score computes the weighted similarity of a single candidate, rounded to
// two decimals and clamped to [0,1].
func Score(reference, candidate models.Job) float64 {
	return score(reference, titleWords(reference.Title), candidate)
}

func score(reference models.Job, refWords []string, candidate models.Job) float64 {
	s := locationScore(reference.Location, candidate.Location) +
		titleScore(refWords, titleWords(candidate.Title)) +
		categoryScore(reference.Category, candidate.Category) +
		seniorityScore(reference.Seniority, candidate.Seniority)

	s = math.Round(s*100) / 100
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func locationScore(ref, cand models.Location) float64 {
	if ref.City != "" && ref.City == cand.City {
		return weights.Location
	}
	if ref.Region != "" && ref.Region == cand.Region {
		return weights.Location / 2
	}
	return 0
}

// titleScore measures keyword overlap: a reference word matches when either
// it or a candidate word is a substring of the other, and each candidate
// word is consumed at most once. The denominator is the longer word list.
func titleScore(refWords, candWords []string) float64 {
	if len(refWords) == 0 || len(candWords) == 0 {
		return 0
	}

	used := make([]bool, len(candWords))
	matched := 0
	for _, rw := range refWords {
		for i, cw := range candWords {
			if used[i] {
				continue
			}
			if strings.Contains(cw, rw) || strings.Contains(rw, cw) {
				used[i] = true
				matched++
				break
			}
		}
	}

	denom := len(refWords)
	if len(candWords) > denom {
		denom = len(candWords)
	}

	return weights.Title * float64(matched) / float64(denom)
}

func categoryScore(ref, cand string) float64 {
	if ref != "" && ref == cand {
		return weights.Category
	}
	return 0
}

func seniorityScore(ref, cand string) float64 {
	if ref == "" {
		ref = defaultSeniority
	}
	if cand == "" {
		cand = defaultSeniority
	}
	if ref == cand {
		return weights.Seniority
	}
	return 0
}

func titleWords(title string) []string {
	return strings.Fields(strings.ToLower(title))
}
