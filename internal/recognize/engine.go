// Package recognize implements the recognition engine (C5): a stateless
// pipeline from one frame to zero or more person matches. It is safe to
// call concurrently from many camera workers, since it owns no mutable
// state of its own — it only reads the embedding provider and the
// similarity index, both of which are already safe for concurrent use.
package recognize

import (
	"context"
	"fmt"
	"log"

	"github.com/facewatch/attendance/internal/embedding"
	"github.com/facewatch/attendance/internal/index"
)

// Match is one recognized face in a frame.
type Match struct {
	PersonID   int64
	Confidence float32
	BBox       embedding.BoundingBox
}

// Searcher is the subset of *index.Index the engine needs; defined as an
// interface so tests can substitute a fake index.
type Searcher interface {
	Search(query []float32, k int, minScore float32) ([]index.Result, error)
}

// Config holds the recognition tunables from spec.md §6.
type Config struct {
	QMinRecognize       float64
	ConfidenceThreshold float32
}

// Engine is C5.
type Engine struct {
	provider embedding.Provider
	idx      Searcher
	cfg      Config
}

func NewEngine(provider embedding.Provider, idx Searcher, cfg Config) *Engine {
	return &Engine{provider: provider, idx: idx, cfg: cfg}
}

// Analysis is a frame's matches plus how many faces were detected at all,
// for callers (the manual check-in endpoint) that must distinguish "no
// face in shot" from "a face nobody enrolled".
type Analysis struct {
	Matches       []Match
	FacesDetected int
}

// Recognize implements the four steps of spec.md §4.3.
func (e *Engine) Recognize(ctx context.Context, frame []byte) ([]Match, error) {
	a, err := e.Analyze(ctx, frame)
	if err != nil {
		return nil, err
	}
	return a.Matches, nil
}

func (e *Engine) Analyze(ctx context.Context, frame []byte) (Analysis, error) {
	faces, err := e.provider.Detect(ctx, frame)
	if err != nil {
		return Analysis{}, fmt.Errorf("recognize: detect: %w", err)
	}

	type candidate struct {
		personID int64
		score    float32
		bbox     embedding.BoundingBox
	}
	var hits []candidate

	for _, face := range faces {
		if face.Quality < e.cfg.QMinRecognize {
			continue
		}
		results, err := e.idx.Search(face.Embedding, 1, e.cfg.ConfidenceThreshold)
		if err != nil {
			return Analysis{}, fmt.Errorf("recognize: search: %w", err)
		}
		if len(results) == 0 {
			continue
		}
		hits = append(hits, candidate{personID: results[0].PersonID, score: results[0].Score, bbox: face.BBox})
	}

	// Step 4: collapse duplicate persons within the same frame, keeping
	// the higher-scoring face and logging the collision.
	bestByPerson := make(map[int64]candidate, len(hits))
	for _, h := range hits {
		cur, ok := bestByPerson[h.personID]
		if !ok {
			bestByPerson[h.personID] = h
			continue
		}
		if h.score > cur.score {
			log.Printf("recognize: collision person=%d kept_score=%.4f dropped_score=%.4f", h.personID, h.score, cur.score)
			bestByPerson[h.personID] = h
		} else {
			log.Printf("recognize: collision person=%d kept_score=%.4f dropped_score=%.4f", h.personID, cur.score, h.score)
		}
	}

	matches := make([]Match, 0, len(bestByPerson))
	for _, h := range bestByPerson {
		matches = append(matches, Match{PersonID: h.personID, Confidence: h.score, BBox: h.bbox})
	}
	return Analysis{Matches: matches, FacesDetected: len(faces)}, nil
}
