package recognize_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facewatch/attendance/internal/embedding"
	"github.com/facewatch/attendance/internal/index"
	"github.com/facewatch/attendance/internal/recognize"
)

type fakeProvider struct {
	faces []embedding.Face
}

func (f fakeProvider) Detect(ctx context.Context, raw []byte) ([]embedding.Face, error) {
	return f.faces, nil
}

func cfg() recognize.Config {
	return recognize.Config{QMinRecognize: 0.3, ConfidenceThreshold: 0.6}
}

func TestRecognize_DropsLowQualityFaces(t *testing.T) {
	provider := fakeProvider{faces: []embedding.Face{{Quality: 0.1}}}
	idx := index.New()
	eng := recognize.NewEngine(provider, idx, cfg())

	matches, err := eng.Recognize(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestRecognize_MatchAboveThreshold(t *testing.T) {
	idx := index.New()
	vec := make([]float32, index.Dimension)
	vec[0] = 1
	_, err := idx.Add(7, vec)
	require.NoError(t, err)

	provider := fakeProvider{faces: []embedding.Face{{Quality: 0.9, Embedding: vec}}}
	eng := recognize.NewEngine(provider, idx, cfg())

	matches, err := eng.Recognize(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, int64(7), matches[0].PersonID)
	require.GreaterOrEqual(t, matches[0].Confidence, float32(0.6))
}

func TestRecognize_CollapsesDuplicatePersonKeepingHigherScore(t *testing.T) {
	idx := index.New()
	vecA := make([]float32, index.Dimension)
	vecA[0] = 1
	_, err := idx.Add(3, vecA)
	require.NoError(t, err)

	// Two faces in one frame both match person 3, at different scores:
	// a perfect match and a slightly-off one.
	vecB := append([]float32(nil), vecA...)
	vecB[5] = 0.05

	provider := fakeProvider{faces: []embedding.Face{
		{Quality: 0.9, Embedding: vecB},
		{Quality: 0.9, Embedding: vecA},
	}}
	eng := recognize.NewEngine(provider, idx, cfg())

	matches, err := eng.Recognize(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, int64(3), matches[0].PersonID)
	require.InDelta(t, 1.0, matches[0].Confidence, 1e-4)
}

func TestRecognize_NoMatchBelowThreshold(t *testing.T) {
	idx := index.New()
	vec := make([]float32, index.Dimension)
	vec[0] = 1
	_, err := idx.Add(1, vec)
	require.NoError(t, err)

	orthogonal := make([]float32, index.Dimension)
	orthogonal[1] = 1

	provider := fakeProvider{faces: []embedding.Face{{Quality: 0.9, Embedding: orthogonal}}}
	eng := recognize.NewEngine(provider, idx, cfg())

	matches, err := eng.Recognize(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Empty(t, matches)
}
