package scorer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prediction-service/internal/models"
)

// testTree splits on feature 0 at 5, then the right branch on feature 1 at 2.
func testTree() *RegressionTree {
	return &RegressionTree{
		Features: 2,
		Nodes: []Node{
			{Feature: 0, Threshold: 5, Left: 1, Right: 2},
			{Leaf: true, Value: 100},
			{Feature: 1, Threshold: 2, Left: 3, Right: 4},
			{Leaf: true, Value: 200},
			{Leaf: true, Value: 300},
		},
	}
}

func TestPredictRoutesRows(t *testing.T) {
	tree := testTree()

	preds, err := tree.Predict([][]float64{
		{1, 0},  // left leaf
		{9, 1},  // right then left
		{9, 10}, // right then right
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200, 300}, preds)
}

func TestPredictRejectsWrongWidth(t *testing.T) {
	tree := testTree()

	_, err := tree.Predict([][]float64{{1, 2, 3}})
	require.Error(t, err)
	var scoring *models.ScoringError
	assert.True(t, errors.As(err, &scoring))

	_, err = tree.Predict(nil)
	require.Error(t, err)
	assert.True(t, errors.As(err, &scoring))
}

func TestPredictLargeBatchPreservesOrder(t *testing.T) {
	tree := testTree()

	n := parallelRows * 2
	X := make([][]float64, n)
	want := make([]float64, n)
	for i := range X {
		if i%2 == 0 {
			X[i] = []float64{1, 0}
			want[i] = 100
		} else {
			X[i] = []float64{9, 10}
			want[i] = 300
		}
	}

	preds, err := tree.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, want, preds)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, testTree().Save(path))

	loaded, err := LoadTree(path)
	require.NoError(t, err)
	assert.Equal(t, testTree(), loaded)

	preds, err := loaded.Predict([][]float64{{9, 1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{200}, preds)
}

func TestLoadTreeMissingArtifact(t *testing.T) {
	_, err := LoadTree(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
}

func TestLoadTreeRejectsCorruptArtifacts(t *testing.T) {
	cases := map[string]*RegressionTree{
		"no nodes":             {Features: 2},
		"non-positive width":   {Features: 0, Nodes: []Node{{Leaf: true}}},
		"feature out of range": {Features: 1, Nodes: []Node{{Feature: 3, Left: 1, Right: 2}, {Leaf: true}, {Leaf: true}}},
		"child out of range":   {Features: 1, Nodes: []Node{{Feature: 0, Left: 5, Right: 1}, {Leaf: true}}},
	}
	for name, tree := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.gob")
			require.NoError(t, tree.Save(path))
			_, err := LoadTree(path)
			assert.Error(t, err)
		})
	}
}
