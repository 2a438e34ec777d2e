package scorer

import (
	"encoding/gob"
	"fmt"
	"os"
	"runtime"
	"sync"

	"prediction-service/internal/models"
)

// Node is one node of a serialized regression tree. Internal nodes route on
// Feature <= Threshold (left) vs > Threshold (right); leaves carry the
// predicted value. Children are indexes into the tree's node slice so the
// whole structure round-trips through gob without pointer fixups.
type Node struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// RegressionTree is a pre-trained CART-style regression model. Nodes[0] is
// the root. The tree is read-only after load and re-entrant: concurrent
// Predict calls need no locking.
type RegressionTree struct {
	Features int
	Nodes    []Node
}

// Rows at or above this count are predicted in parallel across CPU cores.
const parallelRows = 256

// LoadTree reads a gob-encoded regression tree artifact from path and checks
// its structural sanity. Startup-fatal for the caller if it fails: the
// process must not serve traffic without a model.
func LoadTree(path string) (*RegressionTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var tree RegressionTree
	if err := gob.NewDecoder(f).Decode(&tree); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w", path, err)
	}
	if err := tree.validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s is corrupt: %w", path, err)
	}
	return &tree, nil
}

// Save writes the tree to path as a gob artifact.
func (t *RegressionTree) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model artifact: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(t); err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	return nil
}

func (t *RegressionTree) validate() error {
	if t.Features <= 0 {
		return fmt.Errorf("feature count %d is not positive", t.Features)
	}
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= t.Features {
			return fmt.Errorf("node %d splits on out-of-range feature %d", i, n.Feature)
		}
		if n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has out-of-range child link", i)
		}
	}
	return nil
}

// Predict returns one prediction per row of X, in row order. Rows are
// independent, so large batches are chunked across workers and written back
// by index. A row of the wrong width is a ScoringError; validation upstream
// should make that unreachable.
func (t *RegressionTree) Predict(X [][]float64) ([]float64, error) {
	if len(X) == 0 {
		return nil, &models.ScoringError{Reason: "empty feature matrix"}
	}
	for i, row := range X {
		if len(row) != t.Features {
			return nil, &models.ScoringError{
				Reason: fmt.Sprintf("row %d has %d features, model expects %d", i, len(row), t.Features),
			}
		}
	}

	pred := make([]float64, len(X))
	if len(X) < parallelRows {
		for i, row := range X {
			pred[i] = t.predictRow(row)
		}
		return pred, nil
	}

	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(X) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(X) {
			end = len(X)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				pred[i] = t.predictRow(X[i])
			}
		}(start, end)
	}
	wg.Wait()
	return pred, nil
}

func (t *RegressionTree) predictRow(row []float64) float64 {
	node := &t.Nodes[0]
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = &t.Nodes[node.Left]
		} else {
			node = &t.Nodes[node.Right]
		}
	}
	return node.Value
}
