package scorer

// Scorer is the opaque scoring backend: an ordered matrix of feature vectors
// in (columns in schema declaration order), one scalar prediction per row out,
// in row order. Implementations must be safe for concurrent calls after load.
type Scorer interface {
	Predict(X [][]float64) ([]float64, error)
}
