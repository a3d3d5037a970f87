package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every draw made by the engine is auditable.
// Draws are logged at debug level with the bound and the result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the result.
//
// Precondition: n > 0.
// Postcondition: Returns a value in [0, n).
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("rng draw",
		zap.Int("bound", n),
		zap.Int("result", v),
	)
	return v
}
