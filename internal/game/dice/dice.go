// Package dice provides the randomness abstraction used by the battle engine
// for accuracy rolls and CPU decisions.
package dice

// Source is the randomness provider for the battle engine.
//
// Implementations used by a single Battle need not be safe for concurrent use;
// sources shared between battles MUST be.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Percent rolls a d100 against chance and reports whether the roll landed
// strictly below it. A chance of 100 always succeeds; 0 never does.
//
// Precondition: src must be non-nil.
// Postcondition: Returns src.Intn(100) < chance.
func Percent(src Source, chance int) bool {
	return src.Intn(100) < chance
}
