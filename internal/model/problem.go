package model

// Problem is one generated arithmetic question. Ephemeral: a session holds
// exactly one at a time, replaced when the next round starts.
type Problem struct {
	Text   string // e.g. "12 + 7" or "(6 × 4) - 3"
	Answer int    // always integer-clean, including division problems
	Level  int    // 1-3, the level it was generated at
}
