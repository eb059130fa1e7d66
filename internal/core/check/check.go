// Package check compares roll totals against a difficulty.
package check

// MeetsDifficulty returns true if total >= difficulty.
func MeetsDifficulty(total, difficulty float64) bool {
	return total >= difficulty
}

// Margin is total minus difficulty; negative margins are failures.
func Margin(total, difficulty float64) float64 {
	return total - difficulty
}

// Result represents the outcome of a difficulty check.
type Result struct {
	Difficulty float64
	Success    bool
	Margin     float64
}

// Check performs a difficulty check and returns the result.
func Check(total, difficulty float64) Result {
	return Result{
		Difficulty: difficulty,
		Success:    MeetsDifficulty(total, difficulty),
		Margin:     Margin(total, difficulty),
	}
}

// Each checks every total against the same difficulty.
func Each(totals []float64, difficulty float64) []Result {
	results := make([]Result, len(totals))
	for i, total := range totals {
		results[i] = Check(total, difficulty)
	}
	return results
}
