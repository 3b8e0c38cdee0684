package agent

// PassResult summarizes one scheduler pass over a population.
type PassResult struct {
	Kind       Kind           `json:"kind"`
	Start      int            `json:"start"`
	Processed  int            `json:"processed"`
	MapChanged bool           `json:"mapChanged"`
	Actions    map[Action]int `json:"actions"`
}

// WindowBounds picks the contiguous slice [start,end) processed this pass.
// Populations that fit in the window are processed whole.
func WindowBounds(n, window int, rng Roller) (int, int) {
	if window <= 0 || n <= window {
		return 0, n
	}
	start := rng.IntN(n - window + 1)
	return start, start + window
}

// RunPass steps the agents inside the processing window in population
// order, in place. Map changes made by one agent are visible to the next.
// Agents outside the window are left untouched.
func RunPass(agents []Agent, p Policy, env Env) PassResult {
	start, end := WindowBounds(len(agents), p.Window, env.Rand)
	out := PassResult{Kind: p.Kind, Start: start, Processed: end - start, Actions: map[Action]int{}}
	for i := start; i < end; i++ {
		res := Step(&agents[i], p, env)
		out.Actions[res.Action]++
		if res.MapChanged {
			out.MapChanged = true
		}
	}
	return out
}
