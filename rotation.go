package reflectpause

import "sync"

// rotationState tracks the per-locale question cursor. The read-and-
// advance is atomic per locale key, so concurrent generations for the
// same locale each observe a distinct, monotonically advancing index.
type rotationState struct {
	mu      sync.Mutex
	cursors map[string]int
}

func newRotationState() *rotationState {
	return &rotationState{cursors: make(map[string]int)}
}

// next returns the current index for code and advances the cursor
// modulo n. A fresh locale starts at 0.
func (r *rotationState) next(code string, n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.cursors[code]
	r.cursors[code] = (idx + 1) % n
	return idx
}

// current returns the index the next generation for code would use.
func (r *rotationState) current(code string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursors[code]
}

// reset rewinds the cursor for code, or for every locale when code is
// empty.
func (r *rotationState) reset(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code == "" {
		r.cursors = make(map[string]int)
		return
	}
	delete(r.cursors, code)
}
