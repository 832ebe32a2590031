package submission

// ForceIntent bypasses the chooser methods so tests can reach the
// unknown-intent branch.
func (r *Router) ForceIntent(intent Intent) {
	r.mu.Lock()
	r.intent = intent
	r.mu.Unlock()
}
