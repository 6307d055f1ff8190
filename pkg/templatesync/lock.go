package templatesync

import "sync"

// LockTable provides exclusive per-template sync locks. It is explicitly
// constructed and injectable so isolated engine instances (tests, multi-tenant
// hosting) do not share lock state.
type LockTable struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLockTable creates an empty lock table.
func NewLockTable() *LockTable {
	return &LockTable{held: make(map[string]struct{})}
}

// Acquire takes the lock for a template id. Acquiring an already-held lock fails
// with a *LockError.
func (t *LockTable) Acquire(templateID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, taken := t.held[templateID]; taken {
		return &LockError{TemplateID: templateID}
	}

	t.held[templateID] = struct{}{}

	return nil
}

// Release frees the lock for a template id. Releasing a lock that is not held is
// a no-op, so release is safe on every exit path.
func (t *LockTable) Release(templateID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.held, templateID)
}

// Held reports whether the template's lock is currently taken.
func (t *LockTable) Held(templateID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, taken := t.held[templateID]

	return taken
}

// Reset drops every held lock. Intended for tests and tenant teardown.
func (t *LockTable) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.held = make(map[string]struct{})
}
