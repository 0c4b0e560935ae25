package contract

import "github.com/roach88/scribe/internal/store"

// assertOwner is the authorization guard: it succeeds iff the caller
// identity equals the stored owner. Pure predicate - no side effects,
// no suspension. All gated mutations call it before touching storage.
func assertOwner(st store.State, sender string) error {
	if sender != st.Owner {
		return NewUnauthorizedError(sender)
	}
	return nil
}
