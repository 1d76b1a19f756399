// ABOUTME: Arena of live media handles keyed by clip id
// ABOUTME: Explicit insert/get/remove lifecycle, owned exclusively by the Scheduler

package playback

// arena maps clip ids to their provisioned handles. Only the Scheduler
// mutates it; the timeline model and history never touch handles.
type arena struct {
	handles map[string]Handle
}

func newArena() *arena {
	return &arena{handles: make(map[string]Handle)}
}

func (a *arena) insert(clipID string, h Handle) {
	a.handles[clipID] = h
}

func (a *arena) get(clipID string) (Handle, bool) {
	h, ok := a.handles[clipID]

	return h, ok
}

func (a *arena) remove(clipID string) {
	delete(a.handles, clipID)
}

func (a *arena) each(fn func(clipID string, h Handle)) {
	for id, h := range a.handles {
		fn(id, h)
	}
}

func (a *arena) len() int {
	return len(a.handles)
}
