// Package viewstate holds the per-activation state of list, detail and form
// views. Nothing here is shared between view instances.
package viewstate

import "context"

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Entity is anything identified by an API-assigned id.
type Entity interface {
	EntityID() int64
}

// List is one list view instance. Items is a cache of the last successful
// fetch; it is only changed by Load and Remove.
type List[T Entity] struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Phase    Phase  `json:"phase"`
	Items    []T    `json:"items"`
	Error    string `json:"error,omitempty"`
}

func NewList[T Entity](id, resource string) *List[T] {
	return &List[T]{ID: id, Resource: resource, Phase: PhaseLoading, Items: []T{}}
}

// Load replaces Items with the fetched sequence as-is. On failure Items is
// emptied, failMsg becomes the visible error and the cause is returned.
func (l *List[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error), failMsg string) error {
	items, err := fetch(ctx)
	if err != nil {
		l.Phase = PhaseFailed
		l.Items = []T{}
		l.Error = failMsg
		return err
	}
	if items == nil {
		items = []T{}
	}
	l.Phase = PhaseReady
	l.Items = items
	l.Error = ""
	return nil
}

// Remove drops the entries whose id equals id and reports how many went.
// It never consults the server, so a stale list stays stale.
func (l *List[T]) Remove(id int64) int {
	kept := l.Items[:0]
	for _, it := range l.Items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	n := len(l.Items) - len(kept)
	l.Items = kept
	return n
}

// Fail shows msg while leaving Items untouched.
func (l *List[T]) Fail(msg string) { l.Error = msg }
