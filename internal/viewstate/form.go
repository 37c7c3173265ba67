package viewstate

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

type FormPhase string

const (
	FormLoading FormPhase = "loading"
	FormEditing FormPhase = "editing"
	FormSuccess FormPhase = "success"
	FormError   FormPhase = "error"
)

// Form is the state of one create/edit form instance. Fields are private so
// a form can only move through the transition methods; each transition sets
// exactly the data its phase carries (a message for error, a next URL for
// success), so success and error never coexist.
type Form[F any] struct {
	mode        Mode
	id          int64
	phase       FormPhase
	fields      F
	message     string
	fieldErrors map[string]string
	next        string
}

// NewCreateForm starts in editing with the given defaults.
func NewCreateForm[F any](defaults F) Form[F] {
	return Form[F]{mode: ModeCreate, phase: FormEditing, fields: defaults}
}

// NewEditForm starts in loading until the current values arrive.
func NewEditForm[F any](id int64) Form[F] {
	return Form[F]{mode: ModeEdit, id: id, phase: FormLoading}
}

func (f Form[F]) to(phase FormPhase, fields F) Form[F] {
	return Form[F]{mode: f.mode, id: f.id, phase: phase, fields: fields}
}

// Loaded fills an edit form with the entity's current values.
func (f Form[F]) Loaded(fields F) Form[F] { return f.to(FormEditing, fields) }

// LoadFailed leaves an edit form empty with msg shown.
func (f Form[F]) LoadFailed(msg string) Form[F] {
	var zero F
	next := f.to(FormError, zero)
	next.message = msg
	return next
}

// Edited records the values the user submitted.
func (f Form[F]) Edited(fields F) Form[F] { return f.to(FormEditing, fields) }

// Invalid keeps the submitted values and explains which fields were rejected.
func (f Form[F]) Invalid(fields F, msg string, fieldErrors map[string]string) Form[F] {
	next := f.to(FormError, fields)
	next.message = msg
	next.fieldErrors = fieldErrors
	return next
}

// Saved moves to success; next is where the view navigates afterwards.
func (f Form[F]) Saved(next string) Form[F] {
	s := f.to(FormSuccess, f.fields)
	s.next = next
	return s
}

// Failed keeps the fields populated so the user can resubmit.
func (f Form[F]) Failed(msg string) Form[F] {
	next := f.to(FormError, f.fields)
	next.message = msg
	return next
}

func (f Form[F]) ID() int64                      { return f.id }
func (f Form[F]) Phase() FormPhase               { return f.phase }
func (f Form[F]) Fields() F                      { return f.fields }
func (f Form[F]) Message() string                { return f.message }
func (f Form[F]) FieldErrors() map[string]string { return f.fieldErrors }
func (f Form[F]) Next() string                   { return f.next }
func (f Form[F]) IsEdit() bool                   { return f.mode == ModeEdit }
