package view

// FormStatus is what every create/edit page shows around its fields.
// At most one of Loading, Error and Success is set.
type FormStatus struct {
	Edit        bool
	Loading     bool
	Error       string
	Success     string
	FieldErrors map[string]string
	ActionURL   string
	CancelURL   string
}

// FieldError returns the message for one field, or "".
func (s FormStatus) FieldError(name string) string {
	return s.FieldErrors[name]
}

// NotFoundPage is the fallback for a detail that could not be loaded.
type NotFoundPage struct {
	Message   string
	BackURL   string
	BackLabel string
}

// ConfirmDeletePage stands in for the browser's confirm() dialog.
type ConfirmDeletePage struct {
	Question  string
	ActionURL string
	CancelURL string
	ViewID    string
	From      string
}
