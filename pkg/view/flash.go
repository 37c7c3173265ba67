package view

type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot message shown on the page after a redirect.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Class is the CSS class of the banner.
func (f Flash) Class() string {
	if f.Kind == FlashError {
		return "error-message"
	}
	return "flash flash-" + string(f.Kind)
}
