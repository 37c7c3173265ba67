package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string // flat message safe to show in a view
	Err       error  // cause, logged only
}
