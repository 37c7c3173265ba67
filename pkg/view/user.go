package view

type UserRow struct {
	ID     int64
	Name   string
	Email  string
	Joined string
}

type UserListPage struct {
	ViewID  string
	Loading bool
	Error   string
	Rows    []UserRow
}

type UserDetail struct {
	ID          int64
	Name        string
	Email       string
	MemberSince string
}

// UserForm never carries a stored password back to the browser; Password is
// whatever was typed into this submission.
type UserForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password"`
}

type UserFormPage struct {
	FormStatus
	Fields UserForm
}
