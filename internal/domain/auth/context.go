package auth

// ===============================
// Subjects
// ===============================

type Kind string

const (
	KindAdmin Kind = "admin"
	KindUser  Kind = "user"
)

type Permission string

const (
	PermissionAll  Permission = "all"
	PermissionRead Permission = "read"
)

func (p Permission) Valid() bool {
	return p == PermissionAll || p == PermissionRead
}

// Context identifies the caller of an operation. The zero value is an
// anonymous caller with no capabilities.
type Context struct {
	SubjectID  uint
	Kind       Kind
	Permission Permission
}

func (c Context) IsAdmin() bool {
	return c.Kind == KindAdmin && c.Permission.Valid()
}

// CanMutate reports whether the caller may change shared state.
func (c Context) CanMutate() bool {
	return c.Kind == KindAdmin && c.Permission == PermissionAll
}

func (c Context) Anonymous() bool {
	return c.SubjectID == 0
}
