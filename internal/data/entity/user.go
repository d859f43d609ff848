package entity

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleScheduler UserRole = "scheduler"
	RoleStaff     UserRole = "staff"
	RoleStudent   UserRole = "student"
)

type User struct {
	Base
	Fullname string   `db:"fullname"`
	Email    string   `db:"email"`
	Role     UserRole `db:"role"`
	IsActive bool     `db:"is_active"`
}

// CanSchedule reports whether the user may run timetable imports.
func (u *User) CanSchedule() bool {
	return u.Role == RoleScheduler || u.Role == RoleAdmin
}
