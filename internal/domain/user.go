package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

func (u *User) Identity() Identity {
	if u == nil {
		return Guest()
	}
	return Identity{UserID: u.ID, Email: u.Email, Role: ParseRole(u.Role)}
}
