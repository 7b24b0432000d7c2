package auth

// User is an operator allowed to run admin actions (catalog reloads).
type User struct {
	ID       string
	Name     string
	Email    string
	Password string // bcrypt hash
	Role     string
}
