package domain

// Principal is the identity carried by a verified bearer token.
type Principal struct {
	ID    EmployeeID
	Email string
	Name  string
	Role  Role
}
