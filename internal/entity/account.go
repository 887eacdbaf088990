package entity

// Account is an immutable identity record. Password hashes are bcrypt.
type Account struct {
	Username     string
	PasswordHash string
}
