package domain

// User is an account record.
//
// Password carries the plaintext candidate on its way into a store and is
// zero when a store returns a record. PasswordHash is the Argon2id PHC string
// kept at rest and is empty on records that have not been persisted yet.
type User struct {
	Email        Email
	Password     Password
	PasswordHash string
	Requires2FA  bool
}

// NewUser builds a user ready to be added to a UserStore.
func NewUser(email Email, password Password, requires2FA bool) User {
	return User{
		Email:       email,
		Password:    password,
		Requires2FA: requires2FA,
	}
}
