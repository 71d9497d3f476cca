package authservice

import "github.com/MrEthical07/authservice/jwt"

// SignupInput is the raw signup request. Fields are parsed by Engine.Signup.
type SignupInput struct {
	Email       string
	Password    string
	Requires2FA bool
}

// LoginResult is returned by Engine.Login. When Requires2FA is set the
// caller must complete the login with Engine.Verify2FA using
// LoginAttemptID and the code delivered to the user; Token is empty.
type LoginResult struct {
	Token          jwt.Token
	Requires2FA    bool
	LoginAttemptID string
}

// CookieName is the name of the HTTP cookie carrying the session token.
const CookieName = "jwt"
