// Package jwt issues and parses the HS256 session tokens handed to clients
// in the jwt cookie. Tokens carry the standard sub, exp and iat claims only.
//
// Revocation lives outside this package: callers consult a banned-token
// store before trusting a token that Parse accepts.
package jwt
