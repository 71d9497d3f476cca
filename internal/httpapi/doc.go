// Package httpapi exposes the Engine over HTTP.
//
// Routes:
//
//	POST /signup        {email, password, requires2FA}      201
//	POST /login         {email, password}                   200 + jwt cookie, or 206 + {message, loginAttemptId}
//	POST /verify-2fa    {email, loginAttemptId, 2FACode}    200 + jwt cookie
//	POST /logout        jwt cookie                          200, cookie cleared
//	POST /verify-token  {token}                             200
//	GET  /health                                            200
//	GET  /metrics                                           Prometheus exposition, when configured
//
// Failures are written as {"error": "<message>"}. Bodies that do not decode
// into the expected shape are rejected with 422 before reaching the Engine.
package httpapi
