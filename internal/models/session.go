package models

// Session is the client-held record of the signed-in user.
//
// It is not a credential; the zero value means signed out.
type Session struct {
	Username string `json:"username"`
}

// Active reports whether a user is signed in.
func (s Session) Active() bool {
	return s.Username != ""
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned by POST /login.
type LoginResult struct {
	Username string `json:"username"`
}
