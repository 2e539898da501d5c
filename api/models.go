package api

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ForgotPasswordRequest is the body of POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /reset-password/:token.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// MessageResponse is the generic {message} body used by every endpoint that
// has nothing else to return, including all error responses.
type MessageResponse struct {
	Message string `json:"message"`
}
