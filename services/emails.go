package services

import (
	"fmt"

	"github.com/velmik/auth-service/domain"
)

const (
	registrationSubject = "Registration Successful"
	resetSubject        = "Reset Password"
	confirmationSubject = "Password Updated Successfully"
)

// Bodies intentionally never include the plaintext password.

func registrationBody(user *domain.User) string {
	return fmt.Sprintf(
		"Hello %s, your registration was successful. You can now log in with %s.",
		user.FirstName, user.Email,
	)
}

func resetBody(resetURL string) string {
	return fmt.Sprintf("Click here to reset your password: %s", resetURL)
}

func confirmationBody(user *domain.User) string {
	return fmt.Sprintf(
		"Hello %s, the password for %s was just updated. If this wasn't you, reset it immediately.",
		user.FirstName, user.Email,
	)
}
