package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Username rejects anything outside 3-20 characters of [A-Za-z0-9_].
// Comparison against existing profiles is case-insensitive, so "Alice" and
// "alice" are the same name; normalization to lowercase happens at the
// service layer.
func Username(username string) ValidationErrors {
	errs := make(ValidationErrors)
	validateUsername(username, errs)
	return errs
}

func ValidateRegister(email, username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	validateUsername(username, errs)
	validatePassword(password, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateProfileUpdate(displayName, bio, theme *string) ValidationErrors {
	errs := make(ValidationErrors)

	if displayName != nil {
		name := strings.TrimSpace(*displayName)
		if name == "" {
			errs.Add("display_name", "Display name cannot be empty")
		} else if len(name) > 100 {
			errs.Add("display_name", "Display name is too long")
		}
	}

	if bio != nil && len(*bio) > 1000 {
		errs.Add("bio", "Bio is too long")
	}

	if theme != nil && len(*theme) > 50 {
		errs.Add("theme", "Theme name is too long")
	}

	return errs
}

func ValidateSectionTitle(title string) ValidationErrors {
	errs := make(ValidationErrors)

	if len(strings.TrimSpace(title)) > 100 {
		errs.Add("title", "Section title is too long")
	}

	return errs
}

func validateUsername(username string, errs ValidationErrors) {
	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 || len(username) > 20 {
		errs.Add("username", "Username must be 3-20 characters")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers and _")
	}
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		errs.Add("password", "Password must contain upper and lower case letters and a number")
	}
}
