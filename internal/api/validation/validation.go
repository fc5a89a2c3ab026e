package validation

import (
	"net/url"
	"regexp"
)

var (
	// emailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// usernameRegex allows Unicode letters and digits plus @ . + - _
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

	// phoneRegex accepts international notation with separators
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{4,18}$`)
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUsername checks the display-name charset: Unicode letters,
// digits and @/./+/-/_ only, at most 150 characters.
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 150 {
		return false
	}
	return usernameRegex.MatchString(username)
}

// IsValidPhone checks if the string looks like a phone number
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// IsValidURL checks for an absolute http or https URL
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
