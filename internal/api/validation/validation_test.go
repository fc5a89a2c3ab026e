package validation_test

import (
	"strings"
	"testing"

	"github.com/avolkov/orderhub/internal/api/validation"
	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"user.name+tag@example.co.uk",
		"user_name@sub.example.org",
		"123@example.io",
	}
	for _, email := range valid {
		assert.True(t, validation.IsValidEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, email := range invalid {
		assert.False(t, validation.IsValidEmail(email), "expected %q to be invalid", email)
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{
		"john",
		"john.doe",
		"john_doe-42",
		"user@host",
		"Пользователь",
		"用户名",
	}
	for _, username := range valid {
		assert.True(t, validation.IsValidUsername(username), "expected %q to be valid", username)
	}

	invalid := []string{
		"",
		"john doe",
		"john!doe",
		"john#doe",
		strings.Repeat("a", 151),
	}
	for _, username := range invalid {
		assert.False(t, validation.IsValidUsername(username), "expected %q to be invalid", username)
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{
		"+15551234567",
		"+7 (999) 123-45-67",
		"89991234567",
		"555-1234",
	}
	for _, phone := range valid {
		assert.True(t, validation.IsValidPhone(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"+",
		"123",
		"phone number",
		"+1555123456789012345678",
	}
	for _, phone := range invalid {
		assert.False(t, validation.IsValidPhone(phone), "expected %q to be invalid", phone)
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, validation.IsValidURL("https://example.com/price.yaml"))
	assert.True(t, validation.IsValidURL("http://localhost:8000/list"))

	assert.False(t, validation.IsValidURL(""))
	assert.False(t, validation.IsValidURL("ftp://example.com/file"))
	assert.False(t, validation.IsValidURL("example.com/price.yaml"))
	assert.False(t, validation.IsValidURL("/relative/path"))
}
