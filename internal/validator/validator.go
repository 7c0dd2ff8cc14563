package validator

import (
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidName     = errors.New("name should be between 2 and 10 characters")
	ErrInvalidSurname  = errors.New("surname should be between 2 and 15 characters")
	ErrInvalidEmail    = errors.New("email must contain valid tags")
	ErrInvalidPassword = errors.New("password must be 8-20 characters with at least one uppercase letter and one number or symbol")
	ErrInvalidPhone    = errors.New("phone number should be in international format")
	ErrInvalidCountry  = errors.New("country of origin must be filled")
	ErrInvalidDate     = errors.New("date of birth must be in yyyy-mm-dd format")
	ErrInvalidContent  = errors.New("the length of the message must be between 1 and 100 characters")
)

var (
	emailRegex = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,3}$`)
	phoneRegex = regexp.MustCompile(`^(\+\d{1,3})?\d{9,15}$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func ValidateName(name string) error {
	if n := utf8.RuneCountInString(name); n < 2 || n > 10 {
		return ErrInvalidName
	}
	return nil
}

func ValidateSurname(surname string) error {
	if n := utf8.RuneCountInString(surname); n < 2 || n > 15 {
		return ErrInvalidSurname
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces 8-20 characters with at least one uppercase
// letter and at least one digit or symbol. Go's regexp has no lookahead, so
// the character-class checks are explicit scans.
func ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < 8 || n > 20 {
		return ErrInvalidPassword
	}
	var hasUpper, hasDigitOrSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r), !unicode.IsLetter(r):
			hasDigitOrSymbol = true
		}
	}
	if !hasUpper || !hasDigitOrSymbol {
		return ErrInvalidPassword
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateCountry(country string) error {
	if country == "" {
		return ErrInvalidCountry
	}
	return nil
}

func ValidateDateOfBirth(date string) error {
	if !dateRegex.MatchString(date) {
		return ErrInvalidDate
	}
	return nil
}

func ValidateMessageContent(content string) error {
	if n := utf8.RuneCountInString(content); n < 1 || n > 100 {
		return ErrInvalidContent
	}
	return nil
}
