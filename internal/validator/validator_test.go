package validator

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	for _, name := range []string{"Al", "Alexandria"} {
		if err := ValidateName(name); err != nil {
			t.Fatalf("%q should be valid: %v", name, err)
		}
	}
	for _, name := range []string{"", "A", "Alexandriaa"} {
		if err := ValidateName(name); err == nil {
			t.Fatalf("%q should be rejected", name)
		}
	}
}

func TestValidateSurname(t *testing.T) {
	if err := ValidateSurname(strings.Repeat("a", 15)); err != nil {
		t.Fatalf("15 chars should be valid: %v", err)
	}
	for _, surname := range []string{"a", strings.Repeat("a", 16)} {
		if err := ValidateSurname(surname); err == nil {
			t.Fatalf("%q should be rejected", surname)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"alice@example.com", "Bob.Smith+tag@mail.co", "x_1%@a-b.de"} {
		if err := ValidateEmail(email); err != nil {
			t.Fatalf("%q should be valid: %v", email, err)
		}
	}
	for _, email := range []string{"", "alice", "alice@", "alice@example", "alice@example.info2", "a b@example.com"} {
		if err := ValidateEmail(email); err == nil {
			t.Fatalf("%q should be rejected", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	for _, password := range []string{"Password1", "Secret!pass", "ABCdefgh9"} {
		if err := ValidatePassword(password); err != nil {
			t.Fatalf("%q should be valid: %v", password, err)
		}
	}
	for _, password := range []string{
		"short1A",                  // too short
		strings.Repeat("Aa1", 7),  // 21 chars
		"alllowercase1",           // no uppercase
		"NoDigitsOrSymbols",       // no digit or symbol
	} {
		if err := ValidatePassword(password); err == nil {
			t.Fatalf("%q should be rejected", password)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	for _, phone := range []string{"+420123456789", "123456789", "+1234567890123"} {
		if err := ValidatePhone(phone); err != nil {
			t.Fatalf("%q should be valid: %v", phone, err)
		}
	}
	for _, phone := range []string{"", "12345", "phone", "+4201234567890123456"} {
		if err := ValidatePhone(phone); err == nil {
			t.Fatalf("%q should be rejected", phone)
		}
	}
}

func TestValidateDateOfBirth(t *testing.T) {
	if err := ValidateDateOfBirth("1990-01-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, date := range []string{"", "1990/01/31", "31-01-1990", "1990-1-1"} {
		if err := ValidateDateOfBirth(date); err == nil {
			t.Fatalf("%q should be rejected", date)
		}
	}
}

func TestValidateMessageContent(t *testing.T) {
	if err := ValidateMessageContent("x"); err != nil {
		t.Fatalf("single char should be valid: %v", err)
	}
	if err := ValidateMessageContent(strings.Repeat("x", 100)); err != nil {
		t.Fatalf("100 chars should be valid: %v", err)
	}
	if err := ValidateMessageContent(""); err == nil {
		t.Fatal("empty content should be rejected")
	}
	if err := ValidateMessageContent(strings.Repeat("x", 101)); err == nil {
		t.Fatal("101 chars should be rejected")
	}
}
