package models

import "strings"

// Parsers accept the wire spelling case-insensitively and reject anything
// outside the closed sets. Empty input is never valid.

func ParseCurrency(raw string) (Currency, bool) {
	switch Currency(strings.ToUpper(strings.TrimSpace(raw))) {
	case CurrencyUSD:
		return CurrencyUSD, true
	case CurrencyEUR:
		return CurrencyEUR, true
	case CurrencyUAH:
		return CurrencyUAH, true
	case CurrencyCZK:
		return CurrencyCZK, true
	case CurrencyPLN:
		return CurrencyPLN, true
	}
	return "", false
}

func ParseCardType(raw string) (CardType, bool) {
	switch CardType(strings.ToUpper(strings.TrimSpace(raw))) {
	case CardTypeDebit:
		return CardTypeDebit, true
	case CardTypeCredit:
		return CardTypeCredit, true
	case CardTypeVirtual:
		return CardTypeVirtual, true
	}
	return "", false
}

func ParseUserRole(raw string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleModerator:
		return RoleModerator, true
	}
	return "", false
}

func ParseUserStatus(raw string) (UserStatus, bool) {
	switch UserStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case UserStatusDefault:
		return UserStatusDefault, true
	case UserStatusBlocked:
		return UserStatusBlocked, true
	}
	return "", false
}

func ParseVisibility(raw string) (UserVisibility, bool) {
	switch UserVisibility(strings.ToUpper(strings.TrimSpace(raw))) {
	case VisibilityOnline:
		return VisibilityOnline, true
	case VisibilityOffline:
		return VisibilityOffline, true
	}
	return "", false
}
