package models

import "time"

type UserRole string

const (
	RoleUser      UserRole = "USER"
	RoleAdmin     UserRole = "ADMIN"
	RoleModerator UserRole = "MODERATOR"
)

type UserStatus string

const (
	UserStatusDefault UserStatus = "DEFAULT"
	UserStatusBlocked UserStatus = "BLOCKED"
)

type UserVisibility string

const (
	VisibilityOnline  UserVisibility = "ONLINE"
	VisibilityOffline UserVisibility = "OFFLINE"
)

type CardStatus string

const (
	CardStatusDefault   CardStatus = "DEFAULT"
	CardStatusBlocked   CardStatus = "BLOCKED"
	CardStatusUnblocked CardStatus = "UNBLOCKED"
)

type CardType string

const (
	CardTypeDebit   CardType = "DEBIT"
	CardTypeCredit  CardType = "CREDIT"
	CardTypeVirtual CardType = "VIRTUAL"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyUAH Currency = "UAH"
	CurrencyCZK Currency = "CZK"
	CurrencyPLN Currency = "PLN"
)

// SupportedCurrencies is the closed set served by the rate table.
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyUAH, CurrencyCZK, CurrencyPLN}

type User struct {
	ID           string         `db:"id" json:"id"`
	Role         UserRole       `db:"role" json:"role"`
	Status       UserStatus     `db:"status" json:"status"`
	Visibility   UserVisibility `db:"visibility" json:"visibility"`
	Name         string         `db:"name" json:"name"`
	Surname      string         `db:"surname" json:"surname"`
	DateOfBirth  string         `db:"date_of_birth" json:"date_of_birth"`
	Country      string         `db:"country_of_origin" json:"country_of_origin"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Avatar       string         `db:"avatar" json:"avatar"`
	PhoneNumber  string         `db:"phone_number" json:"phone_number"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

type Card struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	CardNumber    string     `db:"card_number" json:"card_number"`
	CVV           int        `db:"cvv" json:"-"`
	PIN           int        `db:"pin" json:"-"`
	HolderName    string     `db:"holder_name" json:"holder_name"`
	IBAN          string     `db:"iban" json:"iban"`
	SWIFT         string     `db:"swift" json:"swift"`
	AccountNumber string     `db:"account_number" json:"account_number"`
	Balance       int64      `db:"balance" json:"balance"`
	Currency      Currency   `db:"currency" json:"currency"`
	Type          CardType   `db:"card_type" json:"card_type"`
	Status        CardStatus `db:"status" json:"status"`
	ExpiresAt     time.Time  `db:"expires_at" json:"expires_at"`
	RecipientAt   *time.Time `db:"recipient_at" json:"recipient_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Expired reports whether the card is past its expiration date. Balance
// operations and status transitions are rejected once this is true.
func (c Card) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type CurrencyRate struct {
	Currency  Currency  `db:"currency" json:"currency"`
	Rate      string    `db:"rate" json:"rate"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Message struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

type Transfer struct {
	ID              string    `db:"id" json:"id"`
	Reference       string    `db:"reference" json:"reference"`
	FromCardID      string    `db:"from_card_id" json:"from_card_id"`
	ToCardID        string    `db:"to_card_id" json:"to_card_id"`
	Amount          int64     `db:"amount" json:"amount"`
	Currency        Currency  `db:"currency" json:"currency"`
	ConvertedAmount int64     `db:"converted_amount" json:"converted_amount"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
