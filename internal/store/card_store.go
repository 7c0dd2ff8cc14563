package store

import (
	"context"
	"time"

	"bankaccounts/internal/models"
)

type CardStore struct {
	db DB
}

func NewCardStore(db DB) *CardStore {
	return &CardStore{db: db}
}

const cardColumns = `id, user_id, card_number, cvv, pin, holder_name, iban, swift, account_number, balance, currency, card_type, status, expires_at, recipient_at, created_at`

type CardInput struct {
	ID            string
	UserID        string
	CardNumber    string
	CVV           int
	PIN           int
	HolderName    string
	IBAN          string
	SWIFT         string
	AccountNumber string
	Currency      models.Currency
	Type          models.CardType
	Status        models.CardStatus
	ExpiresAt     time.Time
}

func (s *CardStore) Create(ctx context.Context, tx Execer, input CardInput) error {
	query := `
		INSERT INTO cards (id, user_id, card_number, cvv, pin, holder_name, iban, swift, account_number, balance, currency, card_type, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, $13)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.CardNumber, input.CVV, input.PIN, input.HolderName,
		input.IBAN, input.SWIFT, input.AccountNumber, input.Currency, input.Type, input.Status, input.ExpiresAt,
	)
	return err
}

func (s *CardStore) GetByID(ctx context.Context, cardID string) (models.Card, error) {
	var card models.Card
	err := s.db.GetContext(ctx, &card, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, cardID)
	return card, err
}

func (s *CardStore) GetByNumber(ctx context.Context, cardNumber string) (models.Card, error) {
	var card models.Card
	err := s.db.GetContext(ctx, &card, `SELECT `+cardColumns+` FROM cards WHERE card_number = $1`, cardNumber)
	return card, err
}

// GetForUpdate locks the card row for the duration of the surrounding
// transaction.
func (s *CardStore) GetForUpdate(ctx context.Context, tx Getter, cardID string) (models.Card, error) {
	var card models.Card
	err := tx.GetContext(ctx, &card, `SELECT `+cardColumns+` FROM cards WHERE id = $1 FOR UPDATE`, cardID)
	return card, err
}

func (s *CardStore) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	var cards []models.Card
	err := s.db.SelectContext(ctx, &cards, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *CardStore) UpdateBalance(ctx context.Context, tx Execer, cardID string, balance int64, recipientAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE cards
		SET balance = $1, recipient_at = $2
		WHERE id = $3
	`, balance, recipientAt, cardID)
	return err
}

func (s *CardStore) UpdateStatus(ctx context.Context, tx Execer, cardID string, status models.CardStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE cards SET status = $1 WHERE id = $2`, status, cardID)
	return err
}

func (s *CardStore) UpdateType(ctx context.Context, tx Execer, cardID string, cardType models.CardType) error {
	_, err := tx.ExecContext(ctx, `UPDATE cards SET card_type = $1 WHERE id = $2`, cardType, cardID)
	return err
}

func (s *CardStore) Delete(ctx context.Context, tx Execer, cardID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, cardID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
