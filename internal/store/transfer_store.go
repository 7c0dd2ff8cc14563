package store

import (
	"context"

	"bankaccounts/internal/models"
)

type TransferStore struct {
	db DB
}

func NewTransferStore(db DB) *TransferStore {
	return &TransferStore{db: db}
}

type TransferInput struct {
	ID              string
	Reference       string
	FromCardID      string
	ToCardID        string
	Amount          int64
	Currency        models.Currency
	ConvertedAmount int64
}

func (s *TransferStore) Create(ctx context.Context, tx Execer, input TransferInput) error {
	query := `
		INSERT INTO transfers (id, reference, from_card_id, to_card_id, amount, currency, converted_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Reference, input.FromCardID, input.ToCardID,
		input.Amount, input.Currency, input.ConvertedAmount,
	)
	return err
}

func (s *TransferStore) GetByReference(ctx context.Context, reference string) (models.Transfer, error) {
	var transfer models.Transfer
	err := s.db.GetContext(ctx, &transfer, `
		SELECT id, reference, from_card_id, to_card_id, amount, currency, converted_amount, created_at
		FROM transfers
		WHERE reference = $1
	`, reference)
	return transfer, err
}
