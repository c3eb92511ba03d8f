package movements

import (
	"context"
	"strings"
	"time"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context) ([]Movement, error)
}

// Service coordinates ledger operations.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the full ledger, newest first.
func (s *Service) List(ctx context.Context) ([]Movement, error) {
	return s.repo.List(ctx)
}

// Record applies one stock movement: read the variant quantity under lock,
// validate sufficiency for OUT, update the quantity and append the ledger
// row, all in one transaction. Timestamps are always server-stamped so the
// ledger order does not depend on client clocks.
func (s *Service) Record(ctx context.Context, input RecordInput) (Movement, error) {
	movementType, ok := ParseType(input.Type)
	if !ok {
		return Movement{}, ErrInvalidType
	}
	if input.VariantID <= 0 {
		return Movement{}, ErrVariantNotFound
	}
	if input.Quantity <= 0 {
		return Movement{}, ErrInvalidQuantity
	}

	movement := Movement{
		VariantID: input.VariantID,
		Type:      movementType,
		Quantity:  input.Quantity,
		User:      trimOptional(input.User),
		Note:      trimOptional(input.Note),
		Time:      s.now().UTC(),
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		variant, err := tx.GetVariantForUpdate(ctx, input.VariantID)
		if err != nil {
			return err
		}

		newQuantity := variant.Quantity + input.Quantity
		if movementType == TypeOut {
			if input.Quantity > variant.Quantity {
				return ErrInsufficientStock
			}
			newQuantity = variant.Quantity - input.Quantity
		}

		if err := tx.UpdateVariantQuantity(ctx, variant.ID, newQuantity); err != nil {
			return err
		}

		movement.ProductID = variant.ProductID
		name := variant.ProductName
		movement.ProductName = &name
		movement.Variant = variant.Label()

		id, err := tx.InsertMovement(ctx, movement)
		if err != nil {
			return err
		}
		movement.ID = id
		return nil
	})
	if err != nil {
		return Movement{}, err
	}
	return movement, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
