package movements

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	variants map[int64]*VariantStock
	ledger   []Movement
	nextID   int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{variants: make(map[int64]*VariantStock)}
}

func (r *memoryRepo) addVariant(v VariantStock) {
	r.variants[v.ID] = &v
}

// WithTx holds the repo mutex for the whole callback, mirroring the row lock
// the SQL repository takes with FOR UPDATE.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) List(ctx context.Context) ([]Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Movement, len(r.ledger))
	copy(out, r.ledger)
	return out, nil
}

func (tx *memoryTx) GetVariantForUpdate(ctx context.Context, variantID int64) (VariantStock, error) {
	if v, ok := tx.repo.variants[variantID]; ok {
		return *v, nil
	}
	return VariantStock{}, ErrVariantNotFound
}

func (tx *memoryTx) UpdateVariantQuantity(ctx context.Context, variantID, quantity int64) error {
	tx.repo.variants[variantID].Quantity = quantity
	return nil
}

func (tx *memoryTx) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	tx.repo.nextID++
	m.ID = tx.repo.nextID
	tx.repo.ledger = append(tx.repo.ledger, m)
	return m.ID, nil
}

func strPtr(s string) *string { return &s }

func TestRecordInAndOut(t *testing.T) {
	repo := newMemoryRepo()
	repo.addVariant(VariantStock{ID: 1, ProductID: 10, ProductName: "Tee", Color: strPtr("Red"), Size: strPtr("M")})
	svc := NewService(repo)
	ctx := context.Background()

	in, err := svc.Record(ctx, RecordInput{VariantID: 1, Type: "in", Quantity: 5, User: strPtr("alice")})
	require.NoError(t, err)
	require.Equal(t, TypeIn, in.Type)
	require.Equal(t, int64(10), in.ProductID)
	require.Equal(t, "Tee", *in.ProductName)
	require.Equal(t, "Red / M", in.Variant)
	require.EqualValues(t, 5, repo.variants[1].Quantity)

	out, err := svc.Record(ctx, RecordInput{VariantID: 1, Type: "OUT", Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, TypeOut, out.Type)
	require.EqualValues(t, 2, repo.variants[1].Quantity)

	ledger, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
}

func TestRecordInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addVariant(VariantStock{ID: 1, ProductID: 10, ProductName: "Tee", Quantity: 2})
	svc := NewService(repo)

	_, err := svc.Record(context.Background(), RecordInput{VariantID: 1, Type: "OUT", Quantity: 3})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.EqualValues(t, 2, repo.variants[1].Quantity)
	require.Empty(t, repo.ledger)
}

func TestRecordValidation(t *testing.T) {
	repo := newMemoryRepo()
	repo.addVariant(VariantStock{ID: 1, ProductID: 10, ProductName: "Tee", Quantity: 2})
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{VariantID: 1, Type: "TRANSFER", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Record(ctx, RecordInput{VariantID: 1, Type: "", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Record(ctx, RecordInput{VariantID: 1, Type: "IN", Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Record(ctx, RecordInput{VariantID: 99, Type: "IN", Quantity: 1})
	require.ErrorIs(t, err, ErrVariantNotFound)
}

func TestRecordServerTimestamps(t *testing.T) {
	repo := newMemoryRepo()
	repo.addVariant(VariantStock{ID: 1, ProductID: 10, ProductName: "Tee"})
	svc := NewService(repo)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	svc.now = func() time.Time { return fixed }

	m, err := svc.Record(context.Background(), RecordInput{VariantID: 1, Type: "IN", Quantity: 1})
	require.NoError(t, err)
	require.Equal(t, fixed.UTC(), m.Time)
	require.Equal(t, time.UTC, m.Time.Location())
}

func TestConcurrentOutbound(t *testing.T) {
	repo := newMemoryRepo()
	repo.addVariant(VariantStock{ID: 1, ProductID: 10, ProductName: "Tee", Quantity: 10})
	svc := NewService(repo)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Record(context.Background(), RecordInput{VariantID: 1, Type: "OUT", Quantity: 6})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failed int
	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, ErrInsufficientStock)
			failed++
		}
	}
	require.Equal(t, 1, failed)
	require.EqualValues(t, 4, repo.variants[1].Quantity)
	require.Len(t, repo.ledger, 1)
}

func TestVariantLabel(t *testing.T) {
	require.Equal(t, "Red / M", VariantStock{Color: strPtr("Red"), Size: strPtr("M")}.Label())
	require.Equal(t, "Red", VariantStock{Color: strPtr("Red")}.Label())
	require.Equal(t, "M", VariantStock{Size: strPtr("M")}.Label())
	require.Equal(t, "", VariantStock{}.Label())
}
