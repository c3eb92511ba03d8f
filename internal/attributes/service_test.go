package attributes

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stocklet/stocklet/internal/platform/cache"
)

type mockRepo struct {
	rows      map[int64]Attribute
	nextID    int64
	listCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[int64]Attribute)}
}

func (r *mockRepo) List(ctx context.Context, filter ListFilter) ([]Attribute, error) {
	r.listCalls++
	out := []Attribute{}
	for _, a := range r.rows {
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.OnlyActive && !a.Active() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *mockRepo) Get(ctx context.Context, id int64) (Attribute, error) {
	if a, ok := r.rows[id]; ok {
		return a, nil
	}
	return Attribute{}, ErrNotFound
}

func (r *mockRepo) Create(ctx context.Context, attr Attribute) (Attribute, error) {
	for _, existing := range r.rows {
		if existing.Type == attr.Type && existing.Name == attr.Name {
			return Attribute{}, ErrDuplicate
		}
	}
	r.nextID++
	attr.ID = r.nextID
	r.rows[attr.ID] = attr
	return attr, nil
}

func (r *mockRepo) Update(ctx context.Context, attr Attribute) error {
	if _, ok := r.rows[attr.ID]; !ok {
		return ErrNotFound
	}
	r.rows[attr.ID] = attr
	return nil
}

func (r *mockRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, cache.NewCache(client, "stocklet-test", time.Minute))
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizes(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	attr, err := svc.Create(ctx, CreateInput{Type: TypeColor, Name: "  Crimson  ", ColorCode: strPtr(" #dc143c ")})
	require.NoError(t, err)
	require.Equal(t, "Crimson", attr.Name)
	require.Equal(t, "#dc143c", *attr.ColorCode)
	require.EqualValues(t, 1, attr.Status)

	_, err = svc.Create(ctx, CreateInput{Type: "material", Name: "Cotton"})
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Create(ctx, CreateInput{Type: TypeSize, Name: "   "})
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Create(ctx, CreateInput{Type: TypeColor, Name: "Crimson"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateStatusTokens(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	cases := []struct {
		name  string
		token any
		want  int16
	}{
		{"nil defaults active", nil, 1},
		{"bool false", false, 0},
		{"string zero", "0", 0},
		{"string false", "false", 0},
		{"json number zero", float64(0), 0},
		{"json number one", float64(1), 1},
		{"arbitrary string", "yes", 1},
	}
	for i, tc := range cases {
		attr, err := svc.Create(ctx, CreateInput{Type: TypeSize, Name: tc.name, Status: tc.token})
		require.NoError(t, err, "case %d", i)
		require.Equal(t, tc.want, attr.Status, tc.name)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	attr, err := svc.Create(ctx, CreateInput{Type: TypeColor, Name: "Navy", ColorCode: strPtr("#000080")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, attr.ID, UpdateInput{Status: false})
	require.NoError(t, err)
	require.Equal(t, "Navy", updated.Name)
	require.Equal(t, "#000080", *updated.ColorCode)
	require.EqualValues(t, 0, updated.Status)

	updated, err = svc.Update(ctx, attr.ID, UpdateInput{Name: strPtr(" Midnight ")})
	require.NoError(t, err)
	require.Equal(t, "Midnight", updated.Name)
	require.EqualValues(t, 0, updated.Status)

	_, err = svc.Update(ctx, attr.ID, UpdateInput{Name: strPtr("  ")})
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.Update(ctx, 999, UpdateInput{Name: strPtr("Ghost")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	attr, err := svc.Create(ctx, CreateInput{Type: TypeCategory, Name: "Outerwear"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, attr.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = svc.Delete(ctx, attr.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListCachesAndInvalidates(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Type: TypeColor, Name: "Red"})
	require.NoError(t, err)

	first, err := svc.List(ctx, TypeColor, false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	calls := repo.listCalls

	second, err := svc.List(ctx, TypeColor, false)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, calls, repo.listCalls, "second list should hit the cache")

	// a write bumps the version, so the next list reloads
	_, err = svc.Create(ctx, CreateInput{Type: TypeColor, Name: "Blue"})
	require.NoError(t, err)

	third, err := svc.List(ctx, TypeColor, false)
	require.NoError(t, err)
	require.Len(t, third, 2)
	require.Greater(t, repo.listCalls, calls)
}

func TestListFilters(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil) // nil cache falls through to the repo

	ctx := context.Background()
	_, err := svc.Create(ctx, CreateInput{Type: TypeColor, Name: "Red"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Type: TypeSize, Name: "M", Status: "0"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	sizes, err := svc.List(ctx, TypeSize, false)
	require.NoError(t, err)
	require.Len(t, sizes, 1)

	active, err := svc.List(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Red", active[0].Name)

	// unknown type filter is ignored, not rejected
	ignored, err := svc.List(ctx, "material", false)
	require.NoError(t, err)
	require.Len(t, ignored, 2)
}
