package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ProductInput carries the scalar fields of a create/update request.
type ProductInput struct {
	Name     string
	Cost     *int64
	Note     *string
	Category *string
	Variants []VariantInput
}

// Service coordinates catalog operations.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all products newest-first with their variants attached.
// Products and variants are fetched concurrently and joined in memory.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var (
		products []Product
		variants []Variant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.repo.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		variants, err = s.repo.ListVariants(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byProduct := make(map[int64][]Variant, len(products))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for i := range products {
		vs := byProduct[products[i].ID]
		if vs == nil {
			vs = []Variant{}
		}
		products[i].Variants = vs
	}
	return products, nil
}

// Create inserts a product with a freshly generated code and its variant
// batch in one transaction.
func (s *Service) Create(ctx context.Context, input ProductInput) (Product, error) {
	product, variants, err := normalize(input)
	if err != nil {
		return Product{}, err
	}
	product.Code = uuid.NewString()
	return s.repo.Create(ctx, product, variants)
}

// Update replaces the product's scalar fields. A non-empty variant list
// replaces the whole variant set; an empty one leaves variants untouched.
func (s *Service) Update(ctx context.Context, code string, input ProductInput) error {
	product, variants, err := normalize(input)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, code, product, variants, len(variants) > 0)
}

// Delete removes the product, its variants and every movement referencing it.
func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.Delete(ctx, code)
}

func normalize(input ProductInput) (Product, []Variant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Product{}, nil, ErrEmptyName
	}
	product := Product{
		Name:     name,
		Cost:     input.Cost,
		Note:     trimOptional(input.Note),
		Category: trimOptional(input.Category),
	}
	variants := make([]Variant, 0, len(input.Variants))
	for _, v := range input.Variants {
		variant := Variant{
			Color: trimOptional(v.Color),
			Size:  trimOptional(v.Size),
			Img:   trimOptional(v.Img),
		}
		if v.Quantity != nil && *v.Quantity > 0 {
			variant.Quantity = *v.Quantity
		}
		variants = append(variants, variant)
	}
	return product, variants, nil
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
