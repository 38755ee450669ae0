package shop

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/gocql/gocql"

	"boutique/internal/models"
)

const PageSize = 6

// maxPage keeps page offsets from overflowing.
const maxPage = math.MaxInt/PageSize - 1

// Page is one window of the catalog plus the links a pager needs.
type Page struct {
	Products        []models.Product `json:"prods"`
	TotalProducts   int              `json:"totalProducts"`
	CurrentPage     int              `json:"currentPage"`
	HasNextPage     bool             `json:"hasNextPage"`
	HasPreviousPage bool             `json:"hasPreviousPage"`
	NextPage        int              `json:"nextPage"`
	PreviousPage    int              `json:"previousPage"`
	LastPage        int              `json:"lastPage"`
}

// ParsePage reads the ?page= value. Anything that is not a positive integer means page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxPage)
}

func (s *Service) CatalogPage(ctx context.Context, page int) (Page, error) {
	page = min(max(page, 1), maxPage)
	total, err := s.products.CountProducts(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("count products: %w", err)
	}
	lastPage := (total + PageSize - 1) / PageSize

	prods := []models.Product{}
	if page <= lastPage {
		prods, err = s.products.ListProducts(ctx, (page-1)*PageSize, PageSize)
		if err != nil {
			return Page{}, fmt.Errorf("list products: %w", err)
		}
		if prods == nil {
			prods = []models.Product{}
		}
	}
	return Page{
		Products:        prods,
		TotalProducts:   total,
		CurrentPage:     page,
		HasNextPage:     page < lastPage,
		HasPreviousPage: page > 1,
		NextPage:        page + 1,
		PreviousPage:    page - 1,
		LastPage:        lastPage,
	}, nil
}

func (s *Service) Product(ctx context.Context, id gocql.UUID) (models.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string) ([]models.Product, error) {
	return s.index.Search(ctx, query)
}
