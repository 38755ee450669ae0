package shop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/gocql/gocql"

	"boutique/internal/authz"
	"boutique/internal/models"
	"boutique/internal/storage"
)

const msgNotImage = "Attached file is not an image."

func (s *Service) OwnerProducts(ctx context.Context, ownerID gocql.UUID) ([]models.Product, error) {
	prods, err := s.products.ListProductsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list products of %s: %w", ownerID, err)
	}
	if prods == nil {
		prods = []models.Product{}
	}
	return prods, nil
}

// CreateProduct stores image and creates a product owned by ownerID.
func (s *Service) CreateProduct(ctx context.Context, ownerID gocql.UUID, in ProductInput, image *multipart.FileHeader) (models.Product, error) {
	if image == nil {
		return models.Product{}, invalid("image", "", msgNotImage)
	}
	if err := in.Validate(); err != nil {
		return models.Product{}, err
	}

	url, err := storage.SaveUpload(ctx, s.images, image)
	if errors.Is(err, storage.ErrNotImage) {
		return models.Product{}, invalid("image", image.Filename, msgNotImage)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("store image: %w", err)
	}

	p := models.Product{
		Title:       in.Title,
		Price:       in.Amount(),
		Description: in.Description,
		ImageURL:    url,
		UserID:      ownerID,
	}
	if err := s.products.CreateProduct(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.reindex(ctx, p)
	log.Printf("✅ Product %s created by %s", p.ID, ownerID)
	return p, nil
}

// EditableProduct loads a product for its owner's edit form.
func (s *Service) EditableProduct(ctx context.Context, actor, id gocql.UUID) (models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !authz.Allow(actor, p) {
		return models.Product{}, ErrForbidden
	}
	return p, nil
}

// UpdateProduct replaces the editable fields of a product owned by actor. A nil image keeps the
// current one; a new image replaces it and the old file is removed.
// On validation failure the current product is returned along with the error.
func (s *Service) UpdateProduct(ctx context.Context, actor, id gocql.UUID, in ProductInput, image *multipart.FileHeader) (models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if err := in.Validate(); err != nil {
		return p, err
	}
	if !authz.Allow(actor, p) {
		return p, ErrForbidden
	}

	current := p
	if image != nil {
		url, err := storage.SaveUpload(ctx, s.images, image)
		if errors.Is(err, storage.ErrNotImage) {
			return p, invalid("image", image.Filename, msgNotImage)
		}
		if err != nil {
			return p, fmt.Errorf("store image: %w", err)
		}
		p.ImageURL = url
	}

	p.Title = in.Title
	p.Price = in.Amount()
	p.Description = in.Description
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		// the stored product still points at the old image
		if p.ImageURL != current.ImageURL {
			s.deleteImage(ctx, p.ImageURL)
		}
		return current, fmt.Errorf("update product %s: %w", id, err)
	}
	if p.ImageURL != current.ImageURL {
		s.deleteImage(ctx, current.ImageURL)
	}
	s.reindex(ctx, p)
	return p, nil
}

// DeleteProduct removes a product and its image when actor owns it. It reports whether
// anything was deleted; a non-owner gets false and no error.
func (s *Service) DeleteProduct(ctx context.Context, actor, id gocql.UUID) (bool, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return false, err
	}
	if !authz.Allow(actor, p) {
		log.Printf("⚠️ user %s tried to delete product %s owned by %s", actor, id, p.UserID)
		return false, nil
	}

	s.deleteImage(ctx, p.ImageURL)
	deleted, err := s.products.DeleteProduct(ctx, id, actor)
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", id, err)
	}
	if deleted {
		if err := s.index.DeleteProduct(ctx, id); err != nil {
			log.Printf("⚠️ could not unindex product %s: %v", id, err)
		}
	}
	return deleted, nil
}

func (s *Service) reindex(ctx context.Context, p models.Product) {
	if err := s.index.IndexProduct(ctx, p); err != nil {
		log.Printf("⚠️ could not index product %s: %v", p.ID, err)
	}
}

func (s *Service) deleteImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := storage.DeleteURL(ctx, s.images, url); err != nil {
		log.Printf("⚠️ could not delete image %s: %v", url, err)
	}
}
