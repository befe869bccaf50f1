package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/utils"
)

// DefaultCatalog is offered until the operator stores products with the
// same ids.
var DefaultCatalog = []models.Product{
	{ID: "phys-1", Name: "Lion's Mane Extract", Price: 29.99, Description: "Premium quality Lion's Mane mushroom extract for cognitive support", Category: "Supplements", Type: models.ProductTypePhysical},
	{ID: "phys-2", Name: "Reishi Capsules", Price: 24.99, Description: "Pure Reishi mushroom capsules for immune system support", Category: "Supplements", Type: models.ProductTypePhysical},
	{ID: "phys-3", Name: "Mushroom Growing Kit", Price: 49.99, Description: "Complete kit to grow your own gourmet mushrooms at home", Category: "Kits", Type: models.ProductTypePhysical},
	{ID: "phys-4", Name: "Cordyceps Powder", Price: 34.99, Description: "Organic Cordyceps mushroom powder for energy and vitality", Category: "Supplements", Type: models.ProductTypePhysical},
	{ID: "digi-1", Name: "Mushroom Identification Guide", Price: 19.99, Description: "Comprehensive digital guide to identifying edible mushrooms", Category: "eBooks", Type: models.ProductTypeDigital},
	{ID: "digi-2", Name: "Holistic Health Course", Price: 79.99, Description: "Complete online course on natural wellness and mushroom medicine", Category: "Courses", Type: models.ProductTypeDigital},
	{ID: "digi-3", Name: "Meditation & Consciousness Pack", Price: 29.99, Description: "Guided meditations and consciousness expansion exercises", Category: "Audio", Type: models.ProductTypeDigital},
}

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

type ProductInput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Type        string  `json:"type" binding:"omitempty,oneof=physical digital"`
	ImageURL    string  `json:"image_url"`
}

type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Type        *string  `json:"type" binding:"omitempty,oneof=physical digital"`
	ImageURL    *string  `json:"image_url"`
}

var errProductNotFound = utils.NotFoundError("Product not found", nil)

func defaultProduct(id string) (models.Product, bool) {
	for _, p := range DefaultCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// List returns stored products followed by the default entries whose ids
// are not stored.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	stored, err := s.products.List(ctx)
	if err != nil {
		return nil, utils.InternalError("Failed to fetch products", err)
	}
	seen := make(map[string]bool, len(stored))
	for _, p := range stored {
		seen[p.ID] = true
	}
	for _, p := range DefaultCatalog {
		if !seen[p.ID] {
			stored = append(stored, p)
		}
	}
	return stored, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{
		ID:          strings.TrimSpace(in.ID),
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Type:        in.Type,
		ImageURL:    in.ImageURL,
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Type == "" {
		product.Type = models.ProductTypePhysical
	}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ConflictError("Product id already exists", nil)
		}
		return nil, utils.InternalError("Failed to create product", err)
	}
	utils.LogInfo("Product %s created", product.ID)
	return product, nil
}

// Update applies patch to a product. Editing a default entry stores it
// first so the edit overrides the default.
func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	fields := repository.Fields{}
	if patch.Name != nil {
		fields[models.ProductFieldName] = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		fields[models.ProductFieldPrice] = *patch.Price
	}
	if patch.Description != nil {
		fields[models.ProductFieldDescription] = *patch.Description
	}
	if patch.Category != nil {
		fields[models.ProductFieldCategory] = *patch.Category
	}
	if patch.Type != nil {
		fields[models.ProductFieldType] = *patch.Type
	}
	if patch.ImageURL != nil {
		fields[models.ProductFieldImageURL] = *patch.ImageURL
	}
	if len(fields) == 0 {
		return nil, utils.InvalidInputError("No fields to update", nil)
	}
	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *ProductService) update(ctx context.Context, id string, fields repository.Fields) error {
	err := s.products.Update(ctx, id, fields)
	if errors.Is(err, repository.ErrNotFound) {
		def, ok := defaultProduct(id)
		if !ok {
			return errProductNotFound
		}
		if err := s.products.Create(ctx, &def); err != nil {
			return utils.InternalError("Failed to update product", err)
		}
		err = s.products.Update(ctx, id, fields)
	}
	if err != nil {
		return utils.InternalError("Failed to update product", err)
	}
	return nil
}

func (s *ProductService) find(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, utils.InternalError("Failed to fetch product", err)
	}
	for _, p := range products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errProductNotFound
}

// SetImage stores an uploaded product image given as a data URL.
func (s *ProductService) SetImage(ctx context.Context, id, dataURL string) error {
	return s.update(ctx, id, repository.Fields{models.ProductFieldImageURL: dataURL})
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errProductNotFound
	}
	if err != nil {
		return utils.InternalError("Failed to delete product", err)
	}
	return nil
}
