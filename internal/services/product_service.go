package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"vitrine/internal/apperrors"
	"vitrine/internal/models"
	"vitrine/internal/repositories"
	"vitrine/pkg/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	productUploadFolder = "products"
	defaultRelatedLimit = 4
)

// VariantInput is a variant as supplied by the caller.
type VariantInput struct {
	Name     *string `json:"name"`
	Color    string  `json:"color" validate:"required"`
	Quantity int     `json:"quantity" validate:"min=0"`
}

// CreateProductInput holds the fields accepted when creating a product.
type CreateProductInput struct {
	Title         string                 `json:"title" validate:"required"`
	Description   string                 `json:"description"`
	Price         decimal.Decimal        `json:"price" validate:"gt=0"`
	DiscountPrice *decimal.Decimal       `json:"discount_price" validate:"omitempty,gt=0"`
	Specs         map[string]interface{} `json:"specs"`
	BrandID       *string                `json:"brand_id"`
	IsActive      *bool                  `json:"is_active"`
	Variants      []VariantInput         `json:"variants" validate:"dive"`
	CategoryIDs   []string               `json:"category_ids"`
	ImageURLs     []string               `json:"image_urls" validate:"dive,required"`
}

// UpdateProductInput holds the fields accepted when updating a product. A nil
// field is left untouched. A non-nil collection, even empty, replaces the stored set.
type UpdateProductInput struct {
	Title         *string                `json:"title" validate:"omitempty,min=1"`
	Description   *string                `json:"description"`
	Price         *decimal.Decimal       `json:"price" validate:"omitempty,gt=0"`
	DiscountPrice *decimal.Decimal       `json:"discount_price" validate:"omitempty,gt=0"`
	Specs         map[string]interface{} `json:"specs"`
	BrandID       *string                `json:"brand_id"`
	IsActive      *bool                  `json:"is_active"`
	Variants      *[]VariantInput        `json:"variants" validate:"omitempty,dive"`
	CategoryIDs   *[]string              `json:"category_ids"`
	ImageURLs     *[]string              `json:"image_urls" validate:"omitempty,dive,required"`
}

// PublicProductQuery filters the storefront listing.
type PublicProductQuery struct {
	Skip     int
	Take     int
	Category string
	Search   string
}

// PageMeta describes a paginated result.
type PageMeta struct {
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Take  int   `json:"take"`
}

// ProductPage is one page of the storefront listing.
type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// ProductService handles business logic related to the product aggregate.
type ProductService struct {
	repo       repositories.ProductRepository
	brands     repositories.BrandRepository
	categories repositories.CategoryRepository
	files      FileStorage
	logger     *logrus.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	repo repositories.ProductRepository,
	brands repositories.BrandRepository,
	categories repositories.CategoryRepository,
	files FileStorage,
	logger *logrus.Logger,
) *ProductService {
	return &ProductService{
		repo:       repo,
		brands:     brands,
		categories: categories,
		files:      files,
		logger:     logger,
	}
}

// Create stores a product with its variants, category links and images.
// Images are the supplied URLs followed by the uploaded files, in that order.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	if err := checkImageURLs(input.ImageURLs); err != nil {
		return nil, err
	}
	input.BrandID = normalizeID(input.BrandID)
	categoryIDs := dedupe(input.CategoryIDs)
	if err := s.checkReferences(ctx, input.BrandID, categoryIDs); err != nil {
		return nil, err
	}

	uploaded, err := uploadFiles(ctx, s.files, s.logger, files, productUploadFolder)
	if err != nil {
		return nil, productRes.failed("create", err)
	}

	product := &models.Product{
		Title:         input.Title,
		Description:   input.Description,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Specs:         input.Specs,
		BrandID:       input.BrandID,
		IsActive:      input.IsActive == nil || *input.IsActive,
		Variants:      toVariants(input.Variants),
		Categories:    make([]models.ProductCategory, 0, len(categoryIDs)),
		Images:        make([]models.ProductImage, 0, len(input.ImageURLs)+len(uploaded)),
	}
	for _, id := range categoryIDs {
		product.Categories = append(product.Categories, models.ProductCategory{CategoryID: id})
	}
	for _, url := range append(append([]string{}, input.ImageURLs...), uploaded...) {
		product.Images = append(product.Images, models.ProductImage{URL: url})
	}

	if err := s.repo.Create(ctx, product); err != nil {
		removeFiles(context.WithoutCancel(ctx), s.files, s.logger, uploaded)
		return nil, s.writeError(err, "", "create")
	}

	s.logger.WithField("product_id", product.ID).Info("product created")
	return s.FindOne(ctx, product.ID)
}

// Update reconciles the product aggregate with input. Scalars and collections
// absent from input are left untouched. Images are replaced when image URLs are
// supplied or files are uploaded; files no longer referenced are deleted only
// after the database transaction committed.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, productRes.failed("update", err)
	}
	if !exists {
		return nil, productRes.notFound(id)
	}

	if input.ImageURLs != nil {
		if err := checkImageURLs(*input.ImageURLs); err != nil {
			return nil, err
		}
	}
	input.BrandID = normalizeID(input.BrandID)
	var categoryIDs *[]string
	if input.CategoryIDs != nil {
		ids := dedupe(*input.CategoryIDs)
		categoryIDs = &ids
	}
	var refIDs []string
	if categoryIDs != nil {
		refIDs = *categoryIDs
	}
	if err := s.checkReferences(ctx, input.BrandID, refIDs); err != nil {
		return nil, err
	}

	uploaded, err := uploadFiles(ctx, s.files, s.logger, files, productUploadFolder)
	if err != nil {
		return nil, productRes.failed("update", err)
	}

	update := &repositories.ProductUpdate{
		Fields:      make(map[string]interface{}),
		CategoryIDs: categoryIDs,
	}
	setIf(update.Fields, "title", input.Title)
	setIf(update.Fields, "description", input.Description)
	setIf(update.Fields, "price", input.Price)
	setIf(update.Fields, "discount_price", input.DiscountPrice)
	setIf(update.Fields, "brand_id", input.BrandID)
	setIf(update.Fields, "is_active", input.IsActive)
	if input.Specs != nil {
		update.Fields["specs"] = datatypes.JSONMap(input.Specs)
	}
	if input.Variants != nil {
		variants := toVariants(*input.Variants)
		update.Variants = &variants
	}

	var nextImages []string
	if input.ImageURLs != nil || len(uploaded) > 0 {
		if input.ImageURLs != nil {
			nextImages = append(nextImages, *input.ImageURLs...)
		}
		nextImages = append(nextImages, uploaded...)
		if nextImages == nil {
			nextImages = []string{}
		}
		update.ImageURLs = &nextImages
	}

	previous, err := s.repo.ApplyUpdate(ctx, id, update)
	if err != nil {
		removeFiles(context.WithoutCancel(ctx), s.files, s.logger, uploaded)
		return nil, s.writeError(err, id, "update")
	}

	s.releaseImages(ctx, id, orphanedImages(previous, nextImages))

	return s.FindOne(ctx, id)
}

// Remove deletes the product and its owned rows and returns it as it was.
// Stored image files are deleted once the rows are gone.
func (s *ProductService) Remove(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, productRes.fromStore(err, id, "delete")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, productRes.fromStore(err, id, "delete")
	}

	s.releaseImages(ctx, id, product.ImageURLs())
	s.logger.WithField("product_id", id).Info("product deleted")
	return product, nil
}

// FindOne returns the product aggregate.
func (s *ProductService) FindOne(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, productRes.fromStore(err, id, "find")
	}
	return product, nil
}

// FindAll lists every product, newest first.
func (s *ProductService) FindAll(ctx context.Context, skip, take int) ([]models.Product, error) {
	products, _, err := s.repo.List(ctx, repositories.ProductFilter{}, skip, take)
	if err != nil {
		return nil, productRes.failed("list", err)
	}
	return products, nil
}

// FindAllPublic lists active products for the storefront.
func (s *ProductService) FindAllPublic(ctx context.Context, query PublicProductQuery) (*ProductPage, error) {
	filter := repositories.ProductFilter{
		ActiveOnly:   true,
		CategoryName: query.Category,
		Search:       query.Search,
	}
	products, total, err := s.repo.List(ctx, filter, query.Skip, query.Take)
	if err != nil {
		return nil, productRes.failed("list", err)
	}
	return &ProductPage{
		Data: products,
		Meta: PageMeta{Total: total, Skip: query.Skip, Take: query.Take},
	}, nil
}

// FindRelated returns up to limit active products sharing a category with id.
func (s *ProductService) FindRelated(ctx context.Context, id string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, productRes.failed("find", err)
	}
	if !exists {
		return nil, productRes.notFound(id)
	}

	categoryIDs, err := s.repo.CategoryIDs(ctx, id)
	if err != nil {
		return nil, productRes.failed("find", err)
	}
	if len(categoryIDs) == 0 {
		return []models.Product{}, nil
	}

	related, err := s.repo.ListRelated(ctx, id, categoryIDs, limit)
	if err != nil {
		return nil, productRes.failed("find", err)
	}
	return related, nil
}

// checkReferences makes sure the brand and every category exist.
func (s *ProductService) checkReferences(ctx context.Context, brandID *string, categoryIDs []string) error {
	if brandID != nil {
		ok, err := s.brands.Exists(ctx, *brandID)
		if err != nil {
			return brandRes.failed("find", err)
		}
		if !ok {
			return brandRes.notFound(*brandID)
		}
	}

	if len(categoryIDs) == 0 {
		return nil
	}
	found, err := s.categories.ExistingIDs(ctx, categoryIDs)
	if err != nil {
		return categoryRes.failed("find", err)
	}
	known := make(map[string]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	for _, id := range categoryIDs {
		if _, ok := known[id]; !ok {
			return categoryRes.notFound(id)
		}
	}
	return nil
}

// writeError classifies a failed create or update. A foreign key violation
// means a brand or category vanished after it was checked.
func (s *ProductService) writeError(err error, id, op string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return productRes.notFound(id)
	case errors.Is(err, repositories.ErrForeignKey):
		return apperrors.NotFound("PRODUCT_REFERENCE_NOT_FOUND", "Referenced brand or category not found")
	default:
		s.logger.WithError(err).WithField("product_id", id).Errorf("failed to %s product", op)
		return productRes.failed(op, err)
	}
}

// releaseImages deletes the stored files among urls that no product image
// references any more. Files are kept when the reference check fails.
func (s *ProductService) releaseImages(ctx context.Context, productID string, urls []string) {
	var stored []string
	for _, url := range urls {
		if url != "" && !storage.IsExternal(url) {
			stored = append(stored, url)
		}
	}
	if len(stored) == 0 {
		return
	}

	unused, err := s.repo.UnreferencedURLs(ctx, stored)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("kept product images, reference check failed")
		return
	}
	if len(unused) == 0 {
		return
	}
	removeFiles(ctx, s.files, s.logger, unused)
	s.logger.WithFields(logrus.Fields{"product_id": productID, "files": len(unused)}).Info("orphaned product images deleted")
}

// checkImageURLs accepts external URLs and paths of files uploaded for products.
func checkImageURLs(urls []string) error {
	invalid := make(map[string]string)
	for i, url := range urls {
		if storage.IsExternal(url) || storage.InFolder(url, productUploadFolder) {
			continue
		}
		field := fmt.Sprintf("image_urls[%d]", i)
		invalid[field] = fmt.Sprintf("Field '%s' must be an http(s) URL or an uploaded product image", field)
	}
	if len(invalid) > 0 {
		return apperrors.Validation("Validation failed", invalid)
	}
	return nil
}

func toVariants(inputs []VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, v := range inputs {
		variant := models.ProductVariant{Color: v.Color, Quantity: v.Quantity}
		if v.Name != nil && *v.Name != "" {
			variant.Name = v.Name
		}
		variants = append(variants, variant)
	}
	return variants
}

// orphanedImages returns the URLs of previous that are absent from next.
func orphanedImages(previous, next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, url := range next {
		keep[url] = struct{}{}
	}
	var orphans []string
	for _, url := range previous {
		if _, ok := keep[url]; !ok {
			orphans = append(orphans, url)
		}
	}
	return orphans
}

// normalizeID treats a blank or "null" id as absent.
func normalizeID(id *string) *string {
	if id == nil || *id == "" || *id == "null" {
		return nil
	}
	return id
}

// dedupe drops empty and repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
