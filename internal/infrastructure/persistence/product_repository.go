package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/catalog"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/retaildash/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM.
// Reads join each base row with the detail table of its category.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID together with its details
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	details, err := r.loadDetails(ctx, catalog.Category(model.Category), []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(details[model.ID])
}

// FindAll finds all products matching the filter together with their details
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.ProductModel{}), filter)
	query = paginate(query, filter, ProductSortFields)

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}

	idsByCategory := make(map[catalog.Category][]uuid.UUID)
	for _, m := range productModels {
		c := catalog.Category(m.Category)
		idsByCategory[c] = append(idsByCategory[c], m.ID)
	}
	details := make(map[uuid.UUID]catalog.Details, len(productModels))
	for c, ids := range idsByCategory {
		found, err := r.loadDetails(ctx, c, ids)
		if err != nil {
			return nil, err
		}
		for id, d := range found {
			details[id] = d
		}
	}

	products := make([]catalog.Product, len(productModels))
	for i, m := range productModels {
		p, err := m.ToDomain(details[m.ID])
		if err != nil {
			return nil, err
		}
		products[i] = *p
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(conn(ctx, r.db).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the base row
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err, "product")
	}
	return nil
}

// Update persists the base row
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	result := conn(ctx, r.db).
		Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "stock", "status", "updated_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes the product and its detail row. Products referenced by
// order items cannot be deleted.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var affected int64
	err := inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		for _, c := range catalog.AllCategories() {
			if err := tx.Where("product_id = ?", id).Delete(models.NewDetailsModel(c)).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return translateError(err, "product")
	}
	if affected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveDetails inserts or replaces the detail row of the product's category
func (r *GormProductRepository) SaveDetails(ctx context.Context, productID uuid.UUID, details catalog.Details) error {
	model := models.DetailsModelFromDomain(productID, details)
	if model == nil {
		return shared.NewDomainError("INVALID_DETAILS", "Unknown product details")
	}
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// DeleteDetails removes the detail row of the given category
func (r *GormProductRepository) DeleteDetails(ctx context.Context, productID uuid.UUID, category catalog.Category) error {
	model := models.NewDetailsModel(category)
	if model == nil {
		return shared.NewDomainErrorf("INVALID_CATEGORY", "Unknown category %q", category)
	}
	return conn(ctx, r.db).Where("product_id = ?", productID).Delete(model).Error
}

func (r *GormProductRepository) loadDetails(ctx context.Context, c catalog.Category, ids []uuid.UUID) (map[uuid.UUID]catalog.Details, error) {
	var rows []models.DetailsModel
	switch c {
	case catalog.CategoryIPhone:
		var found []models.IPhoneDetailsModel
		if err := conn(ctx, r.db).Where("product_id IN ?", ids).Find(&found).Error; err != nil {
			return nil, err
		}
		for _, m := range found {
			rows = append(rows, m)
		}
	case catalog.CategoryCharger:
		var found []models.ChargerDetailsModel
		if err := conn(ctx, r.db).Where("product_id IN ?", ids).Find(&found).Error; err != nil {
			return nil, err
		}
		for _, m := range found {
			rows = append(rows, m)
		}
	case catalog.CategoryCable:
		var found []models.CableDetailsModel
		if err := conn(ctx, r.db).Where("product_id IN ?", ids).Find(&found).Error; err != nil {
			return nil, err
		}
		for _, m := range found {
			rows = append(rows, m)
		}
	case catalog.CategoryAirPod:
		var found []models.AirPodDetailsModel
		if err := conn(ctx, r.db).Where("product_id IN ?", ids).Find(&found).Error; err != nil {
			return nil, err
		}
		for _, m := range found {
			rows = append(rows, m)
		}
	}

	out := make(map[uuid.UUID]catalog.Details, len(rows))
	for _, row := range rows {
		out[row.ProductKey()] = row.ToDomain()
	}
	return out, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "description")
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "orderable":
			if value == true {
				query = query.Where("status = ? AND stock > 0", catalog.ProductStatusAvailable)
			}
		}
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
