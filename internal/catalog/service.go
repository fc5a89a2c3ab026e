package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrShopNotFound = errors.New("shop not found")

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// ImportResult summarizes one price-list import.
type ImportResult struct {
	Shop       string `json:"shop"`
	Categories int    `json:"categories"`
	Listings   int    `json:"listings"`
}

// ImportPriceList replaces the owning user's shop catalog with the
// contents of a price-list document. The shop's previous listings are
// dropped wholesale and recreated, all inside one transaction, so a
// failed import leaves the old catalog in place.
func (s *Service) ImportPriceList(ctx context.Context, ownerID uuid.UUID, data []byte) (*ImportResult, error) {
	list, err := ParsePriceList(data)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Shop: list.Shop}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shop models.Shop
		if err := tx.Where("user_id = ?", ownerID).First(&shop).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			shop = models.Shop{Name: list.Shop, UserID: &ownerID}
			if err := tx.Create(&shop).Error; err != nil {
				return err
			}
		} else if shop.Name != list.Shop {
			if err := tx.Model(&shop).Update("name", list.Shop).Error; err != nil {
				return err
			}
		}

		// Map the document's local category ids to rows.
		categories := make(map[uint]*models.Category, len(list.Categories))
		for _, c := range list.Categories {
			category, err := s.getOrCreateCategory(tx, c.Name)
			if err != nil {
				return err
			}
			if err := tx.Model(&shop).Association("Categories").Append(category); err != nil {
				return err
			}
			categories[c.ID] = category
		}
		result.Categories = len(categories)

		// Previous listings go away; ProductParameter rows follow by
		// cascade.
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.ProductInfo{}).Error; err != nil {
			return err
		}

		for _, g := range list.Goods {
			category := categories[g.Category]

			var product models.Product
			err := tx.Where("name = ? AND category_id = ?", g.Name, category.ID).First(&product).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				product = models.Product{Name: g.Name, CategoryID: category.ID}
				err = tx.Create(&product).Error
			}
			if err != nil {
				return err
			}

			info := models.ProductInfo{
				Model:      g.Model,
				Quantity:   g.Quantity,
				Price:      g.Price,
				PriceRRC:   g.PriceRRC,
				ExternalID: g.ID,
				ProductID:  product.ID,
				ShopID:     shop.ID,
			}
			if err := tx.Create(&info).Error; err != nil {
				return err
			}
			result.Listings++

			for name, value := range g.Parameters {
				var parameter models.Parameter
				err := tx.Where("name = ?", name).First(&parameter).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					parameter = models.Parameter{Name: name}
					err = tx.Create(&parameter).Error
				}
				if err != nil {
					return err
				}

				pp := models.ProductParameter{
					ProductInfoID: info.ID,
					ParameterID:   parameter.ID,
					Value:         fmt.Sprintf("%v", value),
				}
				if err := tx.Create(&pp).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("imported price list",
		"shop", result.Shop,
		"categories", result.Categories,
		"listings", result.Listings,
	)

	return result, nil
}

func (s *Service) getOrCreateCategory(tx *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := tx.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = models.Category{Name: name}
		err = tx.Create(&category).Error
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (s *Service) ListShops(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	err := s.db.WithContext(ctx).Order("name").Find(&shops).Error
	return shops, err
}

// ShopByOwner resolves the shop administered by a user.
func (s *Service) ShopByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// ListingFilter narrows a listing search. Nil fields match everything;
// a Limit of zero disables paging.
type ListingFilter struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	Limit      int
	Offset     int
}

// SearchListings returns sellable listings with product, shop and
// parameter data preloaded, plus the total match count for paging.
func (s *Service) SearchListings(ctx context.Context, filter ListingFilter) ([]models.ProductInfo, int64, error) {
	base := s.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Joins("JOIN products ON products.id = product_infos.product_id")

	if filter.ShopID != nil {
		base = base.Where("product_infos.shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		base = base.Where("products.category_id = ?", *filter.CategoryID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).
		Preload("Product").
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters.Parameter")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var listings []models.ProductInfo
	err := query.Find(&listings).Error
	return listings, total, err
}
