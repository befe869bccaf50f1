// Package gormstore implements the repositories on a relational database
// through gorm. Nested values (order items, blog image lists, setting data)
// are stored as JSON columns so each record stays a single row.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// New wraps an open gorm connection in a repository Store.
func New(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Orders:      &orderRepo{db},
		Coupons:     &couponRepo{db},
		Users:       &userRepo{db},
		ResetTokens: &tokenRepo{db},
		Products:    &productRepo{db},
		Blogs:       &blogRepo{db},
		Settings:    &settingsRepo{db},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

// updates applies fields to the rows matched by where and reports
// ErrNotFound when nothing matched.
func updates(ctx context.Context, db *gorm.DB, model interface{}, fields repository.Fields, where string, args ...interface{}) error {
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		// map updates bypass the field serializer
		if list, ok := v.([]string); ok {
			encoded, err := json.Marshal(list)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %v", k, err)
			}
			v = string(encoded)
		}
		values[k] = v
	}
	result := db.WithContext(ctx).Model(model).Where(where, args...).Updates(values)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func remove(ctx context.Context, db *gorm.DB, model interface{}, id string) error {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type orderRepo struct{ db *gorm.DB }

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepo) FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error
	return orders, translate(err)
}

func (r *orderRepo) ListByEmail(ctx context.Context, email string, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).Where("customer_email = ?", email).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (r *orderRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updates(ctx, r.db, &models.Order{}, fields, "id = ?", id)
}

func (r *orderRepo) UpdateByPaymentID(ctx context.Context, paymentID string, fields repository.Fields) error {
	return updates(ctx, r.db, &models.Order{}, fields, "payment_id = ?", paymentID)
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.db, &models.Order{}, id)
}

func (r *orderRepo) CountUnviewed(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("viewed = ? AND status = ?", false, status).
		Count(&count).Error
	return count, translate(err)
}

type couponRepo struct{ db *gorm.DB }

func (r *couponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	return translate(r.db.WithContext(ctx).Create(coupon).Error)
}

func (r *couponRepo) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *couponRepo) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&coupon).Error
	if err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *couponRepo) FindFirstActive(ctx context.Context) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at ASC").First(&coupon).Error
	if err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (r *couponRepo) CodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("code = ? AND id <> ?", code, excludeID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *couponRepo) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, translate(err)
}

func (r *couponRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updates(ctx, r.db, &models.Coupon{}, fields, "id = ?", id)
}

func (r *couponRepo) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.db, &models.Coupon{}, id)
}

type userRepo struct{ db *gorm.DB }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("google_id = ? OR LOWER(email) = LOWER(?)", googleID, email).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updates(ctx, r.db, &models.User{}, fields, "id = ?", id)
}

type tokenRepo struct{ db *gorm.DB }

func (r *tokenRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	return translate(r.db.WithContext(ctx).Create(token).Error)
}

func (r *tokenRepo) FindUnused(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	err := r.db.WithContext(ctx).Where("token = ? AND used = ?", token, false).First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (r *tokenRepo) MarkUsed(ctx context.Context, token string) error {
	return updates(ctx, r.db, &models.PasswordResetToken{}, repository.Fields{"used": true}, "token = ?", token)
}

type productRepo struct{ db *gorm.DB }

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updates(ctx, r.db, &models.Product{}, fields, "id = ?", id)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.db, &models.Product{}, id)
}

func (r *productRepo) ImageURLs(ctx context.Context, limit int) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("image_url <> ''").
		Order("id").
		Limit(limit).
		Pluck("image_url", &urls).Error
	return urls, translate(err)
}

type blogRepo struct{ db *gorm.DB }

func (r *blogRepo) Create(ctx context.Context, post *models.BlogPost) error {
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *blogRepo) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *blogRepo) List(ctx context.Context, status string) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	return posts, nil
}

func (r *blogRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updates(ctx, r.db, &models.BlogPost{}, fields, "id = ?", id)
}

func (r *blogRepo) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.db, &models.BlogPost{}, id)
}

type settingsRepo struct{ db *gorm.DB }

func (r *settingsRepo) Get(ctx context.Context, settingType string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("type = ?", settingType).First(&setting).Error; err != nil {
		return nil, translate(err)
	}
	return &setting, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, setting *models.Setting) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(setting).Error
	return translate(err)
}

func (r *settingsRepo) ListColorProfiles(ctx context.Context) ([]models.ColorProfile, error) {
	var profiles []models.ColorProfile
	err := r.db.WithContext(ctx).Order("created_at").Find(&profiles).Error
	return profiles, translate(err)
}

func (r *settingsRepo) CreateColorProfile(ctx context.Context, profile *models.ColorProfile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *settingsRepo) DeleteColorProfile(ctx context.Context, id string) error {
	return remove(ctx, r.db, &models.ColorProfile{}, id)
}
