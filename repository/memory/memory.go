// Package memory is an in-process implementation of the repositories, used
// by tests and local runs without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository"
)

// New returns a Store backed by maps guarded by one mutex.
func New() *repository.Store {
	db := &db{
		orders:   map[string]models.Order{},
		coupons:  map[string]models.Coupon{},
		users:    map[string]models.User{},
		tokens:   map[string]models.PasswordResetToken{},
		products: map[string]models.Product{},
		blogs:    map[string]models.BlogPost{},
		settings: map[string]models.Setting{},
		profiles: map[string]models.ColorProfile{},
	}
	return &repository.Store{
		Orders:      &orderRepo{db},
		Coupons:     &couponRepo{db},
		Users:       &userRepo{db},
		ResetTokens: &tokenRepo{db},
		Products:    &productRepo{db},
		Blogs:       &blogRepo{db},
		Settings:    &settingsRepo{db},
		Close:       func(context.Context) error { return nil },
	}
}

type db struct {
	mu       sync.RWMutex
	orders   map[string]models.Order
	coupons  map[string]models.Coupon
	users    map[string]models.User
	tokens   map[string]models.PasswordResetToken
	products map[string]models.Product
	blogs    map[string]models.BlogPost
	settings map[string]models.Setting
	profiles map[string]models.ColorProfile
}

type orderRepo struct{ *db }

func (r *orderRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return repository.ErrDuplicate
	}
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *orderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *orderRepo) FindByPaymentID(_ context.Context, paymentID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if paymentID != "" && o.PaymentID == paymentID {
			o = cloneOrder(o)
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *orderRepo) List(_ context.Context) ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }, 0), nil
}

func (r *orderRepo) ListByEmail(_ context.Context, email string, limit int) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.CustomerEmail == email }, limit), nil
}

func (r *orderRepo) filter(keep func(models.Order) bool, limit int) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Order{}
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *orderRepo) Update(_ context.Context, id string, fields repository.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	applyOrderFields(&o, fields)
	r.orders[id] = o
	return nil
}

func (r *orderRepo) UpdateByPaymentID(_ context.Context, paymentID string, fields repository.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.orders {
		if paymentID != "" && o.PaymentID == paymentID {
			applyOrderFields(&o, fields)
			r.orders[id] = o
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *orderRepo) CountUnviewed(_ context.Context, status string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, o := range r.orders {
		if !o.Viewed && o.Status == status {
			n++
		}
	}
	return n, nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func applyOrderFields(o *models.Order, fields repository.Fields) {
	for k, v := range fields {
		switch k {
		case models.OrderFieldStatus:
			o.Status = v.(string)
		case models.OrderFieldPayerID:
			o.PayerID = v.(string)
		case models.OrderFieldCompletedAt:
			o.CompletedAt = timePtr(v)
		case models.OrderFieldShippedAt:
			o.ShippedAt = timePtr(v)
		case models.OrderFieldDeliveredAt:
			o.DeliveredAt = timePtr(v)
		case models.OrderFieldTrackingNumber:
			o.TrackingNumber = v.(string)
		case models.OrderFieldShippingCarrier:
			o.ShippingCarrier = v.(string)
		case models.OrderFieldTrackingURL:
			o.TrackingURL = v.(string)
		case models.OrderFieldViewed:
			o.Viewed = v.(bool)
		}
	}
}

func timePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	}
	return nil
}

type couponRepo struct{ *db }

func (r *couponRepo) Create(_ context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code == coupon.Code {
			return repository.ErrDuplicate
		}
	}
	r.coupons[coupon.ID] = *coupon
	return nil
}

func (r *couponRepo) FindByID(_ context.Context, id string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *couponRepo) FindActiveByCode(_ context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.coupons {
		if c.IsActive && c.Code == code {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *couponRepo) FindFirstActive(_ context.Context) (*models.Coupon, error) {
	list, _ := r.List(context.Background())
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].IsActive {
			c := list[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *couponRepo) CodeTaken(_ context.Context, code, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.coupons {
		if c.Code == code && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *couponRepo) List(_ context.Context) ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Coupon{}
	for _, c := range r.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *couponRepo) Update(_ context.Context, id string, fields repository.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case models.CouponFieldCode:
			c.Code = v.(string)
		case models.CouponFieldDiscountType:
			c.DiscountType = v.(string)
		case models.CouponFieldDiscountValue:
			c.DiscountValue = v.(float64)
		case models.CouponFieldIsActive:
			c.IsActive = v.(bool)
		case models.CouponFieldExpiresAt:
			c.ExpiresAt = timePtr(v)
		}
	}
	r.coupons[id] = c
	return nil
}

func (r *couponRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.coupons, id)
	return nil
}

type userRepo struct{ *db }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) FindByGoogleIDOrEmail(_ context.Context, googleID, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if (u.GoogleID != nil && *u.GoogleID == googleID) || strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, id string, fields repository.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case models.UserFieldHashedPassword:
			u.HashedPassword = v.(string)
		case models.UserFieldLastLogin:
			u.LastLogin = timePtr(v)
		case models.UserFieldGoogleID:
			gid := v.(string)
			u.GoogleID = &gid
		}
	}
	r.users[id] = u
	return nil
}

type tokenRepo struct{ *db }

func (r *tokenRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = *token
	return nil
}

func (r *tokenRepo) FindUnused(_ context.Context, token string) (*models.PasswordResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[token]
	if !ok || t.Used {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *tokenRepo) MarkUsed(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return repository.ErrNotFound
	}
	t.Used = true
	r.tokens[token] = t
	return nil
}

type productRepo struct{ *db }

func (r *productRepo) List(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Product{}
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *productRepo) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; ok {
		return repository.ErrDuplicate
	}
	r.products[product.ID] = *product
	return nil
}

func (r *productRepo) Update(_ context.Context, id string, fields repository.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case models.ProductFieldName:
			p.Name = v.(string)
		case models.ProductFieldPrice:
			p.Price = v.(float64)
		case models.ProductFieldDescription:
			p.Description = v.(string)
		case models.ProductFieldCategory:
			p.Category = v.(string)
		case models.ProductFieldType:
			p.Type = v.(string)
		case models.ProductFieldImageURL:
			p.ImageURL = v.(string)
		}
	}
	r.products[id] = p
	return nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *productRepo) ImageURLs(ctx context.Context, limit int) ([]string, error) {
	list, _ := r.List(ctx)
	var out []string
	for _, p := range list {
		if p.ImageURL != "" && len(out) < limit {
			out = append(out, p.ImageURL)
		}
	}
	return out, nil
}

type blogRepo struct{ *db }

func (r *blogRepo) Create(_ context.Context, post *models.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blogs[post.ID] = *post
	return nil
}

func (r *blogRepo) FindByID(_ context.Context, id string) (*models.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *blogRepo) List(_ context.Context, status string) ([]models.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.BlogPost{}
	for _, b := range r.blogs {
		if status == "" || b.Status == status {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *blogRepo) Update(_ context.Context, id string, fields repository.Fields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case models.BlogFieldTitle:
			b.Title = v.(string)
		case models.BlogFieldSlug:
			b.Slug = v.(string)
		case models.BlogFieldContent:
			b.Content = v.(string)
		case models.BlogFieldKeywords:
			b.Keywords = v.(string)
		case models.BlogFieldImageURL:
			b.ImageURL = v.(string)
		case models.BlogFieldImageURLs:
			b.ImageURLs = v.([]string)
		case models.BlogFieldImageBase64:
			b.ImageBase64 = v.(string)
		case models.BlogFieldVideoURL:
			b.VideoURL = v.(string)
		case models.BlogFieldAudioURL:
			b.AudioURL = v.(string)
		case models.BlogFieldStatus:
			b.Status = v.(string)
		case models.BlogFieldPublishedAt:
			b.PublishedAt = timePtr(v)
		}
	}
	r.blogs[id] = b
	return nil
}

func (r *blogRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.blogs, id)
	return nil
}

type settingsRepo struct{ *db }

func (r *settingsRepo) Get(_ context.Context, settingType string) (*models.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[settingType]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *settingsRepo) Upsert(_ context.Context, setting *models.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[setting.Type] = *setting
	return nil
}

func (r *settingsRepo) ListColorProfiles(_ context.Context) ([]models.ColorProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.ColorProfile{}
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *settingsRepo) CreateColorProfile(_ context.Context, profile *models.ColorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *settingsRepo) DeleteColorProfile(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.profiles, id)
	return nil
}
