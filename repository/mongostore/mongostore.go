// Package mongostore implements the repositories on MongoDB. Documents are
// keyed by their own string id field; the driver's _id is never exposed.
package mongostore

import (
	"context"
	"errors"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	OrdersCollection        = "orders"
	CouponsCollection       = "coupons"
	UsersCollection         = "users"
	ResetTokensCollection   = "password_resets"
	ProductsCollection      = "products"
	BlogPostsCollection     = "blog_posts"
	SettingsCollection      = "settings"
	ColorProfilesCollection = "color_profiles"
)

// New wraps a mongo database in a repository Store.
func New(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Orders:      &orderRepo{db.Collection(OrdersCollection)},
		Coupons:     &couponRepo{db.Collection(CouponsCollection)},
		Users:       &userRepo{db.Collection(UsersCollection)},
		ResetTokens: &tokenRepo{db.Collection(ResetTokensCollection)},
		Products:    &productRepo{db.Collection(ProductsCollection)},
		Blogs:       &blogRepo{db.Collection(BlogPostsCollection)},
		Settings: &settingsRepo{
			settings: db.Collection(SettingsCollection),
			profiles: db.Collection(ColorProfilesCollection),
		},
		Close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

// withoutID keeps the driver's _id out of decoded documents.
var withoutID = bson.M{"_id": 0}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	}
	return err
}

func insert(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	_, err := coll.InsertOne(ctx, doc)
	return translate(err)
}

func findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}) error {
	err := coll.FindOne(ctx, filter, options.FindOne().SetProjection(withoutID)).Decode(out)
	return translate(err)
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out interface{}, opts *options.FindOptions) error {
	if opts == nil {
		opts = options.Find()
	}
	cursor, err := coll.Find(ctx, filter, opts.SetProjection(withoutID))
	if err != nil {
		return translate(err)
	}
	return translate(cursor.All(ctx, out))
}

func updateOne(ctx context.Context, coll *mongo.Collection, filter bson.M, fields repository.Fields) error {
	result, err := coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	result, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

type orderRepo struct{ coll *mongo.Collection }

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	return insert(ctx, r.coll, order)
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := findOne(ctx, r.coll, bson.M{"id": id}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	if err := findOne(ctx, r.coll, bson.M{"payment_id": paymentID}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := findAll(ctx, r.coll, bson.M{}, &orders, newestFirst()); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) ListByEmail(ctx context.Context, email string, limit int) ([]models.Order, error) {
	orders := []models.Order{}
	opts := newestFirst()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if err := findAll(ctx, r.coll, bson.M{"customer_email": email}, &orders, opts); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updateOne(ctx, r.coll, bson.M{"id": id}, fields)
}

func (r *orderRepo) UpdateByPaymentID(ctx context.Context, paymentID string, fields repository.Fields) error {
	return updateOne(ctx, r.coll, bson.M{"payment_id": paymentID}, fields)
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, bson.M{"id": id})
}

func (r *orderRepo) CountUnviewed(ctx context.Context, status string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"viewed": bson.M{"$ne": true},
		"status": status,
	})
	return count, translate(err)
}

type couponRepo struct{ coll *mongo.Collection }

func (r *couponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	return insert(ctx, r.coll, coupon)
}

func (r *couponRepo) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := findOne(ctx, r.coll, bson.M{"id": id}, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepo) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := findOne(ctx, r.coll, bson.M{"code": code, "is_active": true}, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepo) FindFirstActive(ctx context.Context) (*models.Coupon, error) {
	var coupon models.Coupon
	opts := options.FindOne().SetProjection(withoutID).SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := translate(r.coll.FindOne(ctx, bson.M{"is_active": true}, opts).Decode(&coupon)); err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepo) CodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"code": code, "id": bson.M{"$ne": excludeID}})
	return count > 0, translate(err)
}

func (r *couponRepo) List(ctx context.Context) ([]models.Coupon, error) {
	coupons := []models.Coupon{}
	if err := findAll(ctx, r.coll, bson.M{}, &coupons, newestFirst()); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *couponRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updateOne(ctx, r.coll, bson.M{"id": id}, fields)
}

func (r *couponRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, bson.M{"id": id})
}

type userRepo struct{ coll *mongo.Collection }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return insert(ctx, r.coll, user)
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.coll, bson.M{"id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := findOne(ctx, r.coll, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*models.User, error) {
	var user models.User
	filter := bson.M{"$or": bson.A{bson.M{"google_id": googleID}, bson.M{"email": email}}}
	if err := findOne(ctx, r.coll, filter, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updateOne(ctx, r.coll, bson.M{"id": id}, fields)
}

type tokenRepo struct{ coll *mongo.Collection }

func (r *tokenRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	return insert(ctx, r.coll, token)
}

func (r *tokenRepo) FindUnused(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	if err := findOne(ctx, r.coll, bson.M{"token": token, "used": false}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *tokenRepo) MarkUsed(ctx context.Context, token string) error {
	return updateOne(ctx, r.coll, bson.M{"token": token}, repository.Fields{"used": true})
}

type productRepo struct{ coll *mongo.Collection }

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	if err := findAll(ctx, r.coll, bson.M{}, &products, opts); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	return insert(ctx, r.coll, product)
}

func (r *productRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updateOne(ctx, r.coll, bson.M{"id": id}, fields)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, bson.M{"id": id})
}

func (r *productRepo) ImageURLs(ctx context.Context, limit int) ([]string, error) {
	products := []models.Product{}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "id", Value: 1}})
	filter := bson.M{"image_url": bson.M{"$exists": true, "$ne": ""}}
	if err := findAll(ctx, r.coll, filter, &products, opts); err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(products))
	for _, p := range products {
		urls = append(urls, p.ImageURL)
	}
	return urls, nil
}

type blogRepo struct{ coll *mongo.Collection }

func (r *blogRepo) Create(ctx context.Context, post *models.BlogPost) error {
	return insert(ctx, r.coll, post)
}

func (r *blogRepo) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := findOne(ctx, r.coll, bson.M{"id": id}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepo) List(ctx context.Context, status string) ([]models.BlogPost, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	posts := []models.BlogPost{}
	if err := findAll(ctx, r.coll, filter, &posts, newestFirst()); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *blogRepo) Update(ctx context.Context, id string, fields repository.Fields) error {
	return updateOne(ctx, r.coll, bson.M{"id": id}, fields)
}

func (r *blogRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.coll, bson.M{"id": id})
}

type settingsRepo struct {
	settings *mongo.Collection
	profiles *mongo.Collection
}

func (r *settingsRepo) Get(ctx context.Context, settingType string) (*models.Setting, error) {
	var setting models.Setting
	if err := findOne(ctx, r.settings, bson.M{"type": settingType}, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, setting *models.Setting) error {
	_, err := r.settings.UpdateOne(ctx,
		bson.M{"type": setting.Type},
		bson.M{"$set": bson.M{"data": setting.Data}},
		options.Update().SetUpsert(true),
	)
	return translate(err)
}

func (r *settingsRepo) ListColorProfiles(ctx context.Context) ([]models.ColorProfile, error) {
	profiles := []models.ColorProfile{}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := findAll(ctx, r.profiles, bson.M{}, &profiles, opts); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *settingsRepo) CreateColorProfile(ctx context.Context, profile *models.ColorProfile) error {
	return insert(ctx, r.profiles, profile)
}

func (r *settingsRepo) DeleteColorProfile(ctx context.Context, id string) error {
	return deleteOne(ctx, r.profiles, bson.M{"id": id})
}
