package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository/memory"
	"github.com/apebrain/shop-api/utils"
)

func TestProductListMergesDefaultCatalog(t *testing.T) {
	store := memory.New()
	products := NewProductService(store.Products)
	ctx := context.Background()

	list, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(DefaultCatalog))

	_, err = products.Create(ctx, ProductInput{ID: "phys-1", Name: "Lion's Mane Deluxe", Price: 39.99})
	require.NoError(t, err)
	_, err = products.Create(ctx, ProductInput{Name: "Chaga Tea", Price: 12.50, Type: models.ProductTypePhysical})
	require.NoError(t, err)

	list, err = products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(DefaultCatalog)+1)

	var lionsMane []models.Product
	for _, p := range list {
		if p.ID == "phys-1" {
			lionsMane = append(lionsMane, p)
		}
	}
	require.Len(t, lionsMane, 1)
	assert.Equal(t, "Lion's Mane Deluxe", lionsMane[0].Name)
}

func TestProductCreateDuplicate(t *testing.T) {
	products := NewProductService(memory.New().Products)
	ctx := context.Background()

	_, err := products.Create(ctx, ProductInput{ID: "p-1", Name: "A", Price: 1})
	require.NoError(t, err)
	_, err = products.Create(ctx, ProductInput{ID: "p-1", Name: "B", Price: 2})

	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestProductUpdateMaterializesDefault(t *testing.T) {
	products := NewProductService(memory.New().Products)
	ctx := context.Background()
	price := 27.50

	updated, err := products.Update(ctx, "phys-2", ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Reishi Capsules", updated.Name)
	assert.Equal(t, 27.50, updated.Price)

	require.NoError(t, products.SetImage(ctx, "digi-1", "data:image/png;base64,AA"))

	_, err = products.Update(ctx, "nope", ProductPatch{Price: &price})
	assert.True(t, utils.IsNotFoundError(err))
	_, err = products.Update(ctx, "phys-2", ProductPatch{})
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))

	require.NoError(t, products.Delete(ctx, "phys-2"))
	assert.True(t, utils.IsNotFoundError(products.Delete(ctx, "phys-2")))
}

func TestLandingDefaults(t *testing.T) {
	store := memory.New()
	settings := NewSettingsService(store.Settings, store.Blogs, store.Products, fixedClock)

	landing := settings.Landing(context.Background())

	assert.Equal(t, DefaultLandingSettings(), landing)
	assert.True(t, landing.ShowShop)
	assert.Equal(t, GalleryModeNone, landing.BlogGalleryMode)
}

func TestLandingAutoGalleries(t *testing.T) {
	store := memory.New()
	settings := NewSettingsService(store.Settings, store.Blogs, store.Products, fixedClock)
	ctx := context.Background()

	for i, img := range []string{"b1", "b2", "b3", "b4"} {
		require.NoError(t, store.Blogs.Create(ctx, &models.BlogPost{
			ID:        img,
			Status:    models.BlogStatusPublished,
			ImageURLs: []string{img, img + "-second"},
			CreatedAt: testNow.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Blogs.Create(ctx, &models.BlogPost{ID: "draft", Status: models.BlogStatusDraft, ImageURLs: []string{"d"}, CreatedAt: testNow.Add(time.Hour)}))
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		require.NoError(t, store.Products.Create(ctx, &models.Product{ID: id, ImageURL: "img-" + id}))
	}

	in := DefaultLandingSettings()
	in.BlogGalleryMode = GalleryModeAuto
	in.ShopGalleryMode = GalleryModeAuto
	in.ShowMinigames = false
	require.NoError(t, settings.SaveLanding(ctx, in))

	landing := settings.Landing(ctx)
	assert.False(t, landing.ShowMinigames)
	assert.Equal(t, []string{"b4", "b3", "b2"}, landing.BlogGalleryImages)
	assert.Equal(t, []string{"img-p1", "img-p2", "img-p3"}, landing.ShopGalleryImages)
}

func TestAddGalleryImageKeepsLastThree(t *testing.T) {
	store := memory.New()
	settings := NewSettingsService(store.Settings, store.Blogs, store.Products, fixedClock)
	ctx := context.Background()

	for _, img := range []string{"one", "two", "three", "four"} {
		require.NoError(t, settings.AddGalleryImage(ctx, SectionMinigames, img))
	}

	landing := settings.Landing(ctx)
	assert.Equal(t, []string{"two", "three", "four"}, landing.MinigamesGalleryImages)
	assert.True(t, landing.ShowBlog)

	err := settings.AddGalleryImage(ctx, "arcade", "x")
	assert.True(t, utils.IsKind(err, utils.KindInvalidInput))
}

func TestBlogFeaturesAndColorProfiles(t *testing.T) {
	store := memory.New()
	settings := NewSettingsService(store.Settings, store.Blogs, store.Products, fixedClock)
	ctx := context.Background()

	assert.Equal(t, DefaultBlogFeatures(), settings.BlogFeatures(ctx))
	require.NoError(t, settings.SaveBlogFeatures(ctx, BlogFeatures{EnableVideo: false, EnableAudio: true}))
	assert.Equal(t, BlogFeatures{EnableAudio: true}, settings.BlogFeatures(ctx))

	assert.Empty(t, settings.ColorProfiles(ctx))
	profile, err := settings.CreateColorProfile(ctx, ColorProfileInput{Name: "Violet", StartR: 167, StartOpacity: 0.15})
	require.NoError(t, err)
	assert.Len(t, settings.ColorProfiles(ctx), 1)

	require.NoError(t, settings.DeleteColorProfile(ctx, profile.ID))
	assert.True(t, utils.IsNotFoundError(settings.DeleteColorProfile(ctx, profile.ID)))
}
