package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/utils"
)

// Gallery modes and sections of the landing page
const (
	GalleryModeNone   = "none"
	GalleryModeAuto   = "auto"
	GalleryModeManual = "manual"

	SectionBlog      = "blog"
	SectionShop      = "shop"
	SectionMinigames = "minigames"

	maxGalleryImages = 3
)

// LandingSettings controls the landing page cards.
type LandingSettings struct {
	ShowBlog               bool     `json:"show_blog"`
	ShowShop               bool     `json:"show_shop"`
	ShowMinigames          bool     `json:"show_minigames"`
	BlogGalleryMode        string   `json:"blog_gallery_mode"`
	ShopGalleryMode        string   `json:"shop_gallery_mode"`
	MinigamesGalleryMode   string   `json:"minigames_gallery_mode"`
	BlogGalleryImages      []string `json:"blog_gallery_images"`
	ShopGalleryImages      []string `json:"shop_gallery_images"`
	MinigamesGalleryImages []string `json:"minigames_gallery_images"`
	CardBgColorStart       string   `json:"card_bg_color_start"`
	CardBgColorMiddle      string   `json:"card_bg_color_middle"`
	CardBgColorEnd         string   `json:"card_bg_color_end"`
}

// DefaultLandingSettings is served before the operator saves any.
func DefaultLandingSettings() LandingSettings {
	return LandingSettings{
		ShowBlog:               true,
		ShowShop:               true,
		ShowMinigames:          true,
		BlogGalleryMode:        GalleryModeNone,
		ShopGalleryMode:        GalleryModeNone,
		MinigamesGalleryMode:   GalleryModeNone,
		BlogGalleryImages:      []string{},
		ShopGalleryImages:      []string{},
		MinigamesGalleryImages: []string{},
		CardBgColorStart:       "rgba(167, 139, 250, 0.15)",
		CardBgColorMiddle:      "rgba(139, 92, 246, 0.12)",
		CardBgColorEnd:         "rgba(124, 58, 237, 0.15)",
	}
}

// BlogFeatures toggles optional blog media.
type BlogFeatures struct {
	EnableVideo        bool `json:"enable_video"`
	EnableAudio        bool `json:"enable_audio"`
	EnableTextToSpeech bool `json:"enable_text_to_speech"`
}

func DefaultBlogFeatures() BlogFeatures {
	return BlogFeatures{EnableVideo: true, EnableAudio: true, EnableTextToSpeech: true}
}

type ColorProfileInput struct {
	Name          string  `json:"name" binding:"required"`
	StartR        int     `json:"startR" binding:"gte=0,lte=255"`
	StartG        int     `json:"startG" binding:"gte=0,lte=255"`
	StartB        int     `json:"startB" binding:"gte=0,lte=255"`
	StartOpacity  float64 `json:"startOpacity" binding:"gte=0,lte=1"`
	MiddleR       int     `json:"middleR" binding:"gte=0,lte=255"`
	MiddleG       int     `json:"middleG" binding:"gte=0,lte=255"`
	MiddleB       int     `json:"middleB" binding:"gte=0,lte=255"`
	MiddleOpacity float64 `json:"middleOpacity" binding:"gte=0,lte=1"`
	EndR          int     `json:"endR" binding:"gte=0,lte=255"`
	EndG          int     `json:"endG" binding:"gte=0,lte=255"`
	EndB          int     `json:"endB" binding:"gte=0,lte=255"`
	EndOpacity    float64 `json:"endOpacity" binding:"gte=0,lte=1"`
}

// SettingsService stores site-wide settings and color profiles.
type SettingsService struct {
	settings repository.SettingsRepository
	blogs    repository.BlogRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewSettingsService(
	settings repository.SettingsRepository,
	blogs repository.BlogRepository,
	products repository.ProductRepository,
	now func() time.Time,
) *SettingsService {
	if now == nil {
		now = time.Now
	}
	return &SettingsService{settings: settings, blogs: blogs, products: products, now: now}
}

// load decodes the stored setting into out, which holds the defaults.
// It reports whether a stored setting was found.
func (s *SettingsService) load(ctx context.Context, settingType string, out interface{}) (bool, error) {
	setting, err := s.settings.Get(ctx, settingType)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	raw, err := json.Marshal(setting.Data)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, out)
}

func (s *SettingsService) save(ctx context.Context, settingType string, in interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	data := map[string]interface{}{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	return s.settings.Upsert(ctx, &models.Setting{Type: settingType, Data: data})
}

// Landing returns the landing page settings. Sections in auto mode show
// the first image of up to three published posts and up to three product
// images. Lookup failures fall back to the defaults.
func (s *SettingsService) Landing(ctx context.Context) LandingSettings {
	settings := DefaultLandingSettings()
	found, err := s.load(ctx, models.SettingLandingPage, &settings)
	if err != nil {
		utils.LogError("Error fetching landing settings: %v", err)
		return DefaultLandingSettings()
	}
	if !found {
		return settings
	}

	if settings.BlogGalleryMode == GalleryModeAuto {
		settings.BlogGalleryImages = s.blogGallery(ctx)
	}
	if settings.ShopGalleryMode == GalleryModeAuto {
		images, err := s.products.ImageURLs(ctx, maxGalleryImages)
		if err != nil {
			utils.LogError("Error loading product gallery: %v", err)
			images = nil
		}
		settings.ShopGalleryImages = append([]string{}, images...)
	}
	return settings
}

func (s *SettingsService) blogGallery(ctx context.Context) []string {
	posts, err := s.blogs.List(ctx, models.BlogStatusPublished)
	if err != nil {
		utils.LogError("Error loading blog gallery: %v", err)
		return []string{}
	}
	if len(posts) > maxGalleryImages {
		posts = posts[:maxGalleryImages]
	}
	images := []string{}
	for _, p := range posts {
		if len(p.ImageURLs) > 0 {
			images = append(images, p.ImageURLs[0])
		}
	}
	return images
}

func (s *SettingsService) SaveLanding(ctx context.Context, in LandingSettings) error {
	for _, list := range []*[]string{&in.BlogGalleryImages, &in.ShopGalleryImages, &in.MinigamesGalleryImages} {
		if *list == nil {
			*list = []string{}
		}
	}
	if err := s.save(ctx, models.SettingLandingPage, in); err != nil {
		return utils.InternalError("Failed to update landing settings", err)
	}
	return nil
}

// AddGalleryImage appends an uploaded image to a section's gallery, keeping
// the three most recent.
func (s *SettingsService) AddGalleryImage(ctx context.Context, section, dataURL string) error {
	settings := DefaultLandingSettings()
	if _, err := s.load(ctx, models.SettingLandingPage, &settings); err != nil {
		return utils.InternalError("Failed to upload gallery image", err)
	}

	var gallery *[]string
	switch section {
	case SectionBlog:
		gallery = &settings.BlogGalleryImages
	case SectionShop:
		gallery = &settings.ShopGalleryImages
	case SectionMinigames:
		gallery = &settings.MinigamesGalleryImages
	default:
		return utils.InvalidInputError("Invalid section. Must be 'blog', 'shop', or 'minigames'", nil)
	}
	*gallery = append(*gallery, dataURL)
	if n := len(*gallery); n > maxGalleryImages {
		*gallery = (*gallery)[n-maxGalleryImages:]
	}

	if err := s.save(ctx, models.SettingLandingPage, settings); err != nil {
		return utils.InternalError("Failed to upload gallery image", err)
	}
	return nil
}

// BlogFeatures returns the feature toggles, all enabled by default.
func (s *SettingsService) BlogFeatures(ctx context.Context) BlogFeatures {
	features := DefaultBlogFeatures()
	if _, err := s.load(ctx, models.SettingBlogFeatures, &features); err != nil {
		utils.LogError("Error fetching blog features: %v", err)
		return DefaultBlogFeatures()
	}
	return features
}

func (s *SettingsService) SaveBlogFeatures(ctx context.Context, in BlogFeatures) error {
	if err := s.save(ctx, models.SettingBlogFeatures, in); err != nil {
		return utils.InternalError("Failed to update blog features", err)
	}
	return nil
}

// ColorProfiles lists saved gradients; lookup failures yield none.
func (s *SettingsService) ColorProfiles(ctx context.Context) []models.ColorProfile {
	profiles, err := s.settings.ListColorProfiles(ctx)
	if err != nil {
		utils.LogError("Error fetching color profiles: %v", err)
		return []models.ColorProfile{}
	}
	return profiles
}

func (s *SettingsService) CreateColorProfile(ctx context.Context, in ColorProfileInput) (*models.ColorProfile, error) {
	profile := &models.ColorProfile{
		ID:            uuid.New().String(),
		Name:          in.Name,
		StartR:        in.StartR,
		StartG:        in.StartG,
		StartB:        in.StartB,
		StartOpacity:  in.StartOpacity,
		MiddleR:       in.MiddleR,
		MiddleG:       in.MiddleG,
		MiddleB:       in.MiddleB,
		MiddleOpacity: in.MiddleOpacity,
		EndR:          in.EndR,
		EndG:          in.EndG,
		EndB:          in.EndB,
		EndOpacity:    in.EndOpacity,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.settings.CreateColorProfile(ctx, profile); err != nil {
		return nil, utils.InternalError("Failed to save color profile", err)
	}
	return profile, nil
}

func (s *SettingsService) DeleteColorProfile(ctx context.Context, id string) error {
	err := s.settings.DeleteColorProfile(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFoundError("Color profile not found", nil)
	}
	if err != nil {
		return utils.InternalError("Failed to delete color profile", err)
	}
	return nil
}
