package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/apebrain/shop-api/content"
	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/utils"
)

const (
	maxFetchedImages = 5
	defaultImageTerm = "nature"
)

// Drafter writes a blog post for a set of keywords.
type Drafter interface {
	Draft(ctx context.Context, keywords string) (string, error)
}

// ImageSearcher returns stock photos as data URLs.
type ImageSearcher interface {
	Search(ctx context.Context, query string, count int, orientation string) ([]string, error)
}

// BlogService manages posts and their generated content. Either generator
// may be nil when its API key is not configured.
type BlogService struct {
	blogs   repository.BlogRepository
	drafter Drafter
	images  ImageSearcher
	now     func() time.Time
}

func NewBlogService(blogs repository.BlogRepository, drafter Drafter, images ImageSearcher, now func() time.Time) *BlogService {
	if now == nil {
		now = time.Now
	}
	return &BlogService{blogs: blogs, drafter: drafter, images: images, now: now}
}

type GenerateInput struct {
	Keywords string `json:"keywords" binding:"required"`
}

// GeneratedPost is an unsaved draft.
type GeneratedPost struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

type BlogInput struct {
	Title       string     `json:"title" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	Keywords    string     `json:"keywords"`
	ImageURL    string     `json:"image_url"`
	ImageURLs   []string   `json:"image_urls"`
	ImageBase64 string     `json:"image_base64"`
	VideoURL    string     `json:"video_url"`
	AudioURL    string     `json:"audio_url"`
	Status      string     `json:"status" binding:"omitempty,oneof=draft published"`
	PublishedAt *time.Time `json:"published_at"`
}

type BlogPatch struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Keywords  *string   `json:"keywords"`
	ImageURL  *string   `json:"image_url"`
	ImageURLs *[]string `json:"image_urls"`
	VideoURL  *string   `json:"video_url"`
	AudioURL  *string   `json:"audio_url"`
	Status    *string   `json:"status" binding:"omitempty,oneof=draft published"`
}

var errBlogNotFound = utils.NotFoundError("Blog not found", nil)

// Generate drafts a post and, when image search is available, attaches one
// matching photo. A failed photo search does not fail the draft.
func (s *BlogService) Generate(ctx context.Context, keywords string) (*GeneratedPost, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, utils.InvalidInputError("keywords are required", nil)
	}
	if s.drafter == nil {
		return nil, utils.InternalError("Content generation not configured", nil)
	}

	draft, err := s.drafter.Draft(ctx, keywords)
	if err != nil {
		return nil, utils.UpstreamError("Failed to generate blog", nil, err)
	}
	title, body := content.SplitDraft(draft, keywords)
	post := &GeneratedPost{Title: title, Content: body}

	if s.images != nil {
		images, err := s.images.Search(ctx, keywords, 1, "")
		if err != nil {
			utils.LogWarn("Failed to fetch image for blog generation: %v", err)
		} else if len(images) > 0 {
			post.ImageBase64 = images[0]
		}
	}
	utils.LogInfo("Blog draft generated for %q", keywords)
	return post, nil
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.BlogPost, error) {
	status := in.Status
	if status == "" {
		status = models.BlogStatusDraft
	}
	post := &models.BlogPost{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug.Make(in.Title),
		Content:     in.Content,
		Keywords:    in.Keywords,
		ImageURL:    in.ImageURL,
		ImageURLs:   in.ImageURLs,
		ImageBase64: in.ImageBase64,
		VideoURL:    in.VideoURL,
		AudioURL:    in.AudioURL,
		Status:      status,
		CreatedAt:   s.now().UTC(),
		PublishedAt: in.PublishedAt,
	}
	if status == models.BlogStatusPublished && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
	if err := s.blogs.Create(ctx, post); err != nil {
		return nil, utils.InternalError("Failed to create blog", err)
	}
	utils.LogInfo("Blog %s created (%s)", post.ID, post.Status)
	return post, nil
}

// List returns posts with status, newest first. An empty status lists all.
func (s *BlogService) List(ctx context.Context, status string) ([]models.BlogPost, error) {
	posts, err := s.blogs.List(ctx, status)
	if err != nil {
		return nil, utils.InternalError("Failed to fetch blogs", err)
	}
	return posts, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := s.blogs.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errBlogNotFound
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch blog", err)
	}
	return post, nil
}

// Update applies the non-nil fields of patch. A new title also renews the
// slug; switching to published stamps published_at.
func (s *BlogService) Update(ctx context.Context, id string, patch BlogPatch) (*models.BlogPost, error) {
	fields := repository.Fields{}
	if patch.Title != nil {
		fields[models.BlogFieldTitle] = strings.TrimSpace(*patch.Title)
		fields[models.BlogFieldSlug] = slug.Make(*patch.Title)
	}
	if patch.Content != nil {
		fields[models.BlogFieldContent] = *patch.Content
	}
	if patch.Keywords != nil {
		fields[models.BlogFieldKeywords] = *patch.Keywords
	}
	if patch.ImageURL != nil {
		fields[models.BlogFieldImageURL] = *patch.ImageURL
	}
	if patch.ImageURLs != nil {
		fields[models.BlogFieldImageURLs] = *patch.ImageURLs
	}
	if patch.VideoURL != nil {
		fields[models.BlogFieldVideoURL] = *patch.VideoURL
	}
	if patch.AudioURL != nil {
		fields[models.BlogFieldAudioURL] = *patch.AudioURL
	}
	if patch.Status != nil {
		fields[models.BlogFieldStatus] = *patch.Status
		if *patch.Status == models.BlogStatusPublished {
			fields[models.BlogFieldPublishedAt] = s.now().UTC()
		}
	}
	if len(fields) == 0 {
		return nil, utils.InvalidInputError("No fields to update", nil)
	}

	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *BlogService) update(ctx context.Context, id string, fields repository.Fields) error {
	err := s.blogs.Update(ctx, id, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return errBlogNotFound
	}
	if err != nil {
		return utils.InternalError("Failed to update blog", err)
	}
	return nil
}

func (s *BlogService) Publish(ctx context.Context, id string) error {
	if err := s.update(ctx, id, repository.Fields{
		models.BlogFieldStatus:      models.BlogStatusPublished,
		models.BlogFieldPublishedAt: s.now().UTC(),
	}); err != nil {
		return err
	}
	utils.LogInfo("Blog %s published", id)
	return nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	err := s.blogs.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errBlogNotFound
	}
	if err != nil {
		return utils.InternalError("Failed to delete blog", err)
	}
	return nil
}

// SetImage stores an uploaded cover image given as a data URL.
func (s *BlogService) SetImage(ctx context.Context, id, dataURL string) error {
	return s.update(ctx, id, repository.Fields{models.BlogFieldImageURL: dataURL})
}

// SetAudio stores an uploaded audio track given as a data URL.
func (s *BlogService) SetAudio(ctx context.Context, id, dataURL string) error {
	return s.update(ctx, id, repository.Fields{models.BlogFieldAudioURL: dataURL})
}

// FetchImages returns up to five landscape photos for keywords.
func (s *BlogService) FetchImages(ctx context.Context, keywords string, count int) ([]string, error) {
	if count <= 0 {
		count = 3
	}
	if count > maxFetchedImages {
		count = maxFetchedImages
	}
	return s.search(ctx, keywords, count)
}

// FetchImage returns a single landscape photo for keywords.
func (s *BlogService) FetchImage(ctx context.Context, keywords string) (string, error) {
	images, err := s.search(ctx, keywords, 1)
	if err != nil {
		return "", err
	}
	return images[0], nil
}

func (s *BlogService) search(ctx context.Context, keywords string, count int) ([]string, error) {
	if s.images == nil {
		return nil, utils.InternalError("Pexels API key not configured", nil)
	}
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		keywords = defaultImageTerm
	}
	images, err := s.images.Search(ctx, keywords, count, "landscape")
	switch {
	case errors.Is(err, content.ErrNotConfigured):
		return nil, utils.InternalError("Pexels API key not configured", err)
	case errors.Is(err, content.ErrNoImages):
		return nil, utils.NotFoundError("No images found", nil)
	case err != nil:
		return nil, utils.UpstreamError("Failed to fetch images from web", nil, err)
	}
	return images, nil
}
