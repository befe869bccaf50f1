package models

import (
	"time"
)

// Auth providers
const (
	AuthProviderEmail  = "email"
	AuthProviderGoogle = "google"
)

// User represents a registered customer
type User struct {
	ID             string     `gorm:"primaryKey;size:64" bson:"id" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	HashedPassword string     `bson:"hashed_password" json:"-"`
	FirstName      string     `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName       string     `bson:"last_name,omitempty" json:"last_name,omitempty"`
	AuthProvider   string     `gorm:"size:16" bson:"auth_provider" json:"auth_provider"`
	GoogleID       *string    `gorm:"uniqueIndex" bson:"google_id,omitempty" json:"google_id,omitempty"`
	IsMember       bool       `bson:"is_member" json:"is_member"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	LastLogin      *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
}

// PasswordResetToken is a one-time record of an issued reset token
type PasswordResetToken struct {
	Token     string    `gorm:"primaryKey" bson:"token" json:"-"`
	UserID    string    `gorm:"index" bson:"user_id" json:"user_id"`
	Used      bool      `bson:"used" json:"used"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Blog post statuses
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// BlogPost represents an article, usually drafted by the content generator
type BlogPost struct {
	ID          string     `gorm:"primaryKey;size:64" bson:"id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Slug        string     `gorm:"index" bson:"slug" json:"slug"`
	Content     string     `bson:"content" json:"content"`
	Keywords    string     `bson:"keywords" json:"keywords"`
	ImageURL    string     `bson:"image_url,omitempty" json:"image_url,omitempty"`
	ImageURLs   []string   `gorm:"column:image_urls;serializer:json" bson:"image_urls,omitempty" json:"image_urls,omitempty"`
	ImageBase64 string     `bson:"image_base64,omitempty" json:"image_base64,omitempty"`
	VideoURL    string     `bson:"video_url,omitempty" json:"video_url,omitempty"`
	AudioURL    string     `bson:"audio_url,omitempty" json:"audio_url,omitempty"`
	Status      string     `gorm:"index;size:16" bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

// Product is a shop catalog entry
type Product struct {
	ID          string  `gorm:"primaryKey;size:64" bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Category    string  `bson:"category,omitempty" json:"category,omitempty"`
	Type        string  `gorm:"size:16" bson:"type" json:"type"`
	ImageURL    string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Setting is a keyed bag of site settings (landing page, blog features)
type Setting struct {
	Type string                 `gorm:"primaryKey;size:64" bson:"type" json:"type"`
	Data map[string]interface{} `gorm:"serializer:json" bson:"data" json:"data"`
}

// Setting keys
const (
	SettingLandingPage  = "landing_page"
	SettingBlogFeatures = "blog_features"
)

// ColorProfile is a saved card gradient (start, middle and end RGBA stops)
type ColorProfile struct {
	ID            string    `gorm:"primaryKey;size:64" bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	StartR        int       `bson:"start_r" json:"startR"`
	StartG        int       `bson:"start_g" json:"startG"`
	StartB        int       `bson:"start_b" json:"startB"`
	StartOpacity  float64   `bson:"start_opacity" json:"startOpacity"`
	MiddleR       int       `bson:"middle_r" json:"middleR"`
	MiddleG       int       `bson:"middle_g" json:"middleG"`
	MiddleB       int       `bson:"middle_b" json:"middleB"`
	MiddleOpacity float64   `bson:"middle_opacity" json:"middleOpacity"`
	EndR          int       `bson:"end_r" json:"endR"`
	EndG          int       `bson:"end_g" json:"endG"`
	EndB          int       `bson:"end_b" json:"endB"`
	EndOpacity    float64   `bson:"end_opacity" json:"endOpacity"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// Column names used for partial updates
const (
	UserFieldHashedPassword = "hashed_password"
	UserFieldLastLogin      = "last_login"
	UserFieldGoogleID       = "google_id"

	ProductFieldName        = "name"
	ProductFieldPrice       = "price"
	ProductFieldDescription = "description"
	ProductFieldCategory    = "category"
	ProductFieldType        = "type"
	ProductFieldImageURL    = "image_url"

	BlogFieldTitle       = "title"
	BlogFieldSlug        = "slug"
	BlogFieldContent     = "content"
	BlogFieldKeywords    = "keywords"
	BlogFieldImageURL    = "image_url"
	BlogFieldImageURLs   = "image_urls"
	BlogFieldImageBase64 = "image_base64"
	BlogFieldVideoURL    = "video_url"
	BlogFieldAudioURL    = "audio_url"
	BlogFieldStatus      = "status"
	BlogFieldPublishedAt = "published_at"
)
