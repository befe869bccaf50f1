package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/apebrain/shop-api/utils"
)

const pexelsSearchURL = "https://api.pexels.com/v1/search"

// ErrNoImages is returned when a search found nothing downloadable.
var ErrNoImages = errors.New("no images found")

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("pexels api key not configured")

// Pexels searches stock photos and returns them inline as data URLs.
type Pexels struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewPexels builds an image search client.
func NewPexels(apiKey string, timeout time.Duration) *Pexels {
	return &Pexels{
		apiKey:  apiKey,
		baseURL: pexelsSearchURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type pexelsSearch struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

// Search downloads up to count photos matching query. An empty orientation
// leaves it unconstrained. Individual download failures are skipped.
func (p *Pexels) Search(ctx context.Context, query string, count int, orientation string) ([]string, error) {
	if p.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	if orientation != "" {
		params.Set("orientation", orientation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels search returned status %d", resp.StatusCode)
	}

	var result pexelsSearch
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode pexels response: %w", err)
	}

	var images []string
	for _, photo := range result.Photos {
		if len(images) == count {
			break
		}
		if photo.Src.Medium == "" {
			continue
		}
		img, err := p.download(ctx, photo.Src.Medium)
		if err != nil {
			utils.LogError("Error downloading image %s: %v", photo.Src.Medium, err)
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

func (p *Pexels) download(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return utils.EncodeDataURL("image/jpeg", body), nil
}
