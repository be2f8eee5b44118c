package tmdb

import (
	"fmt"
	"time"
)

const (
	BaseURL      = "https://api.themoviedb.org/3"
	ImageBaseURL = "https://image.tmdb.org/t/p/"
)

const (
	SizePosterW92     = "w92"
	SizePosterW154    = "w154"
	SizePosterW185    = "w185"
	SizePosterW342    = "w342"
	SizePosterW500    = "w500"
	SizePosterW780    = "w780"
	SizeBackdropW300  = "w300"
	SizeBackdropW780  = "w780"
	SizeBackdropW1280 = "w1280"
	SizeProfileW185   = "w185"
	SizeOriginal      = "original"
)

// Config controls how the client talks to the metadata API.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables outbound throttling
	Burst             int
	CacheTTL          time.Duration
}

func (c *Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return BaseURL
}

// BuildImageURL resolves a relative image path against the image CDN.
// An empty path resolves to an empty URL.
func BuildImageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s%s%s", ImageBaseURL, size, path)
}

func BuildPosterURL(path string) string {
	return BuildImageURL(SizePosterW500, path)
}

func BuildBackdropURL(path string) string {
	return BuildImageURL(SizeOriginal, path)
}
