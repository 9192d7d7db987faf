package core

import "strings"

// Category display colors for overview charts.
const (
	colorEntertainment = "#EF4444"
	colorHealth        = "#22C55E"
	colorProductivity  = "#3B82F6"
	colorMusic         = "#14B8A6"
	colorGaming        = "#F97316"
	colorDefault       = "#9CA3AF"

	// customPlatformColor is the neutral tone assigned to user-authored
	// platforms, and customPlatformLogo their generated placeholder logo.
	customPlatformColor = "#6B7280"
	customPlatformLogo  = "https://images.pexels.com/photos/5903666/pexels-photo-5903666.jpeg?auto=compress&cs=tinysrgb&w=100"
)

// PlatformCatalog is the built-in set of subscription platforms.
var PlatformCatalog = []Platform{
	{ID: "netflix", Name: "Netflix", Logo: "https://images.pexels.com/photos/11721884/pexels-photo-11721884.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Entertainment", Color: "#E50914"},
	{ID: "spotify", Name: "Spotify", Logo: "https://images.pexels.com/photos/7845527/pexels-photo-7845527.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Music", Color: "#1DB954"},
	{ID: "disney", Name: "Disney+", Logo: "https://images.pexels.com/photos/5727395/pexels-photo-5727395.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Entertainment", Color: "#0063E5"},
	{ID: "hulu", Name: "Hulu", Logo: "https://images.pexels.com/photos/6801651/pexels-photo-6801651.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Entertainment", Color: "#3DBB3D"},
	{ID: "amazon", Name: "Amazon Prime", Logo: "https://images.pexels.com/photos/6483582/pexels-photo-6483582.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Shopping & Entertainment", Color: "#00A8E1"},
	{ID: "youtube", Name: "YouTube Premium", Logo: "https://images.pexels.com/photos/9228869/pexels-photo-9228869.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Entertainment", Color: "#FF0000"},
	{ID: "apple-music", Name: "Apple Music", Logo: "https://images.pexels.com/photos/4319752/pexels-photo-4319752.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Music", Color: "#FA243C"},
	{ID: "apple-tv", Name: "Apple TV+", Logo: "https://images.pexels.com/photos/5077045/pexels-photo-5077045.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Entertainment", Color: "#000000"},
	{ID: "hbo-max", Name: "HBO Max", Logo: "https://images.pexels.com/photos/5329054/pexels-photo-5329054.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Entertainment", Color: "#5822B4"},
	{ID: "paramount", Name: "Paramount+", Logo: "https://images.pexels.com/photos/7242693/pexels-photo-7242693.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Entertainment", Color: "#0064FF"},
	{ID: "adobe", Name: "Adobe Creative Cloud", Logo: "https://images.pexels.com/photos/7014337/pexels-photo-7014337.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Productivity", Color: "#FF0000"},
	{ID: "microsoft365", Name: "Microsoft 365", Logo: "https://images.pexels.com/photos/4195326/pexels-photo-4195326.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Productivity", Color: "#0078D4"},
	{ID: "nintendo", Name: "Nintendo Switch Online", Logo: "https://images.pexels.com/photos/4219812/pexels-photo-4219812.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Gaming", Color: "#E60012"},
	{ID: "playstation", Name: "PlayStation Plus", Logo: "https://images.pexels.com/photos/7324372/pexels-photo-7324372.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Gaming", Color: "#003791"},
	{ID: "xbox", Name: "Xbox Game Pass", Logo: "https://images.pexels.com/photos/6462662/pexels-photo-6462662.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Gaming", Color: "#107C10"},
	{ID: "canva", Name: "Canva Pro", Logo: "https://images.pexels.com/photos/4348404/pexels-photo-4348404.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Productivity", Color: "#00C4CC"},
	{ID: "notion", Name: "Notion", Logo: "https://images.pexels.com/photos/8927488/pexels-photo-8927488.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Productivity", Color: "#000000"},
	{ID: "figma", Name: "Figma", Logo: "https://images.pexels.com/photos/10283734/pexels-photo-10283734.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Productivity", Color: "#F24E1E"},
	{ID: "github", Name: "GitHub", Logo: "https://images.pexels.com/photos/11281577/pexels-photo-11281577.jpeg?auto=compress&cs=tinysrgb&w=100", Category: "Development", Color: "#181717"},
	{ID: "nytimes", Name: "New York Times", Logo: "https://images.pexels.com/photos/6053/newspapers-magazines-news-pages.jpg?auto=compress&cs=tinysrgb&w=100", Category: "News", Color: "#000000"},
}

// CatalogPlatform looks up a built-in platform by id.
func CatalogPlatform(id string) (Platform, bool) {
	for _, p := range PlatformCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}

// NewCustomPlatform builds a user-authored platform with a generated logo
// and neutral color. The caller assigns the id.
func NewCustomPlatform(id, name, category string) Platform {
	if strings.TrimSpace(category) == "" {
		category = "Other"
	}
	return Platform{
		ID:       id,
		Name:     name,
		Logo:     customPlatformLogo,
		Category: category,
		Color:    customPlatformColor,
		Custom:   true,
	}
}

// CategoryColor returns the display color for a category label. Unknown
// categories get a neutral tone.
func CategoryColor(category string) string {
	switch strings.ToLower(category) {
	case "entertainment":
		return colorEntertainment
	case "health":
		return colorHealth
	case "productivity":
		return colorProductivity
	case "music":
		return colorMusic
	case "gaming":
		return colorGaming
	default:
		return colorDefault
	}
}
