package models

// Upload destinations; where a web log keeps its uploaded files.
const (
	UploadToDatabase = "Database"
	UploadToDisk     = "Disk"
)

// PodcastOptions carries the iTunes/RSS podcast metadata for a custom feed.
type PodcastOptions struct {
	Title             string  `json:"title"`
	Subtitle          *string `json:"subtitle,omitempty"`
	ItemsInFeed       int     `json:"itemsInFeed"`
	Summary           string  `json:"summary"`
	DisplayedAuthor   string  `json:"displayedAuthor"`
	Email             string  `json:"email"`
	ImageURL          string  `json:"imageUrl"`
	AppleCategory     string  `json:"appleCategory"`
	AppleSubcategory  *string `json:"appleSubcategory,omitempty"`
	Explicit          string  `json:"explicit"`
	DefaultMediaType  *string `json:"defaultMediaType,omitempty"`
	MediaBaseURL      *string `json:"mediaBaseUrl,omitempty"`
	PodcastGUID       *string `json:"podcastGuid,omitempty"`
	FundingURL        *string `json:"fundingUrl,omitempty"`
	FundingText       *string `json:"fundingText,omitempty"`
	Medium            *string `json:"medium,omitempty"`
}

// CustomFeed is an additional RSS feed for one category or tag of a web log.
type CustomFeed struct {
	ID      string          `json:"id"`
	Source  string          `json:"source"`
	Path    string          `json:"path"`
	Podcast *PodcastOptions `json:"podcast,omitempty"`
}

// RssOptions configures the RSS feeds for a web log.
type RssOptions struct {
	IsFeedEnabled     bool         `json:"isFeedEnabled"`
	FeedName          string       `json:"feedName"`
	ItemsInFeed       *int         `json:"itemsInFeed,omitempty"`
	IsCategoryEnabled bool         `json:"isCategoryEnabled"`
	IsTagEnabled      bool         `json:"isTagEnabled"`
	Copyright         *string      `json:"copyright,omitempty"`
	CustomFeeds       []CustomFeed `json:"customFeeds"`
}

// DefaultRssOptions returns the feed settings a new web log starts with.
func DefaultRssOptions() RssOptions {
	return RssOptions{IsFeedEnabled: true, FeedName: "feed.xml", CustomFeeds: []CustomFeed{}}
}

// RedirectRule maps a request path (or regex) to its destination; rules are
// evaluated in order by the web layer.
type RedirectRule struct {
	From    string `json:"from"`
	To      string `json:"to"`
	IsRegex bool   `json:"isRegex"`
}

// WebLog is one blog instance (tenant). UrlBase is the tenant routing key and
// must be unique across all web logs.
type WebLog struct {
	ID           WebLogID       `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Subtitle     *string        `json:"subtitle,omitempty"`
	DefaultPage  string         `json:"defaultPage"`
	PostsPerPage int            `json:"postsPerPage"`
	ThemeID      ThemeID        `json:"themeId"`
	URLBase      string         `json:"urlBase"`
	TimeZone     string         `json:"timeZone"`
	Rss          RssOptions     `json:"rss"`
	AutoHtmx     bool           `json:"autoHtmx"`
	Uploads      string         `json:"uploads"`
	Redirects    []RedirectRule `json:"redirectRules"`
}
