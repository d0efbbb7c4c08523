package relationaldata

import (
	"time"

	"github.com/bit-badger/myweblog/internal/models"
)

// Row types map the domain model onto normalized tables. Ordered lists that
// the document backends keep inside one JSON document (revisions, prior
// permalinks, post categories and tags) become child tables here; small
// self-contained structures (RSS options, redirect rules, metadata, episode
// details) stay as JSON columns via gorm's serializer.

type webLogRow struct {
	ID           string  `gorm:"primaryKey"`
	Name         string  `gorm:"not null"`
	Slug         string  `gorm:"not null"`
	Subtitle     *string
	DefaultPage  string
	PostsPerPage int
	ThemeID      string
	URLBase      string `gorm:"column:url_base;uniqueIndex;not null"`
	TimeZone     string
	AutoHtmx     bool
	Uploads      string
	Rss          models.RssOptions     `gorm:"serializer:json"`
	Redirects    []models.RedirectRule `gorm:"serializer:json"`
}

func (webLogRow) TableName() string { return "web_log" }

func (r *webLogRow) toModel() models.WebLog {
	return models.WebLog{
		ID:           models.WebLogID(r.ID),
		Name:         r.Name,
		Slug:         r.Slug,
		Subtitle:     r.Subtitle,
		DefaultPage:  r.DefaultPage,
		PostsPerPage: r.PostsPerPage,
		ThemeID:      models.ThemeID(r.ThemeID),
		URLBase:      r.URLBase,
		TimeZone:     r.TimeZone,
		Rss:          r.Rss,
		AutoHtmx:     r.AutoHtmx,
		Uploads:      r.Uploads,
		Redirects:    r.Redirects,
	}
}

func webLogToRow(w *models.WebLog) webLogRow {
	return webLogRow{
		ID:           string(w.ID),
		Name:         w.Name,
		Slug:         w.Slug,
		Subtitle:     w.Subtitle,
		DefaultPage:  w.DefaultPage,
		PostsPerPage: w.PostsPerPage,
		ThemeID:      string(w.ThemeID),
		URLBase:      w.URLBase,
		TimeZone:     w.TimeZone,
		Rss:          w.Rss,
		AutoHtmx:     w.AutoHtmx,
		Uploads:      w.Uploads,
		Redirects:    w.Redirects,
	}
}

type categoryRow struct {
	ID          string `gorm:"primaryKey"`
	WebLogID    string `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Slug        string `gorm:"not null"`
	Description *string
	ParentID    *string `gorm:"index"`
}

func (categoryRow) TableName() string { return "category" }

func (r *categoryRow) toModel() models.Category {
	cat := models.Category{
		ID:          models.CategoryID(r.ID),
		WebLogID:    models.WebLogID(r.WebLogID),
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
	}
	if r.ParentID != nil {
		parent := models.CategoryID(*r.ParentID)
		cat.ParentID = &parent
	}
	return cat
}

func categoryToRow(c *models.Category) categoryRow {
	row := categoryRow{
		ID:          string(c.ID),
		WebLogID:    string(c.WebLogID),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
	if c.ParentID != nil {
		parent := string(*c.ParentID)
		row.ParentID = &parent
	}
	return row
}

type pageRow struct {
	ID           string `gorm:"primaryKey"`
	WebLogID     string `gorm:"index;uniqueIndex:page_permalink_idx;not null"`
	AuthorID     string `gorm:"index;not null"`
	Title        string
	Permalink    string `gorm:"uniqueIndex:page_permalink_idx;not null"`
	PublishedOn  time.Time
	UpdatedOn    time.Time
	IsInPageList bool
	Template     *string
	Text         string            `gorm:"type:text"`
	Metadata     []models.MetaItem `gorm:"serializer:json"`
}

func (pageRow) TableName() string { return "page" }

type pagePermalinkRow struct {
	ID        uint   `gorm:"primaryKey"`
	PageID    string `gorm:"index;not null"`
	Permalink string `gorm:"not null"`
}

func (pagePermalinkRow) TableName() string { return "page_permalink" }

type pageRevisionRow struct {
	ID         uint   `gorm:"primaryKey"`
	PageID     string `gorm:"index;not null"`
	AsOf       time.Time
	SourceType string
	Text       string `gorm:"type:text"`
}

func (pageRevisionRow) TableName() string { return "page_revision" }

func (r *pageRow) toModel() models.Page {
	return models.Page{
		ID:           models.PageID(r.ID),
		WebLogID:     models.WebLogID(r.WebLogID),
		AuthorID:     models.WebLogUserID(r.AuthorID),
		Title:        r.Title,
		Permalink:    r.Permalink,
		PublishedOn:  r.PublishedOn,
		UpdatedOn:    r.UpdatedOn,
		IsInPageList: r.IsInPageList,
		Template:     r.Template,
		Text:         r.Text,
		Metadata:     r.Metadata,
	}
}

func pageToRow(p *models.Page) pageRow {
	return pageRow{
		ID:           string(p.ID),
		WebLogID:     string(p.WebLogID),
		AuthorID:     string(p.AuthorID),
		Title:        p.Title,
		Permalink:    p.Permalink,
		PublishedOn:  p.PublishedOn,
		UpdatedOn:    p.UpdatedOn,
		IsInPageList: p.IsInPageList,
		Template:     p.Template,
		Text:         p.Text,
		Metadata:     p.Metadata,
	}
}

type postRow struct {
	ID          string `gorm:"primaryKey"`
	WebLogID    string `gorm:"index;uniqueIndex:post_permalink_idx;not null"`
	AuthorID    string `gorm:"index;not null"`
	Status      string `gorm:"index;not null"`
	Title       string
	Permalink   string `gorm:"uniqueIndex:post_permalink_idx;not null"`
	PublishedOn *time.Time
	UpdatedOn   time.Time
	Template    *string
	Text        string            `gorm:"type:text"`
	Episode     *models.Episode   `gorm:"serializer:json"`
	Metadata    []models.MetaItem `gorm:"serializer:json"`
}

func (postRow) TableName() string { return "post" }

type postPermalinkRow struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    string `gorm:"index;not null"`
	Permalink string `gorm:"not null"`
}

func (postPermalinkRow) TableName() string { return "post_permalink" }

type postRevisionRow struct {
	ID         uint   `gorm:"primaryKey"`
	PostID     string `gorm:"index;not null"`
	AsOf       time.Time
	SourceType string
	Text       string `gorm:"type:text"`
}

func (postRevisionRow) TableName() string { return "post_revision" }

type postCategoryRow struct {
	PostID     string `gorm:"primaryKey"`
	CategoryID string `gorm:"primaryKey;index"`
}

func (postCategoryRow) TableName() string { return "post_category" }

type postTagRow struct {
	PostID string `gorm:"primaryKey"`
	Tag    string `gorm:"primaryKey;index"`
}

func (postTagRow) TableName() string { return "post_tag" }

func (r *postRow) toModel() models.Post {
	return models.Post{
		ID:          models.PostID(r.ID),
		WebLogID:    models.WebLogID(r.WebLogID),
		AuthorID:    models.WebLogUserID(r.AuthorID),
		Status:      r.Status,
		Title:       r.Title,
		Permalink:   r.Permalink,
		PublishedOn: r.PublishedOn,
		UpdatedOn:   r.UpdatedOn,
		Template:    r.Template,
		Text:        r.Text,
		Episode:     r.Episode,
		Metadata:    r.Metadata,
	}
}

func postToRow(p *models.Post) postRow {
	return postRow{
		ID:          string(p.ID),
		WebLogID:    string(p.WebLogID),
		AuthorID:    string(p.AuthorID),
		Status:      p.Status,
		Title:       p.Title,
		Permalink:   p.Permalink,
		PublishedOn: p.PublishedOn,
		UpdatedOn:   p.UpdatedOn,
		Template:    p.Template,
		Text:        p.Text,
		Episode:     p.Episode,
		Metadata:    p.Metadata,
	}
}

type commentRow struct {
	ID          string `gorm:"primaryKey"`
	PostID      string `gorm:"index;not null"`
	InReplyToID *string
	Name        string
	Email       string
	URL         *string
	Status      string
	PostedOn    time.Time
	Text        string `gorm:"type:text"`
}

func (commentRow) TableName() string { return "comment" }

type tagMapRow struct {
	ID       string `gorm:"primaryKey"`
	WebLogID string `gorm:"index;uniqueIndex:tag_map_tag_idx;uniqueIndex:tag_map_url_idx;not null"`
	Tag      string `gorm:"uniqueIndex:tag_map_tag_idx;not null"`
	URLValue string `gorm:"column:url_value;uniqueIndex:tag_map_url_idx;not null"`
}

func (tagMapRow) TableName() string { return "tag_map" }

func (r *tagMapRow) toModel() models.TagMap {
	return models.TagMap{
		ID:       models.TagMapID(r.ID),
		WebLogID: models.WebLogID(r.WebLogID),
		Tag:      r.Tag,
		URLValue: r.URLValue,
	}
}

type uploadRow struct {
	ID        string `gorm:"primaryKey"`
	WebLogID  string `gorm:"index;uniqueIndex:upload_path_idx;not null"`
	Path      string `gorm:"uniqueIndex:upload_path_idx;not null"`
	UpdatedOn time.Time
	Data      []byte
}

func (uploadRow) TableName() string { return "upload" }

type themeRow struct {
	ID      string `gorm:"primaryKey"`
	Name    string
	Version string
}

func (themeRow) TableName() string { return "theme" }

type themeTemplateRow struct {
	ThemeID string `gorm:"primaryKey"`
	Idx     int    `gorm:"primaryKey;autoIncrement:false"`
	Name    string
	Text    string `gorm:"type:text"`
}

func (themeTemplateRow) TableName() string { return "theme_template" }

type themeAssetRow struct {
	ThemeID   string `gorm:"primaryKey"`
	Path      string `gorm:"primaryKey"`
	UpdatedOn time.Time
	Data      []byte
}

func (themeAssetRow) TableName() string { return "theme_asset" }

type webLogUserRow struct {
	ID            string `gorm:"primaryKey"`
	WebLogID      string `gorm:"index;uniqueIndex:user_email_idx;not null"`
	Email         string `gorm:"uniqueIndex:user_email_idx;not null"`
	FirstName     string
	LastName      string
	PreferredName string
	PasswordHash  string
	Salt          *string
	URL           *string
	AccessLevel   string
	CreatedOn     time.Time
	LastSeenOn    *time.Time
}

func (webLogUserRow) TableName() string { return "web_log_user" }

func (r *webLogUserRow) toModel() models.WebLogUser {
	return models.WebLogUser{
		ID:            models.WebLogUserID(r.ID),
		WebLogID:      models.WebLogID(r.WebLogID),
		Email:         r.Email,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		PreferredName: r.PreferredName,
		PasswordHash:  r.PasswordHash,
		Salt:          r.Salt,
		URL:           r.URL,
		AccessLevel:   r.AccessLevel,
		CreatedOn:     r.CreatedOn,
		LastSeenOn:    r.LastSeenOn,
	}
}

func userToRow(u *models.WebLogUser) webLogUserRow {
	return webLogUserRow{
		ID:            string(u.ID),
		WebLogID:      string(u.WebLogID),
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		PreferredName: u.PreferredName,
		PasswordHash:  u.PasswordHash,
		Salt:          u.Salt,
		URL:           u.URL,
		AccessLevel:   u.AccessLevel,
		CreatedOn:     u.CreatedOn,
		LastSeenOn:    u.LastSeenOn,
	}
}

type dbVersionRow struct {
	ID      int    `gorm:"primaryKey;autoIncrement:false"`
	Version string `gorm:"not null"`
}

func (dbVersionRow) TableName() string { return "db_version" }
