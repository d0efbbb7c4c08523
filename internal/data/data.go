package data

import (
	"context"
	"time"

	"github.com/bit-badger/myweblog/internal/models"
)

// CategoryData is the data port for post categories.
type CategoryData interface {
	// Add inserts a new category; the id must not already exist.
	Add(ctx context.Context, cat *models.Category) error
	// CountAll returns the number of categories for the web log.
	CountAll(ctx context.Context, webLogID models.WebLogID) (int, error)
	// CountTopLevel returns the number of categories with no parent.
	CountTopLevel(ctx context.Context, webLogID models.WebLogID) (int, error)
	// Delete removes a category, stripping its id from every post that
	// carries it and reassigning its child categories to its own parent.
	// It reports whether any children were reassigned, and ErrNotFound
	// when the category does not exist for the web log.
	Delete(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (reassigned bool, err error)
	// FindAllForView returns the ordered hierarchy view with post counts.
	FindAllForView(ctx context.Context, webLogID models.WebLogID) ([]models.DisplayCategory, error)
	// FindByID returns the category, or nil when it is absent or owned by
	// a different web log.
	FindByID(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (*models.Category, error)
	// FindByWebLog returns every category for the web log.
	FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Category, error)
	// Restore bulk-inserts categories from a backup snapshot.
	Restore(ctx context.Context, cats []models.Category) error
	// Update replaces the category's name, slug, description, and parent.
	Update(ctx context.Context, cat *models.Category) error
}

// PageData is the data port for pages.
type PageData interface {
	// Add inserts a new page with its revisions.
	Add(ctx context.Context, page *models.Page) error
	// All returns every page for the web log, without text, metadata,
	// revisions, or prior permalinks, sorted by lower-cased title.
	All(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error)
	// CountAll returns the number of pages for the web log.
	CountAll(ctx context.Context, webLogID models.WebLogID) (int, error)
	// CountListed returns the number of pages shown in the page list.
	CountListed(ctx context.Context, webLogID models.WebLogID) (int, error)
	// Delete removes a page, reporting false when it does not exist for
	// the web log.
	Delete(ctx context.Context, id models.PageID, webLogID models.WebLogID) (bool, error)
	// FindByID returns the page without revisions or prior permalinks,
	// or nil when absent.
	FindByID(ctx context.Context, id models.PageID, webLogID models.WebLogID) (*models.Page, error)
	// FindByPermalink returns the page whose current permalink matches,
	// or nil when none does.
	FindByPermalink(ctx context.Context, permalink string, webLogID models.WebLogID) (*models.Page, error)
	// FindCurrentPermalink returns the current permalink of the page
	// whose prior permalinks contain any of the candidates, or "" when
	// no page matches.
	FindCurrentPermalink(ctx context.Context, permalinks []string, webLogID models.WebLogID) (string, error)
	// FindFullByID returns the page with all revisions and permalinks.
	FindFullByID(ctx context.Context, id models.PageID, webLogID models.WebLogID) (*models.Page, error)
	// FindFullByWebLog returns every page in full, for backups.
	FindFullByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error)
	// FindListed returns the pages shown in the page list, without text,
	// sorted by lower-cased title.
	FindListed(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error)
	// FindPageOfPages returns one admin page of pages sorted by
	// lower-cased title, fetching one row beyond pageSize so the caller
	// can detect a further page.
	FindPageOfPages(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Page, error)
	// Restore bulk-inserts pages from a backup snapshot.
	Restore(ctx context.Context, pages []models.Page) error
	// Update saves the page's title, permalink, dates, page-list flag,
	// template, text, metadata, and revisions.
	Update(ctx context.Context, page *models.Page) error
	// UpdatePriorPermalinks replaces the page's prior permalink list,
	// reporting false without mutating when the page does not exist for
	// the web log.
	UpdatePriorPermalinks(ctx context.Context, id models.PageID, webLogID models.WebLogID, permalinks []string) (bool, error)
}

// PostData is the data port for posts.
type PostData interface {
	// Add inserts a new post with its revisions.
	Add(ctx context.Context, post *models.Post) error
	// CountByStatus returns the number of posts with the given status.
	CountByStatus(ctx context.Context, status string, webLogID models.WebLogID) (int, error)
	// Delete removes a post and its comments, reporting false when it
	// does not exist for the web log.
	Delete(ctx context.Context, id models.PostID, webLogID models.WebLogID) (bool, error)
	// FindByID returns the post without revisions or prior permalinks,
	// or nil when absent.
	FindByID(ctx context.Context, id models.PostID, webLogID models.WebLogID) (*models.Post, error)
	// FindByPermalink returns the post whose current permalink matches,
	// or nil when none does.
	FindByPermalink(ctx context.Context, permalink string, webLogID models.WebLogID) (*models.Post, error)
	// FindCurrentPermalink returns the current permalink of the post
	// whose prior permalinks contain any of the candidates, or "" when
	// no post matches.
	FindCurrentPermalink(ctx context.Context, permalinks []string, webLogID models.WebLogID) (string, error)
	// FindFullByID returns the post with all revisions and permalinks.
	FindFullByID(ctx context.Context, id models.PostID, webLogID models.WebLogID) (*models.Post, error)
	// FindFullByWebLog returns every post in full, for backups.
	FindFullByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Post, error)
	// FindPageOfCategorizedPosts returns one page of published posts in
	// any of the given categories, newest first.
	FindPageOfCategorizedPosts(ctx context.Context, webLogID models.WebLogID, catIDs []models.CategoryID, pageNbr, pageSize int) ([]models.Post, error)
	// FindPageOfPosts returns one admin page of posts of any status,
	// sorted by published date (updated date for drafts), newest first.
	FindPageOfPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error)
	// FindPageOfPublishedPosts returns one page of published posts,
	// newest first.
	FindPageOfPublishedPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error)
	// FindPageOfTaggedPosts returns one page of published posts carrying
	// the given tag, newest first.
	FindPageOfTaggedPosts(ctx context.Context, webLogID models.WebLogID, tag string, pageNbr, pageSize int) ([]models.Post, error)
	// FindSurroundingPosts returns the published posts nearest strictly
	// before and strictly after the given date; either may be nil.
	FindSurroundingPosts(ctx context.Context, webLogID models.WebLogID, publishedOn time.Time) (older, newer *models.Post, err error)
	// Restore bulk-inserts posts from a backup snapshot.
	Restore(ctx context.Context, posts []models.Post) error
	// Update replaces the post document in full.
	Update(ctx context.Context, post *models.Post) error
	// UpdatePriorPermalinks replaces the post's prior permalink list,
	// reporting false without mutating when the post does not exist for
	// the web log.
	UpdatePriorPermalinks(ctx context.Context, id models.PostID, webLogID models.WebLogID, permalinks []string) (bool, error)
}

// TagMapData is the data port for tag-to-URL mappings.
type TagMapData interface {
	// Delete removes a mapping, reporting false when it does not exist
	// for the web log.
	Delete(ctx context.Context, id models.TagMapID, webLogID models.WebLogID) (bool, error)
	// FindByID returns the mapping, or nil when absent.
	FindByID(ctx context.Context, id models.TagMapID, webLogID models.WebLogID) (*models.TagMap, error)
	// FindByURLValue returns the mapping with the given URL value, or
	// nil when none exists.
	FindByURLValue(ctx context.Context, urlValue string, webLogID models.WebLogID) (*models.TagMap, error)
	// FindByWebLog returns every mapping for the web log, sorted by tag.
	FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.TagMap, error)
	// FindMappingForTags resolves the given raw tags to their mappings
	// in one call; tags without a mapping are simply absent.
	FindMappingForTags(ctx context.Context, tags []string, webLogID models.WebLogID) ([]models.TagMap, error)
	// Restore bulk-inserts mappings from a backup snapshot.
	Restore(ctx context.Context, tagMaps []models.TagMap) error
	// Save inserts or replaces a mapping.
	Save(ctx context.Context, tagMap *models.TagMap) error
}

// ThemeData is the data port for themes. Themes are global, not owned by a
// web log.
type ThemeData interface {
	// All returns every theme with template text blanked, sorted by id,
	// excluding the admin theme.
	All(ctx context.Context) ([]models.Theme, error)
	// Delete removes a theme and all of its assets, reporting false when
	// the theme does not exist.
	Delete(ctx context.Context, id models.ThemeID) (bool, error)
	// Exists reports whether a theme with the given id exists.
	Exists(ctx context.Context, id models.ThemeID) (bool, error)
	// FindByID returns the theme with all template text, or nil.
	FindByID(ctx context.Context, id models.ThemeID) (*models.Theme, error)
	// FindByIDWithoutText returns the theme with template text blanked.
	FindByIDWithoutText(ctx context.Context, id models.ThemeID) (*models.Theme, error)
	// Save inserts or replaces a theme.
	Save(ctx context.Context, theme *models.Theme) error
}

// ThemeAssetData is the data port for theme static assets.
type ThemeAssetData interface {
	// All returns every asset without its binary data.
	All(ctx context.Context) ([]models.ThemeAsset, error)
	// DeleteByTheme removes every asset belonging to the theme.
	DeleteByTheme(ctx context.Context, themeID models.ThemeID) error
	// FindByID returns the asset with its data, or nil when absent.
	FindByID(ctx context.Context, id models.ThemeAssetID) (*models.ThemeAsset, error)
	// FindByTheme returns the theme's assets without binary data.
	FindByTheme(ctx context.Context, themeID models.ThemeID) ([]models.ThemeAsset, error)
	// FindByThemeWithData returns the theme's assets including data.
	FindByThemeWithData(ctx context.Context, themeID models.ThemeID) ([]models.ThemeAsset, error)
	// Save inserts or replaces an asset.
	Save(ctx context.Context, asset *models.ThemeAsset) error
}

// UploadData is the data port for database-stored uploads.
type UploadData interface {
	// Add inserts a new upload.
	Add(ctx context.Context, upload *models.Upload) error
	// Delete removes an upload, returning its path; ErrNotFound when it
	// does not exist for the web log.
	Delete(ctx context.Context, id models.UploadID, webLogID models.WebLogID) (string, error)
	// FindByPath returns the upload at the given path with its data, or
	// nil when absent.
	FindByPath(ctx context.Context, path string, webLogID models.WebLogID) (*models.Upload, error)
	// FindByWebLog returns the web log's uploads without binary data.
	FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Upload, error)
	// FindByWebLogWithData returns the web log's uploads including data.
	FindByWebLogWithData(ctx context.Context, webLogID models.WebLogID) ([]models.Upload, error)
	// Restore bulk-inserts uploads from a backup snapshot, batched small
	// to bound per-request payload size.
	Restore(ctx context.Context, uploads []models.Upload) error
}

// WebLogData is the data port for web logs themselves.
type WebLogData interface {
	// Add inserts a new web log.
	Add(ctx context.Context, webLog *models.WebLog) error
	// All returns every web log.
	All(ctx context.Context) ([]models.WebLog, error)
	// Delete removes a web log and everything it owns: comments, posts,
	// pages, categories, tag mappings, uploads, and users, dependents
	// first.
	Delete(ctx context.Context, webLogID models.WebLogID) error
	// FindByHost returns the web log whose URL base matches, or nil.
	FindByHost(ctx context.Context, url string) (*models.WebLog, error)
	// FindByID returns the web log, or nil when absent.
	FindByID(ctx context.Context, webLogID models.WebLogID) (*models.WebLog, error)
	// UpdateRedirectRules saves only the web log's redirect rules.
	UpdateRedirectRules(ctx context.Context, webLog *models.WebLog) error
	// UpdateRssOptions saves only the web log's RSS options.
	UpdateRssOptions(ctx context.Context, webLog *models.WebLog) error
	// UpdateSettings saves the web log's settings other than RSS options
	// and redirect rules.
	UpdateSettings(ctx context.Context, webLog *models.WebLog) error
}

// WebLogUserData is the data port for web log users.
type WebLogUserData interface {
	// Add inserts a new user.
	Add(ctx context.Context, user *models.WebLogUser) error
	// Delete removes a user; ErrReferenced when the user has authored
	// pages or posts, ErrNotFound when absent.
	Delete(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) error
	// FindByEmail returns the user with the given e-mail address, or nil.
	FindByEmail(ctx context.Context, email string, webLogID models.WebLogID) (*models.WebLogUser, error)
	// FindByID returns the user, or nil when absent.
	FindByID(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) (*models.WebLogUser, error)
	// FindByWebLog returns every user, sorted by preferred name.
	FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.WebLogUser, error)
	// FindNames resolves ids to display names for bylines.
	FindNames(ctx context.Context, webLogID models.WebLogID, ids []models.WebLogUserID) ([]models.UserName, error)
	// Restore bulk-inserts users from a backup snapshot.
	Restore(ctx context.Context, users []models.WebLogUser) error
	// SetLastSeen updates the user's last-seen date to now; absence is
	// not an error.
	SetLastSeen(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) error
	// Update saves the user's names, e-mail, password hash, URL, and
	// access level.
	Update(ctx context.Context, user *models.WebLogUser) error
}

// Store is the lifecycle surface a backend adapter provides beneath its
// ports.
type Store interface {
	// StartUp creates missing tables and indexes and applies any pending
	// data migrations; it is idempotent and safe to race between
	// instances creating the same objects.
	StartUp(ctx context.Context) error
	// Close releases the backend's connections.
	Close() error
}

// Data is the facade the web layer depends on: one port per entity plus the
// backend lifecycle.
type Data struct {
	Category   CategoryData
	Page       PageData
	Post       PostData
	TagMap     TagMapData
	Theme      ThemeData
	ThemeAsset ThemeAssetData
	Upload     UploadData
	WebLog     WebLogData
	WebLogUser WebLogUserData

	store Store
}

// NewData assembles a facade over a backend's ports and lifecycle.
func NewData(store Store, category CategoryData, page PageData, post PostData,
	tagMap TagMapData, theme ThemeData, themeAsset ThemeAssetData,
	upload UploadData, webLog WebLogData, webLogUser WebLogUserData) *Data {
	return &Data{
		Category:   category,
		Page:       page,
		Post:       post,
		TagMap:     tagMap,
		Theme:      theme,
		ThemeAsset: themeAsset,
		Upload:     upload,
		WebLog:     webLog,
		WebLogUser: webLogUser,
		store:      store,
	}
}

// StartUp prepares the backend schema and data for this build.
func (d *Data) StartUp(ctx context.Context) error { return d.store.StartUp(ctx) }

// Close releases the backend's connections.
func (d *Data) Close() error { return d.store.Close() }
