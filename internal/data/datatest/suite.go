// Package datatest exercises a backend through the data facade. Every
// backend adapter must pass the same suite; backend-specific behavior stays
// in the backend's own tests.
package datatest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

// OpenFunc opens a fresh, empty store for one test run.
type OpenFunc func(t *testing.T) *data.Data

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// at builds a whole-second UTC timestamp; sub-second precision does not
// survive every backend's date round-trip.
func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

// RunSuite drives one backend through every port.
func RunSuite(t *testing.T, open OpenFunc) {
	ctx := context.Background()
	d := open(t)
	require.NoError(t, d.StartUp(ctx))
	// A second start against an initialized store changes nothing.
	require.NoError(t, d.StartUp(ctx))

	webLogID := models.NewWebLogID()
	otherID := models.NewWebLogID()
	authorID := models.NewWebLogUserID()

	t.Run("web logs", func(t *testing.T) { testWebLogs(t, ctx, d, webLogID, otherID) })
	t.Run("users", func(t *testing.T) { testUsers(t, ctx, d, webLogID, otherID, authorID) })
	t.Run("pages", func(t *testing.T) { testPages(t, ctx, d, webLogID, otherID, authorID) })
	t.Run("posts", func(t *testing.T) { testPosts(t, ctx, d, webLogID, otherID, authorID) })
	t.Run("categories", func(t *testing.T) { testCategories(t, ctx, d, webLogID, authorID) })
	t.Run("tag mappings", func(t *testing.T) { testTagMaps(t, ctx, d, webLogID, otherID) })
	t.Run("themes", func(t *testing.T) { testThemes(t, ctx, d) })
	t.Run("uploads", func(t *testing.T) { testUploads(t, ctx, d, webLogID, otherID) })
	t.Run("restores", func(t *testing.T) { testRestores(t, ctx, d) })
	t.Run("web log delete cascades", func(t *testing.T) { testCascade(t, ctx, d, otherID) })
}

func testWebLogs(t *testing.T, ctx context.Context, d *data.Data, webLogID, otherID models.WebLogID) {
	webLog := models.WebLog{
		ID:           webLogID,
		Name:         "Tech Blog",
		Slug:         "tech-blog",
		DefaultPage:  "posts",
		PostsPerPage: 10,
		ThemeID:      "default",
		URLBase:      "https://blog.example.com",
		TimeZone:     "America/Chicago",
		Rss:          models.DefaultRssOptions(),
		Uploads:      models.UploadToDatabase,
	}
	require.NoError(t, d.WebLog.Add(ctx, &webLog))

	other := webLog
	other.ID = otherID
	other.Name = "Second Blog"
	other.Slug = "second-blog"
	other.URLBase = "https://second.example.com"
	require.NoError(t, d.WebLog.Add(ctx, &other))

	dup := webLog
	dup.ID = models.NewWebLogID()
	err := d.WebLog.Add(ctx, &dup)
	require.ErrorIs(t, err, data.ErrConflict, "URL bases are unique")

	found, err := d.WebLog.FindByHost(ctx, "https://blog.example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, webLogID, found.ID)

	found, err = d.WebLog.FindByHost(ctx, "https://nowhere.example.com")
	require.NoError(t, err)
	require.Nil(t, found)

	all, err := d.WebLog.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Redirect rules and RSS options update independently of settings.
	webLog.Redirects = []models.RedirectRule{{From: "/old", To: "/new"}}
	require.NoError(t, d.WebLog.UpdateRedirectRules(ctx, &webLog))

	settings := webLog
	settings.Name = "Renamed Blog"
	settings.Redirects = nil
	require.NoError(t, d.WebLog.UpdateSettings(ctx, &settings))

	found, err = d.WebLog.FindByID(ctx, webLogID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "Renamed Blog", found.Name)
	require.Len(t, found.Redirects, 1, "settings update must not clear redirect rules")

	missing := webLog
	missing.ID = models.NewWebLogID()
	require.ErrorIs(t, d.WebLog.UpdateSettings(ctx, &missing), data.ErrNotFound)
}

func testUsers(t *testing.T, ctx context.Context, d *data.Data, webLogID, otherID models.WebLogID, authorID models.WebLogUserID) {
	user := models.WebLogUser{
		ID:          authorID,
		WebLogID:    webLogID,
		Email:       "ada@example.com",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		AccessLevel: models.AccessWebLogAdmin,
		CreatedOn:   at(1, 9),
	}
	require.NoError(t, user.SetPassword("correct horse"))
	require.NoError(t, d.WebLogUser.Add(ctx, &user))

	dup := user
	dup.ID = models.NewWebLogUserID()
	require.ErrorIs(t, d.WebLogUser.Add(ctx, &dup), data.ErrConflict,
		"e-mail addresses are unique per web log")

	// The same address on another web log is fine.
	elsewhere := user
	elsewhere.ID = models.NewWebLogUserID()
	elsewhere.WebLogID = otherID
	require.NoError(t, d.WebLogUser.Add(ctx, &elsewhere))

	found, err := d.WebLogUser.FindByEmail(ctx, "ada@example.com", webLogID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, authorID, found.ID)
	require.True(t, found.VerifyPassword("correct horse"))

	// Tenant isolation: the id resolves only on its own web log.
	found, err = d.WebLogUser.FindByID(ctx, authorID, otherID)
	require.NoError(t, err)
	require.Nil(t, found)

	require.NoError(t, d.WebLogUser.SetLastSeen(ctx, authorID, webLogID))
	found, err = d.WebLogUser.FindByID(ctx, authorID, webLogID)
	require.NoError(t, err)
	require.NotNil(t, found.LastSeenOn)

	// Absent users are not an error for last-seen updates.
	require.NoError(t, d.WebLogUser.SetLastSeen(ctx, models.NewWebLogUserID(), webLogID))

	names, err := d.WebLogUser.FindNames(ctx, webLogID, []models.WebLogUserID{authorID})
	require.NoError(t, err)
	require.Len(t, names, 1)
	require.Equal(t, "Ada Lovelace", names[0].Name)

	found.PreferredName = "Ada L."
	require.NoError(t, d.WebLogUser.Update(ctx, found))
	users, err := d.WebLogUser.FindByWebLog(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Ada L.", users[0].PreferredName)

	require.ErrorIs(t,
		d.WebLogUser.Delete(ctx, models.NewWebLogUserID(), webLogID),
		data.ErrNotFound)
}

func testPages(t *testing.T, ctx context.Context, d *data.Data, webLogID, otherID models.WebLogID, authorID models.WebLogUserID) {
	pageID := models.NewPageID()
	page := models.Page{
		ID:              pageID,
		WebLogID:        webLogID,
		AuthorID:        authorID,
		Title:           "About Us",
		Permalink:       "/about-us",
		PriorPermalinks: []string{"/about"},
		PublishedOn:     at(2, 8),
		UpdatedOn:       at(2, 8),
		IsInPageList:    true,
		Text:            "<p>who we are</p>",
		Metadata:        []models.MetaItem{{Name: "order", Value: "1"}},
		Revisions: []models.Revision{{
			AsOf: at(2, 8),
			Text: models.MarkupText{SourceType: models.SourceHTML, Text: "<p>who we are</p>"},
		}},
	}
	require.NoError(t, d.Page.Add(ctx, &page))

	dup := page
	dup.ID = models.NewPageID()
	require.ErrorIs(t, d.Page.Add(ctx, &dup), data.ErrConflict,
		"permalinks are unique per web log")

	found, err := d.Page.FindByPermalink(ctx, "/about-us", webLogID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, pageID, found.ID)

	// A request for a retired permalink resolves to the current one.
	current, err := d.Page.FindCurrentPermalink(ctx, []string{"/about", "/about.html"}, webLogID)
	require.NoError(t, err)
	require.Equal(t, "/about-us", current)

	current, err = d.Page.FindCurrentPermalink(ctx, []string{"/about"}, otherID)
	require.NoError(t, err)
	require.Empty(t, current, "permalink history is tenant-scoped")

	full, err := d.Page.FindFullByID(ctx, pageID, webLogID)
	require.NoError(t, err)
	require.NotNil(t, full)
	require.Equal(t, []string{"/about"}, full.PriorPermalinks)
	require.Len(t, full.Revisions, 1)
	require.Equal(t, models.SourceHTML, full.Revisions[0].Text.SourceType)

	ok, err := d.Page.UpdatePriorPermalinks(ctx, pageID, webLogID,
		[]string{"/about", "/about.html"})
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = d.Page.UpdatePriorPermalinks(ctx, pageID, otherID, nil)
	require.NoError(t, err)
	require.False(t, ok, "another web log cannot rewrite permalink history")

	second := models.Page{
		ID:          models.NewPageID(),
		WebLogID:    webLogID,
		AuthorID:    authorID,
		Title:       "contact",
		Permalink:   "/contact",
		PublishedOn: at(3, 8),
		UpdatedOn:   at(3, 8),
		Text:        "<p>mail us</p>",
	}
	require.NoError(t, d.Page.Add(ctx, &second))

	n, err := d.Page.CountAll(ctx, webLogID)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = d.Page.CountListed(ctx, webLogID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Case-insensitive title order: "About Us" before "contact".
	all, err := d.Page.All(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, pageID, all[0].ID)
	require.Empty(t, all[0].Text, "listings omit page text")

	paged, err := d.Page.FindPageOfPages(ctx, webLogID, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 2, "one row past the page size signals a next page")

	listed, err := d.Page.FindListed(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, pageID, listed[0].ID)

	found.Title = "About"
	found.Revisions = full.Revisions
	require.NoError(t, d.Page.Update(ctx, found))
	found, err = d.Page.FindByID(ctx, pageID, webLogID)
	require.NoError(t, err)
	require.Equal(t, "About", found.Title)

	// FindByID loads the page without its permalink history; saving that
	// page back must not erase the history.
	current, err = d.Page.FindCurrentPermalink(ctx, []string{"/about.html"}, webLogID)
	require.NoError(t, err)
	require.Equal(t, "/about-us", current)
	full, err = d.Page.FindFullByID(ctx, pageID, webLogID)
	require.NoError(t, err)
	require.Equal(t, []string{"/about", "/about.html"}, full.PriorPermalinks)

	ok, err = d.Page.Delete(ctx, second.ID, otherID)
	require.NoError(t, err)
	require.False(t, ok, "another web log cannot delete the page")
	ok, err = d.Page.Delete(ctx, second.ID, webLogID)
	require.NoError(t, err)
	require.True(t, ok)
}

func testPosts(t *testing.T, ctx context.Context, d *data.Data, webLogID, otherID models.WebLogID, authorID models.WebLogUserID) {
	publish := func(day int, permalink, tag string) models.PostID {
		post := models.Post{
			ID:          models.NewPostID(),
			WebLogID:    webLogID,
			AuthorID:    authorID,
			Status:      models.Published,
			Title:       permalink,
			Permalink:   permalink,
			PublishedOn: timePtr(at(day, 12)),
			UpdatedOn:   at(day, 12),
			Text:        "<p>words</p>",
			Tags:        []string{tag},
		}
		require.NoError(t, d.Post.Add(ctx, &post))
		return post.ID
	}
	first := publish(10, "/2024/first", "go")
	second := publish(11, "/2024/second", "go")
	third := publish(12, "/2024/third", "sql")

	draft := models.Post{
		ID:              models.NewPostID(),
		WebLogID:        webLogID,
		AuthorID:        authorID,
		Status:          models.Draft,
		Title:           "someday",
		Permalink:       "/2024/someday",
		PriorPermalinks: []string{"/2024/some-day"},
		UpdatedOn:       at(13, 9),
		Text:            "<p>tbd</p>",
		Episode: &models.Episode{
			Media:  "episode-1.mp3",
			Length: 1024,
		},
		Revisions: []models.Revision{{
			AsOf: at(13, 9),
			Text: models.MarkupText{SourceType: models.SourceMarkdown, Text: "tbd"},
		}},
	}
	require.NoError(t, d.Post.Add(ctx, &draft))

	n, err := d.Post.CountByStatus(ctx, models.Published, webLogID)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	n, err = d.Post.CountByStatus(ctx, models.Draft, webLogID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	found, err := d.Post.FindByPermalink(ctx, "/2024/first", webLogID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, first, found.ID)
	found, err = d.Post.FindByPermalink(ctx, "/2024/first", otherID)
	require.NoError(t, err)
	require.Nil(t, found)

	current, err := d.Post.FindCurrentPermalink(ctx, []string{"/2024/some-day"}, webLogID)
	require.NoError(t, err)
	require.Equal(t, "/2024/someday", current)

	full, err := d.Post.FindFullByID(ctx, draft.ID, webLogID)
	require.NoError(t, err)
	require.NotNil(t, full)
	require.NotNil(t, full.Episode)
	require.Equal(t, "episode-1.mp3", full.Episode.Media)
	require.Len(t, full.Revisions, 1)

	// Published listings are newest first, one row past the page size.
	page, err := d.Post.FindPageOfPublishedPosts(ctx, webLogID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.Equal(t, third, page[0].ID)
	require.Equal(t, second, page[1].ID)

	page, err = d.Post.FindPageOfPublishedPosts(ctx, webLogID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, first, page[0].ID)

	// The admin listing includes drafts, ordered by the draft's updated
	// date where no published date exists.
	page, err = d.Post.FindPageOfPosts(ctx, webLogID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 4)
	require.Equal(t, draft.ID, page[0].ID)

	page, err = d.Post.FindPageOfTaggedPosts(ctx, webLogID, "go", 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)

	older, newer, err := d.Post.FindSurroundingPosts(ctx, webLogID, at(11, 12))
	require.NoError(t, err)
	require.NotNil(t, older)
	require.NotNil(t, newer)
	require.Equal(t, first, older.ID)
	require.Equal(t, third, newer.ID)

	older, newer, err = d.Post.FindSurroundingPosts(ctx, webLogID, at(10, 12))
	require.NoError(t, err)
	require.Nil(t, older, "nothing published before the first post")
	require.NotNil(t, newer)

	// Publishing the draft moves it into the published stream. A post
	// update replaces the whole document, permalink history included.
	full.Status = models.Published
	full.PublishedOn = timePtr(at(14, 8))
	full.PriorPermalinks = []string{"/drafts/someday"}
	require.NoError(t, d.Post.Update(ctx, full))
	n, err = d.Post.CountByStatus(ctx, models.Published, webLogID)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	current, err = d.Post.FindCurrentPermalink(ctx, []string{"/2024/some-day"}, webLogID)
	require.NoError(t, err)
	require.Empty(t, current, "replaced permalink history no longer resolves")
	current, err = d.Post.FindCurrentPermalink(ctx, []string{"/drafts/someday"}, webLogID)
	require.NoError(t, err)
	require.Equal(t, "/2024/someday", current)

	ok, err := d.Post.Delete(ctx, draft.ID, webLogID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = d.Post.Delete(ctx, draft.ID, webLogID)
	require.NoError(t, err)
	require.False(t, ok)

	// The author now has posts; deleting the user is refused.
	require.ErrorIs(t, d.WebLogUser.Delete(ctx, authorID, webLogID), data.ErrReferenced)
}

func testCategories(t *testing.T, ctx context.Context, d *data.Data, webLogID models.WebLogID, authorID models.WebLogUserID) {
	tech := models.Category{ID: models.NewCategoryID(), WebLogID: webLogID, Name: "Tech", Slug: "tech"}
	goCat := models.Category{ID: models.NewCategoryID(), WebLogID: webLogID, Name: "Go", Slug: "go", ParentID: &tech.ID}
	deep := models.Category{ID: models.NewCategoryID(), WebLogID: webLogID, Name: "Generics", Slug: "generics", ParentID: &goCat.ID}
	for _, cat := range []*models.Category{&tech, &goCat, &deep} {
		require.NoError(t, d.Category.Add(ctx, cat))
	}

	n, err := d.Category.CountAll(ctx, webLogID)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	n, err = d.Category.CountTopLevel(ctx, webLogID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	post := models.Post{
		ID:          models.NewPostID(),
		WebLogID:    webLogID,
		AuthorID:    authorID,
		Status:      models.Published,
		Title:       "on generics",
		Permalink:   "/2024/on-generics",
		PublishedOn: timePtr(at(20, 10)),
		UpdatedOn:   at(20, 10),
		Text:        "<p>types</p>",
		CategoryIDs: []models.CategoryID{goCat.ID, deep.ID},
	}
	require.NoError(t, d.Post.Add(ctx, &post))

	view, err := d.Category.FindAllForView(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, view, 3)
	require.Equal(t, tech.ID, view[0].ID)
	require.Equal(t, "tech/go", view[1].Slug)
	require.Equal(t, []string{"Tech", "Go"}, view[2].ParentNames)
	// The post carries two categories of the subtree but counts once.
	require.Equal(t, 1, view[0].PostCount)
	require.Equal(t, 1, view[1].PostCount)

	listed, err := d.Post.FindPageOfCategorizedPosts(ctx, webLogID,
		[]models.CategoryID{deep.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Deleting the middle category reassigns its child to the grandparent
	// and strips the id from the post.
	reassigned, err := d.Category.Delete(ctx, goCat.ID, webLogID)
	require.NoError(t, err)
	require.True(t, reassigned)

	moved, err := d.Category.FindByID(ctx, deep.ID, webLogID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	require.Equal(t, tech.ID, *moved.ParentID)

	tagged, err := d.Post.FindByID(ctx, post.ID, webLogID)
	require.NoError(t, err)
	require.Equal(t, []models.CategoryID{deep.ID}, tagged.CategoryIDs)

	_, err = d.Category.Delete(ctx, goCat.ID, webLogID)
	require.ErrorIs(t, err, data.ErrNotFound)

	// A leaf delete reassigns nothing.
	reassigned, err = d.Category.Delete(ctx, deep.ID, webLogID)
	require.NoError(t, err)
	require.False(t, reassigned)
}

func testTagMaps(t *testing.T, ctx context.Context, d *data.Data, webLogID, otherID models.WebLogID) {
	sharp := models.TagMap{ID: models.NewTagMapID(), WebLogID: webLogID, Tag: "c#", URLValue: "c-sharp"}
	plus := models.TagMap{ID: models.NewTagMapID(), WebLogID: webLogID, Tag: "c++", URLValue: "c-plus-plus"}
	require.NoError(t, d.TagMap.Save(ctx, &sharp))
	require.NoError(t, d.TagMap.Save(ctx, &plus))

	// Save is an upsert.
	sharp.URLValue = "csharp"
	require.NoError(t, d.TagMap.Save(ctx, &sharp))
	found, err := d.TagMap.FindByURLValue(ctx, "csharp", webLogID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "c#", found.Tag)

	found, err = d.TagMap.FindByURLValue(ctx, "csharp", otherID)
	require.NoError(t, err)
	require.Nil(t, found)

	all, err := d.TagMap.FindByWebLog(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "c#", all[0].Tag)

	mapped, err := d.TagMap.FindMappingForTags(ctx, []string{"c#", "go"}, webLogID)
	require.NoError(t, err)
	require.Len(t, mapped, 1, "unmapped tags are simply absent")

	ok, err := d.TagMap.Delete(ctx, plus.ID, otherID)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = d.TagMap.Delete(ctx, plus.ID, webLogID)
	require.NoError(t, err)
	require.True(t, ok)
}

func testThemes(t *testing.T, ctx context.Context, d *data.Data) {
	theme := models.Theme{
		ID:      "bit-badger-default",
		Name:    "Default",
		Version: "2.1.0",
		Templates: []models.ThemeTemplate{
			{Name: "layout", Text: "{% block content %}{% endblock %}"},
			{Name: "single-post", Text: "{{ post.text }}"},
		},
	}
	admin := models.Theme{ID: "admin", Name: "Admin", Version: "2.1.0"}
	require.NoError(t, d.Theme.Save(ctx, &theme))
	require.NoError(t, d.Theme.Save(ctx, &admin))

	exists, err := d.Theme.Exists(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.True(t, exists)

	all, err := d.Theme.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "the admin theme stays out of listings")
	require.Len(t, all[0].Templates, 2)
	require.Empty(t, all[0].Templates[0].Text)

	found, err := d.Theme.FindByID(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.Equal(t, "{{ post.text }}", found.Templates[1].Text)

	bare, err := d.Theme.FindByIDWithoutText(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.Equal(t, "single-post", bare.Templates[1].Name)
	require.Empty(t, bare.Templates[1].Text)

	asset := models.ThemeAsset{
		ID:        models.ThemeAssetID{ThemeID: "bit-badger-default", Path: "css/site.css"},
		UpdatedOn: at(5, 5),
		Data:      []byte("body { margin: 0 }"),
	}
	require.NoError(t, d.ThemeAsset.Save(ctx, &asset))

	assets, err := d.ThemeAsset.FindByTheme(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	require.Empty(t, assets[0].Data, "asset listings omit binary data")

	withData, err := d.ThemeAsset.FindByThemeWithData(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.Equal(t, []byte("body { margin: 0 }"), withData[0].Data)

	one, err := d.ThemeAsset.FindByID(ctx, asset.ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	require.Equal(t, []byte("body { margin: 0 }"), one.Data)

	ok, err := d.Theme.Delete(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.True(t, ok)
	assets, err = d.ThemeAsset.FindByTheme(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.Empty(t, assets, "assets go with their theme")

	ok, err = d.Theme.Delete(ctx, "bit-badger-default")
	require.NoError(t, err)
	require.False(t, ok)
}

func testUploads(t *testing.T, ctx context.Context, d *data.Data, webLogID, otherID models.WebLogID) {
	upload := models.Upload{
		ID:        models.NewUploadID(),
		WebLogID:  webLogID,
		Path:      "2024/03/cover.png",
		UpdatedOn: at(6, 6),
		Data:      []byte{0x89, 'P', 'N', 'G'},
	}
	require.NoError(t, d.Upload.Add(ctx, &upload))

	dup := upload
	dup.ID = models.NewUploadID()
	require.ErrorIs(t, d.Upload.Add(ctx, &dup), data.ErrConflict,
		"paths are unique per web log")

	found, err := d.Upload.FindByPath(ctx, "2024/03/cover.png", webLogID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, upload.Data, found.Data)
	found, err = d.Upload.FindByPath(ctx, "2024/03/cover.png", otherID)
	require.NoError(t, err)
	require.Nil(t, found)

	listed, err := d.Upload.FindByWebLog(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Empty(t, listed[0].Data)

	_, err = d.Upload.Delete(ctx, upload.ID, otherID)
	require.ErrorIs(t, err, data.ErrNotFound)
	path, err := d.Upload.Delete(ctx, upload.ID, webLogID)
	require.NoError(t, err)
	require.Equal(t, "2024/03/cover.png", path)
	_, err = d.Upload.Delete(ctx, upload.ID, webLogID)
	require.ErrorIs(t, err, data.ErrNotFound)
}

func testRestores(t *testing.T, ctx context.Context, d *data.Data) {
	webLogID := models.NewWebLogID()
	authorID := models.NewWebLogUserID()
	webLog := models.WebLog{
		ID:           webLogID,
		Name:         "Restored Blog",
		Slug:         "restored",
		DefaultPage:  "posts",
		PostsPerPage: 10,
		ThemeID:      "default",
		URLBase:      "https://restored.example.com",
		TimeZone:     "America/Chicago",
		Rss:          models.DefaultRssOptions(),
		Uploads:      models.UploadToDatabase,
	}
	require.NoError(t, d.WebLog.Add(ctx, &webLog))

	users := []models.WebLogUser{{
		ID:          authorID,
		WebLogID:    webLogID,
		Email:       "restored@example.com",
		FirstName:   "Rest",
		LastName:    "Ored",
		AccessLevel: models.AccessAuthor,
		CreatedOn:   at(8, 8),
	}}
	require.NoError(t, d.WebLogUser.Restore(ctx, users))

	catID := models.NewCategoryID()
	cats := []models.Category{{ID: catID, WebLogID: webLogID, Name: "News", Slug: "news"}}
	require.NoError(t, d.Category.Restore(ctx, cats))

	pages := []models.Page{{
		ID:              models.NewPageID(),
		WebLogID:        webLogID,
		AuthorID:        authorID,
		Title:           "Home",
		Permalink:       "/home",
		PriorPermalinks: []string{"/index"},
		PublishedOn:     at(8, 9),
		UpdatedOn:       at(8, 9),
		Text:            "<p>home</p>",
		Revisions: []models.Revision{{
			AsOf: at(8, 9),
			Text: models.MarkupText{SourceType: models.SourceHTML, Text: "<p>home</p>"},
		}},
	}}
	require.NoError(t, d.Page.Restore(ctx, pages))

	posts := []models.Post{{
		ID:          models.NewPostID(),
		WebLogID:    webLogID,
		AuthorID:    authorID,
		Status:      models.Published,
		Title:       "back online",
		Permalink:   "/2024/back-online",
		PublishedOn: timePtr(at(8, 10)),
		UpdatedOn:   at(8, 10),
		Text:        "<p>back</p>",
		Tags:        []string{"meta"},
		CategoryIDs: []models.CategoryID{catID},
	}}
	require.NoError(t, d.Post.Restore(ctx, posts))

	tagMaps := []models.TagMap{{
		ID: models.NewTagMapID(), WebLogID: webLogID, Tag: "f#", URLValue: "f-sharp",
	}}
	require.NoError(t, d.TagMap.Restore(ctx, tagMaps))

	// Six uploads span two binary-sized batches.
	uploads := make([]models.Upload, 6)
	for i := range uploads {
		uploads[i] = models.Upload{
			ID:        models.NewUploadID(),
			WebLogID:  webLogID,
			Path:      fmt.Sprintf("restored/%d.png", i),
			UpdatedOn: at(8, 11),
			Data:      []byte{byte(i)},
		}
	}
	require.NoError(t, d.Upload.Restore(ctx, uploads))

	// The restored content reads back whole.
	fullPages, err := d.Page.FindFullByWebLog(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, fullPages, 1)
	require.Equal(t, []string{"/index"}, fullPages[0].PriorPermalinks)
	require.Len(t, fullPages[0].Revisions, 1)

	fullPosts, err := d.Post.FindFullByWebLog(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, fullPosts, 1)
	require.Equal(t, []string{"meta"}, fullPosts[0].Tags)
	require.Equal(t, []models.CategoryID{catID}, fullPosts[0].CategoryIDs)

	stored, err := d.Upload.FindByWebLogWithData(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, stored, 6)

	names, err := d.WebLogUser.FindNames(ctx, webLogID, []models.WebLogUserID{authorID})
	require.NoError(t, err)
	require.Len(t, names, 1)

	mapped, err := d.TagMap.FindByWebLog(ctx, webLogID)
	require.NoError(t, err)
	require.Len(t, mapped, 1)

	// Restoring over existing rows surfaces the conflict and names the
	// failing batch.
	err = d.Page.Restore(ctx, pages)
	require.ErrorIs(t, err, data.ErrConflict)
	require.ErrorContains(t, err, "restore batch 1 of 1")

	err = d.Upload.Restore(ctx, uploads)
	require.ErrorIs(t, err, data.ErrConflict)
	require.ErrorContains(t, err, "restore batch 1 of 2")
}

func testCascade(t *testing.T, ctx context.Context, d *data.Data, otherID models.WebLogID) {
	// The second web log still has one user from the user tests; give it
	// more content, delete the web log, and confirm nothing is left.
	author := models.WebLogUser{
		ID:          models.NewWebLogUserID(),
		WebLogID:    otherID,
		Email:       "grace@example.com",
		FirstName:   "Grace",
		LastName:    "Hopper",
		AccessLevel: models.AccessAuthor,
		CreatedOn:   at(1, 10),
	}
	require.NoError(t, d.WebLogUser.Add(ctx, &author))
	post := models.Post{
		ID:          models.NewPostID(),
		WebLogID:    otherID,
		AuthorID:    author.ID,
		Status:      models.Published,
		Title:       "hello",
		Permalink:   "/hello",
		PublishedOn: timePtr(at(7, 7)),
		UpdatedOn:   at(7, 7),
		Text:        "<p>hi</p>",
		Tags:        []string{"intro"},
	}
	require.NoError(t, d.Post.Add(ctx, &post))
	upload := models.Upload{
		ID:        models.NewUploadID(),
		WebLogID:  otherID,
		Path:      "hello.png",
		UpdatedOn: at(7, 7),
		Data:      []byte{1},
	}
	require.NoError(t, d.Upload.Add(ctx, &upload))

	require.NoError(t, d.WebLog.Delete(ctx, otherID))
	require.ErrorIs(t, d.WebLog.Delete(ctx, otherID), data.ErrNotFound)

	gone, err := d.WebLog.FindByID(ctx, otherID)
	require.NoError(t, err)
	require.Nil(t, gone)
	posts, err := d.Post.FindFullByWebLog(ctx, otherID)
	require.NoError(t, err)
	require.Empty(t, posts)
	users, err := d.WebLogUser.FindByWebLog(ctx, otherID)
	require.NoError(t, err)
	require.Empty(t, users)
	uploads, err := d.Upload.FindByWebLog(ctx, otherID)
	require.NoError(t, err)
	require.Empty(t, uploads)
}
