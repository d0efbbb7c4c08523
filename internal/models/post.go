package models

import "time"

// Post statuses.
const (
	Draft     = "Draft"
	Published = "Published"
)

// Episode carries the podcast metadata for a post that is a podcast episode.
type Episode struct {
	Media              string         `json:"media"`
	Length             int64          `json:"length"`
	Duration           *time.Duration `json:"duration,omitempty"`
	MediaType          *string        `json:"mediaType,omitempty"`
	ImageURL           *string        `json:"imageUrl,omitempty"`
	Subtitle           *string        `json:"subtitle,omitempty"`
	Explicit           *string        `json:"explicit,omitempty"`
	ChapterFile        *string        `json:"chapterFile,omitempty"`
	ChapterType        *string        `json:"chapterType,omitempty"`
	TranscriptURL      *string        `json:"transcriptUrl,omitempty"`
	TranscriptType     *string        `json:"transcriptType,omitempty"`
	TranscriptLang     *string        `json:"transcriptLang,omitempty"`
	TranscriptCaptions *bool          `json:"transcriptCaptions,omitempty"`
	SeasonNumber       *int           `json:"seasonNumber,omitempty"`
	SeasonDescription  *string        `json:"seasonDescription,omitempty"`
	EpisodeNumber      *float64       `json:"episodeNumber,omitempty"`
	EpisodeDescription *string        `json:"episodeDescription,omitempty"`
}

// Post is one article in a web log's chronological stream. PublishedOn is nil
// while the post is a draft; Tags are stored lowercase; CategoryIDs reference
// categories of the same web log.
type Post struct {
	ID              PostID       `json:"id"`
	WebLogID        WebLogID     `json:"webLogId"`
	AuthorID        WebLogUserID `json:"authorId"`
	Status          string       `json:"status"`
	Title           string       `json:"title"`
	Permalink       string       `json:"permalink"`
	PriorPermalinks []string     `json:"priorPermalinks"`
	PublishedOn     *time.Time   `json:"publishedOn,omitempty"`
	UpdatedOn       time.Time    `json:"updatedOn"`
	Template        *string      `json:"template,omitempty"`
	Text            string       `json:"text"`
	CategoryIDs     []CategoryID `json:"categoryIds"`
	Tags            []string     `json:"tags"`
	Episode         *Episode     `json:"episode,omitempty"`
	Metadata        []MetaItem   `json:"metadata"`
	Revisions       []Revision   `json:"revisions"`
}

// ListedOn is the timestamp a post sorts by in listings: the published date,
// falling back to the updated date for drafts in admin listings.
func (p *Post) ListedOn() time.Time {
	if p.PublishedOn != nil {
		return *p.PublishedOn
	}
	return p.UpdatedOn
}
