package models

// TagMap overrides the URL value used for one tag of a web log, for tags
// whose raw text does not make a usable URL segment. (WebLogID, Tag) and
// (WebLogID, URLValue) are each unique.
type TagMap struct {
	ID       TagMapID `json:"id"`
	WebLogID WebLogID `json:"webLogId"`
	Tag      string   `json:"tag"`
	URLValue string   `json:"urlValue"`
}
