package models

import "time"

// Upload is a file stored in the database for a web log. Path is the
// URL-relative location of the file and is unique within the web log.
// Listings omit Data unless the caller asks for it.
type Upload struct {
	ID        UploadID  `json:"id"`
	WebLogID  WebLogID  `json:"webLogId"`
	Path      string    `json:"path"`
	UpdatedOn time.Time `json:"updatedOn"`
	Data      []byte    `json:"data,omitempty"`
}
