package data

// PageWindow converts a 1-based page number and a page size into the
// limit/offset window every paginated finder uses. The limit is one row past
// the page size: receiving a full window plus one tells the caller a further
// page exists without a second count query.
func PageWindow(pageNbr, pageSize int) (limit, offset int) {
	if pageNbr < 1 {
		pageNbr = 1
	}
	return pageSize + 1, (pageNbr - 1) * pageSize
}
