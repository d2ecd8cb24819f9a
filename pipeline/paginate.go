package pipeline

import "github.com/fwojciec/parsekit"

// Paginate returns the offset/limit slice of items and the offset of the
// following page. A non-positive limit returns everything after offset and
// no next offset; an offset past the end yields an empty page.
func Paginate(items []parsekit.Item, offset, limit int) ([]parsekit.Item, *int) {
	total := len(items)

	page := items
	if offset > 0 {
		if offset >= total {
			page = nil
		} else {
			page = page[offset:]
		}
	}
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	if page == nil {
		page = []parsekit.Item{}
	}

	if limit <= 0 {
		return page, nil
	}
	next := max(offset, 0) + len(page)
	if next >= total {
		return page, nil
	}
	return page, &next
}
