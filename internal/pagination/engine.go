package pagination

// Default and maximum page sizes. Oversized limits are clamped, never
// rejected; non-positive limits fall back to the default.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ClampLimit normalizes a requested page size into [1, MaxPerPage].
func ClampLimit(limit int) int {
	if limit < 1 {
		return DefaultPerPage
	}
	if limit > MaxPerPage {
		return MaxPerPage
	}
	return limit
}

// Meta is the pagination envelope returned with every listing page.
type Meta struct {
	PerPage    int     `json:"per_page"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
	PrevCursor *string `json:"prev_cursor"`
}

// Item is anything that can report its position in the article ordering.
type Item interface {
	PagePosition() Position
}

// FetchFunc returns up to limit rows in display order (created_at DESC,
// id DESC), bounded by the cursor: nil means from the top, Next means
// rows strictly after the position, Prev means the rows strictly before
// it that sit closest to it.
type FetchFunc[T Item] func(cur *Cursor, limit int) ([]T, error)

// Paginate runs one page of a listing: decode the token (if any), fetch
// perPage+1 rows through fetch, trim the probe row, and derive next/prev
// cursors bound to scope. The probe-row trick means hasMore is exact: a
// page with exactly perPage remaining rows reports no next cursor.
func Paginate[T Item](codec *Codec, scope, token string, limit int, fetch FetchFunc[T]) ([]T, Meta, error) {
	perPage := ClampLimit(limit)
	meta := Meta{PerPage: perPage}

	var cur *Cursor
	if token != "" {
		decoded, err := codec.Decode(token, scope)
		if err != nil {
			return nil, meta, err
		}
		cur = decoded
	}

	items, err := fetch(cur, perPage+1)
	if err != nil {
		return nil, meta, err
	}
	if len(items) == 0 {
		return []T{}, meta, nil
	}

	if cur != nil && cur.Dir == Prev {
		// Paging backwards: the probe row is the newest fetched row, and
		// the page we navigated back from always exists below.
		if len(items) > perPage {
			items = items[len(items)-perPage:]
			prev := codec.Encode(Cursor{Position: items[0].PagePosition(), Dir: Prev}, scope)
			meta.PrevCursor = &prev
		}
		meta.HasMore = true
		next := codec.Encode(Cursor{Position: items[len(items)-1].PagePosition(), Dir: Next}, scope)
		meta.NextCursor = &next
		return items, meta, nil
	}

	if len(items) > perPage {
		items = items[:perPage]
		meta.HasMore = true
		next := codec.Encode(Cursor{Position: items[len(items)-1].PagePosition(), Dir: Next}, scope)
		meta.NextCursor = &next
	}
	if cur != nil {
		prev := codec.Encode(Cursor{Position: items[0].PagePosition(), Dir: Prev}, scope)
		meta.PrevCursor = &prev
	}
	return items, meta, nil
}
