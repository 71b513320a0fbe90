package spotify

import "context"

// Image is an image of a piece of content, in one of several sizes.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ExternalURLs holds known external URLs for an object.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// ExternalIDs holds known external identifiers for an object.
type ExternalIDs struct {
	ISRC string `json:"isrc,omitempty"`
	EAN  string `json:"ean,omitempty"`
	UPC  string `json:"upc,omitempty"`
}

// Followers holds follower information for an artist, playlist or user.
type Followers struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// Copyright is a copyright statement for an album or audiobook.
type Copyright struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Restrictions explains why content is not playable.
type Restrictions struct {
	Reason string `json:"reason"`
}

// ResumePoint is the user's most recent position in an audiobook chapter
// or podcast episode.
type ResumePoint struct {
	FullyPlayed      bool `json:"fully_played"`
	ResumePositionMs int  `json:"resume_position_ms"`
}

// Page is one page of a paginated result set. Next and Previous hold the
// full URLs of the adjacent pages, or nil at either end of the set.
type Page[T any] struct {
	Href     string  `json:"href"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Total    int     `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Items    []T     `json:"items"`
}

// CursorPage is a page of a cursor-paginated result set, used by the
// followed-artists and recently-played endpoints.
type CursorPage[T any] struct {
	Href    string  `json:"href"`
	Limit   int     `json:"limit"`
	Next    *string `json:"next"`
	Cursors Cursors `json:"cursors"`
	Total   int     `json:"total"`
	Items   []T     `json:"items"`
}

// Cursors are the keys used for cursor-based paging.
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// NextPage fetches the page after p. It returns ErrNoRemainingPages when
// p is the last page. Methods cannot introduce type parameters, so page
// traversal is a package-level function.
func NextPage[T any](ctx context.Context, c *Client, p *Page[T]) (*Page[T], error) {
	if p.Next == nil {
		return nil, ErrNoRemainingPages
	}

	var page Page[T]
	if err := c.get(ctx, *p.Next, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PreviousPage fetches the page before p. It returns ErrNoRemainingPages
// when p is the first page.
func PreviousPage[T any](ctx context.Context, c *Client, p *Page[T]) (*Page[T], error) {
	if p.Previous == nil {
		return nil, ErrNoRemainingPages
	}

	var page Page[T]
	if err := c.get(ctx, *p.Previous, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// NextCursorPage fetches the cursor page after p, or ErrNoRemainingPages
// when p is the last one.
func NextCursorPage[T any](ctx context.Context, c *Client, p *CursorPage[T]) (*CursorPage[T], error) {
	if p.Next == nil {
		return nil, ErrNoRemainingPages
	}

	var page CursorPage[T]
	if err := c.get(ctx, *p.Next, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
