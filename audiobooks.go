package spotify

import (
	"context"
	"fmt"
	"net/url"
)

// Audiobook is a full audiobook object.
type Audiobook struct {
	Authors          []Author     `json:"authors"`
	AvailableMarkets []string     `json:"available_markets"`
	Copyrights       []Copyright  `json:"copyrights"`
	Description      string       `json:"description"`
	Explicit         bool         `json:"explicit"`
	ExternalURLs     ExternalURLs `json:"external_urls"`
	Href             string       `json:"href"`
	ID               string       `json:"id"`
	Images           []Image      `json:"images"`
	Languages        []string     `json:"languages"`
	MediaType        string       `json:"media_type"`
	Name             string       `json:"name"`
	Narrators        []Narrator   `json:"narrators"`
	Publisher        string       `json:"publisher"`
	Type             string       `json:"type"`
	URI              string       `json:"uri"`
	TotalChapters    int          `json:"total_chapters"`
}

// SimplifiedAudiobook is the audiobook object returned by listing and
// search endpoints.
type SimplifiedAudiobook struct {
	Authors      []Author     `json:"authors"`
	Description  string       `json:"description"`
	Explicit     bool         `json:"explicit"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Images       []Image      `json:"images"`
	Name         string       `json:"name"`
	Narrators    []Narrator   `json:"narrators"`
	Publisher    string       `json:"publisher"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// Author is an audiobook author.
type Author struct {
	Name string `json:"name"`
}

// Narrator is an audiobook narrator.
type Narrator struct {
	Name string `json:"name"`
}

// GetAudiobook retrieves a single audiobook by its Spotify ID.
func (c *Client) GetAudiobook(ctx context.Context, id string, opts ...RequestOption) (*Audiobook, error) {
	var audiobook Audiobook
	if err := c.get(ctx, fmt.Sprintf("/audiobooks/%s", id), queryOf(opts...), &audiobook); err != nil {
		return nil, err
	}
	return &audiobook, nil
}

// GetSavedAudiobooks retrieves one page of the audiobooks saved in the
// current user's library.
func (c *Client) GetSavedAudiobooks(ctx context.Context, opts ...RequestOption) (*Page[SimplifiedAudiobook], error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var page Page[SimplifiedAudiobook]
	if err := c.get(ctx, "/me/audiobooks", queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveAudiobooks adds audiobooks to the current user's library. The IDs
// go in the query string and the request has no body; this is one of the
// endpoints that insists on an explicit zero Content-Length.
func (c *Client) SaveAudiobooks(ctx context.Context, ids []string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("ids", joinIDs(ids))

	var res Nil
	return c.put(ctx, "/me/audiobooks", query, nil, &res)
}

// RemoveSavedAudiobooks removes audiobooks from the current user's
// library.
func (c *Client) RemoveSavedAudiobooks(ctx context.Context, ids []string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("ids", joinIDs(ids))

	var res Nil
	return c.delete(ctx, "/me/audiobooks", query, nil, &res)
}

// CheckSavedAudiobooks reports, for each ID, whether the audiobook is
// saved in the current user's library.
func (c *Client) CheckSavedAudiobooks(ctx context.Context, ids []string) ([]bool, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ids", joinIDs(ids))

	var saved []bool
	if err := c.get(ctx, "/me/audiobooks/contains", query, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}
