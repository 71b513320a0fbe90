package spotify

import (
	"context"
	"fmt"
	"net/url"
)

// Artist is a full artist object.
type Artist struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Followers    Followers    `json:"followers"`
	Genres       []string     `json:"genres"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Images       []Image      `json:"images"`
	Name         string       `json:"name"`
	Popularity   int          `json:"popularity"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// SimplifiedArtist is the artist object embedded in other responses.
type SimplifiedArtist struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// GetArtist retrieves a single artist by its Spotify ID.
func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	if err := c.get(ctx, fmt.Sprintf("/artists/%s", id), nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// GetArtists retrieves several artists at once, up to 50 IDs.
func (c *Client) GetArtists(ctx context.Context, ids []string) ([]Artist, error) {
	query := url.Values{}
	query.Set("ids", joinIDs(ids))

	var resp struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.get(ctx, "/artists", query, &resp); err != nil {
		return nil, err
	}
	return resp.Artists, nil
}

// GetArtistAlbums retrieves one page of an artist's albums.
// includeGroups filters by relationship (album, single, appears_on,
// compilation); pass nothing to include everything.
func (c *Client) GetArtistAlbums(ctx context.Context, id string, includeGroups []string, opts ...RequestOption) (*Page[SimplifiedAlbum], error) {
	query := queryOf(opts...)
	if len(includeGroups) > 0 {
		query.Set("include_groups", joinIDs(includeGroups))
	}

	var page Page[SimplifiedAlbum]
	if err := c.get(ctx, fmt.Sprintf("/artists/%s/albums", id), query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetArtistTopTracks retrieves an artist's top tracks.
func (c *Client) GetArtistTopTracks(ctx context.Context, id string, opts ...RequestOption) ([]Track, error) {
	var resp struct {
		Tracks []Track `json:"tracks"`
	}
	if err := c.get(ctx, fmt.Sprintf("/artists/%s/top-tracks", id), queryOf(opts...), &resp); err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}
