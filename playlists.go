package spotify

import (
	"context"
	"fmt"
	"time"
)

// Playlist is a full playlist object.
type Playlist struct {
	Collaborative bool               `json:"collaborative"`
	Description   string             `json:"description"`
	ExternalURLs  ExternalURLs       `json:"external_urls"`
	Followers     Followers          `json:"followers"`
	Href          string             `json:"href"`
	ID            string             `json:"id"`
	Images        []Image            `json:"images"`
	Name          string             `json:"name"`
	Owner         PublicUser         `json:"owner"`
	Public        bool               `json:"public"`
	SnapshotID    string             `json:"snapshot_id"`
	Tracks        Page[PlaylistItem] `json:"tracks"`
	Type          string             `json:"type"`
	URI           string             `json:"uri"`
}

// SimplifiedPlaylist is the playlist object returned by listing
// endpoints. Tracks holds only a link to the full track listing.
type SimplifiedPlaylist struct {
	Collaborative bool         `json:"collaborative"`
	Description   string       `json:"description"`
	ExternalURLs  ExternalURLs `json:"external_urls"`
	Href          string       `json:"href"`
	ID            string       `json:"id"`
	Images        []Image      `json:"images"`
	Name          string       `json:"name"`
	Owner         PublicUser   `json:"owner"`
	Public        bool         `json:"public"`
	SnapshotID    string       `json:"snapshot_id"`
	Tracks        PlaylistRef  `json:"tracks"`
	Type          string       `json:"type"`
	URI           string       `json:"uri"`
}

// PlaylistRef is a link to a playlist's track listing.
type PlaylistRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// PlaylistItem is one entry of a playlist's track listing.
type PlaylistItem struct {
	AddedAt time.Time  `json:"added_at"`
	AddedBy PublicUser `json:"added_by"`
	IsLocal bool       `json:"is_local"`
	Track   Track      `json:"track"`
}

// SnapshotID identifies a playlist version after a mutation.
type SnapshotID struct {
	SnapshotID string `json:"snapshot_id"`
}

// GetPlaylist retrieves a playlist by its Spotify ID.
func (c *Client) GetPlaylist(ctx context.Context, id string, opts ...RequestOption) (*Playlist, error) {
	var playlist Playlist
	if err := c.get(ctx, fmt.Sprintf("/playlists/%s", id), queryOf(opts...), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetPlaylistItems retrieves one page of a playlist's track listing.
func (c *Client) GetPlaylistItems(ctx context.Context, id string, opts ...RequestOption) (*Page[PlaylistItem], error) {
	var page Page[PlaylistItem]
	if err := c.get(ctx, fmt.Sprintf("/playlists/%s/tracks", id), queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCurrentUserPlaylists retrieves one page of the playlists owned or
// followed by the current user.
func (c *Client) GetCurrentUserPlaylists(ctx context.Context, opts ...RequestOption) (*Page[SimplifiedPlaylist], error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var page Page[SimplifiedPlaylist]
	if err := c.get(ctx, "/me/playlists", queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUserPlaylists retrieves one page of the playlists owned or followed
// by the given user.
func (c *Client) GetUserPlaylists(ctx context.Context, userID string, opts ...RequestOption) (*Page[SimplifiedPlaylist], error) {
	var page Page[SimplifiedPlaylist]
	if err := c.get(ctx, fmt.Sprintf("/users/%s/playlists", userID), queryOf(opts...), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PlaylistDetails are the mutable attributes of a playlist. Nil fields
// are left unchanged by ChangePlaylistDetails and take Spotify's
// defaults in CreatePlaylist.
type PlaylistDetails struct {
	Name          *string `json:"name,omitempty"`
	Public        *bool   `json:"public,omitempty"`
	Collaborative *bool   `json:"collaborative,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// CreatePlaylist creates an empty playlist for the given user.
func (c *Client) CreatePlaylist(ctx context.Context, userID string, details PlaylistDetails) (*Playlist, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var playlist Playlist
	if err := c.post(ctx, fmt.Sprintf("/users/%s/playlists", userID), nil, jsonBody(details), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ChangePlaylistDetails updates a playlist's attributes. Only non-nil
// fields of details are sent.
func (c *Client) ChangePlaylistDetails(ctx context.Context, id string, details PlaylistDetails) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.put(ctx, fmt.Sprintf("/playlists/%s", id), nil, jsonBody(details), &res)
}

// AddPlaylistItems appends tracks or episodes, given by URI, to a
// playlist and returns the new snapshot ID.
func (c *Client) AddPlaylistItems(ctx context.Context, id string, uris []string) (*SnapshotID, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	payload := struct {
		URIs []string `json:"uris"`
	}{URIs: uris}

	var snapshot SnapshotID
	if err := c.post(ctx, fmt.Sprintf("/playlists/%s/tracks", id), nil, jsonBody(payload), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RemovePlaylistItems removes all occurrences of the given URIs from a
// playlist and returns the new snapshot ID.
func (c *Client) RemovePlaylistItems(ctx context.Context, id string, uris []string) (*SnapshotID, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	type uriObject struct {
		URI string `json:"uri"`
	}
	payload := struct {
		Tracks []uriObject `json:"tracks"`
	}{}
	for _, uri := range uris {
		payload.Tracks = append(payload.Tracks, uriObject{URI: uri})
	}

	var snapshot SnapshotID
	if err := c.delete(ctx, fmt.Sprintf("/playlists/%s/tracks", id), nil, jsonBody(payload), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetPlaylistCoverImage retrieves the current cover images of a
// playlist.
func (c *Client) GetPlaylistCoverImage(ctx context.Context, id string) ([]Image, error) {
	var images []Image
	if err := c.get(ctx, fmt.Sprintf("/playlists/%s/images", id), nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// UploadPlaylistCoverImage replaces a playlist's cover image. image must
// be base64-encoded JPEG bytes, at most 256 KB once encoded; the bytes
// are sent as-is, not wrapped in JSON.
func (c *Client) UploadPlaylistCoverImage(ctx context.Context, id string, image []byte) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.put(ctx, fmt.Sprintf("/playlists/%s/images", id), nil, rawBody(image), &res)
}
