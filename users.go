package spotify

import (
	"context"
	"fmt"
	"net/url"
)

// PrivateUser is the current user's full profile. Email and Product are
// only populated when the matching scopes were granted.
type PrivateUser struct {
	Country         string          `json:"country,omitempty"`
	DisplayName     string          `json:"display_name"`
	Email           string          `json:"email,omitempty"`
	ExplicitContent ExplicitContent `json:"explicit_content"`
	ExternalURLs    ExternalURLs    `json:"external_urls"`
	Followers       Followers       `json:"followers"`
	Href            string          `json:"href"`
	ID              string          `json:"id"`
	Images          []Image         `json:"images"`
	Product         string          `json:"product,omitempty"`
	Type            string          `json:"type"`
	URI             string          `json:"uri"`
}

// ExplicitContent holds the user's explicit content settings.
type ExplicitContent struct {
	FilterEnabled bool `json:"filter_enabled"`
	FilterLocked  bool `json:"filter_locked"`
}

// PublicUser is another user's public profile.
type PublicUser struct {
	DisplayName  string       `json:"display_name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Followers    Followers    `json:"followers"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Images       []Image      `json:"images"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// GetCurrentUser retrieves the current user's profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*PrivateUser, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	var user PrivateUser
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user's public profile.
func (c *Client) GetUser(ctx context.Context, id string) (*PublicUser, error) {
	var user PublicUser
	if err := c.get(ctx, fmt.Sprintf("/users/%s", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetFollowedArtists retrieves one cursor page of the artists the
// current user follows.
func (c *Client) GetFollowedArtists(ctx context.Context, opts ...RequestOption) (*CursorPage[Artist], error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	query := queryOf(opts...)
	query.Set("type", "artist")

	var resp struct {
		Artists CursorPage[Artist] `json:"artists"`
	}
	if err := c.get(ctx, "/me/following", query, &resp); err != nil {
		return nil, err
	}
	return &resp.Artists, nil
}

// FollowArtists makes the current user follow the given artists.
func (c *Client) FollowArtists(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "artist", ids, true)
}

// UnfollowArtists makes the current user unfollow the given artists.
func (c *Client) UnfollowArtists(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "artist", ids, false)
}

// FollowUsers makes the current user follow the given users.
func (c *Client) FollowUsers(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "user", ids, true)
}

// UnfollowUsers makes the current user unfollow the given users.
func (c *Client) UnfollowUsers(ctx context.Context, ids []string) error {
	return c.setFollowing(ctx, "user", ids, false)
}

func (c *Client) setFollowing(ctx context.Context, kind string, ids []string, follow bool) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("type", kind)

	var res Nil
	if follow {
		return c.put(ctx, "/me/following", query, jsonBody(idsBody{IDs: ids}), &res)
	}
	return c.delete(ctx, "/me/following", query, jsonBody(idsBody{IDs: ids}), &res)
}

// CheckFollowsArtists reports, for each ID, whether the current user
// follows the artist.
func (c *Client) CheckFollowsArtists(ctx context.Context, ids []string) ([]bool, error) {
	return c.checkFollowing(ctx, "artist", ids)
}

// CheckFollowsUsers reports, for each ID, whether the current user
// follows the user.
func (c *Client) CheckFollowsUsers(ctx context.Context, ids []string) ([]bool, error) {
	return c.checkFollowing(ctx, "user", ids)
}

func (c *Client) checkFollowing(ctx context.Context, kind string, ids []string) ([]bool, error) {
	if err := c.assertAuthorised(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("type", kind)
	query.Set("ids", joinIDs(ids))

	var follows []bool
	if err := c.get(ctx, "/me/following/contains", query, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}

// FollowPlaylist makes the current user follow a playlist.
func (c *Client) FollowPlaylist(ctx context.Context, id string, public bool) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	payload := struct {
		Public bool `json:"public"`
	}{Public: public}

	var res Nil
	return c.put(ctx, fmt.Sprintf("/playlists/%s/followers", id), nil, jsonBody(payload), &res)
}

// UnfollowPlaylist makes the current user unfollow a playlist.
func (c *Client) UnfollowPlaylist(ctx context.Context, id string) error {
	if err := c.assertAuthorised(); err != nil {
		return err
	}

	var res Nil
	return c.delete(ctx, fmt.Sprintf("/playlists/%s/followers", id), nil, nil, &res)
}
