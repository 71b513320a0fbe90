package spotify

import (
	"context"
	"fmt"
)

// Category is a browse category used to tag items in Spotify.
type Category struct {
	Href  string  `json:"href"`
	Icons []Image `json:"icons"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
}

// GetBrowseCategory retrieves a single browse category.
func (c *Client) GetBrowseCategory(ctx context.Context, id string, opts ...RequestOption) (*Category, error) {
	var category Category
	if err := c.get(ctx, fmt.Sprintf("/browse/categories/%s", id), queryOf(opts...), &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetBrowseCategories retrieves one page of browse categories.
func (c *Client) GetBrowseCategories(ctx context.Context, opts ...RequestOption) (*Page[Category], error) {
	var resp struct {
		Categories Page[Category] `json:"categories"`
	}
	if err := c.get(ctx, "/browse/categories", queryOf(opts...), &resp); err != nil {
		return nil, err
	}
	return &resp.Categories, nil
}

// GetAvailableGenreSeeds retrieves the genre seeds available for
// recommendations.
func (c *Client) GetAvailableGenreSeeds(ctx context.Context) ([]string, error) {
	var resp struct {
		Genres []string `json:"genres"`
	}
	if err := c.get(ctx, "/recommendations/available-genre-seeds", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}
