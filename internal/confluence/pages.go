package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/grandcamel/confluence-skills/internal/cache"
	"github.com/grandcamel/confluence-skills/internal/logging"
)

// Page is a Confluence content item in the v1 API shape.
type Page struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Status  string  `json:"status"`
	Title   string  `json:"title"`
	Space   *Space  `json:"space,omitempty"`
	Version Version `json:"version"`
	Body    *Body   `json:"body,omitempty"`
	Links   Links   `json:"_links"`
}

// Space is a Confluence space.
type Space struct {
	ID    int    `json:"id,omitempty"`
	Key   string `json:"key"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Links Links  `json:"_links"`
}

// Version carries the page version counter used for optimistic locking.
type Version struct {
	Number  int    `json:"number"`
	Message string `json:"message,omitempty"`
	When    string `json:"when,omitempty"`
}

// Body holds the storage-format representation of page content.
type Body struct {
	Storage Storage `json:"storage"`
}

// Storage is the storage-format body value.
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// Links carries the subset of _links fields the CLI surfaces.
type Links struct {
	WebUI string `json:"webui,omitempty"`
	Base  string `json:"base,omitempty"`
}

// SearchResult is one CQL search hit.
type SearchResult struct {
	Content struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Title string `json:"title"`
	} `json:"content"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	URL     string `json:"url"`
}

const contentPath = "/wiki/rest/api/content"

// GetPage fetches a page by ID, including its storage body and version.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	query := url.Values{}
	query.Set("expand", "body.storage,version,space")

	body, err := c.GetCached(
		ctx,
		"page:"+pageID,
		cache.CategoryPages,
		contentPath+"/"+url.PathEscape(pageID),
		query,
	)
	if err != nil {
		return nil, err
	}

	page := &Page{}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return page, nil
}

// GetPageStorage returns a page's storage-format XHTML body.
func (c *Client) GetPageStorage(ctx context.Context, pageID string) (string, error) {
	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return "", err
	}
	if page.Body == nil {
		return "", nil
	}
	return page.Body.Storage.Value, nil
}

// CreatePage creates a page with a storage-format body. parentID may be
// empty for a top-level page.
func (c *Client) CreatePage(ctx context.Context, spaceKey, title, storage, parentID string) (*Page, error) {
	payload := map[string]interface{}{
		"type":  "page",
		"title": title,
		"space": map[string]string{"key": spaceKey},
		"body": map[string]interface{}{
			"storage": map[string]string{
				"value":          storage,
				"representation": "storage",
			},
		},
	}
	if parentID != "" {
		payload["ancestors"] = []map[string]string{{"id": parentID}}
	}

	body, err := c.Post(ctx, contentPath, payload)
	if err != nil {
		return nil, err
	}
	c.invalidatePages()

	page := &Page{}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, fmt.Errorf("failed to decode created page: %w", err)
	}
	c.logger.Info("page created",
		logging.String("id", page.ID),
		logging.String("title", page.Title),
	)
	return page, nil
}

// UpdatePageStorage replaces a page's body, bumping the version number. The
// caller passes the version it read; a stale version surfaces as a
// ConflictError from the API.
func (c *Client) UpdatePageStorage(ctx context.Context, pageID, title, storage string, currentVersion int) (*Page, error) {
	payload := map[string]interface{}{
		"type":    "page",
		"title":   title,
		"version": map[string]int{"number": currentVersion + 1},
		"body": map[string]interface{}{
			"storage": map[string]string{
				"value":          storage,
				"representation": "storage",
			},
		},
	}

	body, err := c.Put(ctx, contentPath+"/"+url.PathEscape(pageID), payload)
	if err != nil {
		return nil, err
	}
	c.invalidatePages()

	page := &Page{}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, fmt.Errorf("failed to decode updated page: %w", err)
	}
	c.logger.Info("page updated",
		logging.String("id", page.ID),
		logging.Int("version", page.Version.Number),
	)
	return page, nil
}

// DeletePage deletes a page by ID.
func (c *Client) DeletePage(ctx context.Context, pageID string) error {
	if err := c.Delete(ctx, contentPath+"/"+url.PathEscape(pageID)); err != nil {
		return err
	}
	c.invalidatePages()
	return nil
}

// GetChildPages returns the direct child pages of a page.
func (c *Client) GetChildPages(ctx context.Context, pageID string, maxResults int) ([]*Page, error) {
	raw, err := c.GetAll(ctx, contentPath+"/"+url.PathEscape(pageID)+"/child/page", nil, maxResults)
	if err != nil {
		return nil, err
	}
	return decodePages(raw)
}

// Search runs a CQL query and returns matching content.
func (c *Client) Search(ctx context.Context, cql string, maxResults int) ([]*SearchResult, error) {
	query := url.Values{}
	query.Set("cql", cql)

	raw, err := c.GetAll(ctx, "/wiki/rest/api/search", query, maxResults)
	if err != nil {
		return nil, err
	}
	results := make([]*SearchResult, 0, len(raw))
	for _, r := range raw {
		sr := &SearchResult{}
		if err := json.Unmarshal(r, sr); err != nil {
			return nil, fmt.Errorf("failed to decode search result: %w", err)
		}
		results = append(results, sr)
	}
	return results, nil
}

// GetSpace fetches a space by key.
func (c *Client) GetSpace(ctx context.Context, key string) (*Space, error) {
	body, err := c.GetCached(
		ctx,
		"space:"+key,
		cache.CategorySpaces,
		"/wiki/rest/api/space/"+url.PathEscape(key),
		nil,
	)
	if err != nil {
		return nil, err
	}
	space := &Space{}
	if err := json.Unmarshal(body, space); err != nil {
		return nil, fmt.Errorf("failed to decode space: %w", err)
	}
	return space, nil
}

// ListSpaces returns all spaces visible to the account.
func (c *Client) ListSpaces(ctx context.Context, maxResults int) ([]*Space, error) {
	raw, err := c.GetAll(ctx, "/wiki/rest/api/space", nil, maxResults)
	if err != nil {
		return nil, err
	}
	spaces := make([]*Space, 0, len(raw))
	for _, r := range raw {
		s := &Space{}
		if err := json.Unmarshal(r, s); err != nil {
			return nil, fmt.Errorf("failed to decode space: %w", err)
		}
		spaces = append(spaces, s)
	}
	return spaces, nil
}

func decodePages(raw []json.RawMessage) ([]*Page, error) {
	pages := make([]*Page, 0, len(raw))
	for _, r := range raw {
		p := &Page{}
		if err := json.Unmarshal(r, p); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// invalidatePages drops cached page and search reads after any write.
func (c *Client) invalidatePages() {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(cache.CategoryPages); err != nil {
		c.logger.Warn("cache invalidation failed", logging.Error(err))
	}
	if err := c.cache.Invalidate(cache.CategorySearch); err != nil {
		c.logger.Warn("cache invalidation failed", logging.Error(err))
	}
}
