package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/grandcamel/confluence-skills/internal/pool"
)

// Label is a content label. Prefix is almost always "global".
type Label struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
}

// GetLabels returns the labels on a page.
func (c *Client) GetLabels(ctx context.Context, pageID string) ([]Label, error) {
	raw, err := c.GetAll(ctx, contentPath+"/"+url.PathEscape(pageID)+"/label", nil, 0)
	if err != nil {
		return nil, err
	}
	labels := make([]Label, 0, len(raw))
	for _, r := range raw {
		var l Label
		if err := json.Unmarshal(r, &l); err != nil {
			return nil, fmt.Errorf("failed to decode label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, nil
}

// AddLabels adds global labels to a page.
func (c *Client) AddLabels(ctx context.Context, pageID string, names []string) error {
	payload := make([]Label, 0, len(names))
	for _, n := range names {
		payload = append(payload, Label{Prefix: "global", Name: n})
	}
	if _, err := c.Post(ctx, contentPath+"/"+url.PathEscape(pageID)+"/label", payload); err != nil {
		return err
	}
	c.invalidatePages()
	return nil
}

// RemoveLabel removes one label from a page.
func (c *Client) RemoveLabel(ctx context.Context, pageID, name string) error {
	path := contentPath + "/" + url.PathEscape(pageID) + "/label/" + url.PathEscape(name)
	if err := c.Delete(ctx, path); err != nil {
		return err
	}
	c.invalidatePages()
	return nil
}

// WatchPage subscribes the authenticated user to change notifications for a
// page.
func (c *Client) WatchPage(ctx context.Context, pageID string) error {
	_, err := c.Post(ctx, "/wiki/rest/api/user/watch/content/"+url.PathEscape(pageID), nil)
	return err
}

// UnwatchPage removes the authenticated user's watch on a page.
func (c *Client) UnwatchPage(ctx context.Context, pageID string) error {
	return c.Delete(ctx, "/wiki/rest/api/user/watch/content/"+url.PathEscape(pageID))
}

// BulkResult reports the outcome of one page in a bulk operation.
type BulkResult struct {
	PageID string
	Err    error
}

// BulkAddLabels labels many pages concurrently, bounded by maxWorkers.
// Results come back in pageID order; failures are per-page, not global.
func (c *Client) BulkAddLabels(ctx context.Context, pageIDs []string, names []string, maxWorkers int) []BulkResult {
	return c.bulk(ctx, pageIDs, maxWorkers, func(ctx context.Context, id string) error {
		return c.AddLabels(ctx, id, names)
	})
}

// BulkWatch subscribes to many pages concurrently.
func (c *Client) BulkWatch(ctx context.Context, pageIDs []string, maxWorkers int) []BulkResult {
	return c.bulk(ctx, pageIDs, maxWorkers, c.WatchPage)
}

func (c *Client) bulk(ctx context.Context, pageIDs []string, maxWorkers int, op func(context.Context, string) error) []BulkResult {
	tasks := make([]pool.Task, len(pageIDs))
	for i, id := range pageIDs {
		pageID := id
		tasks[i] = func(ctx context.Context) (interface{}, error) {
			return nil, op(ctx, pageID)
		}
	}

	results := pool.New(maxWorkers).Run(ctx, tasks)
	out := make([]BulkResult, len(results))
	for i, r := range results {
		out[i] = BulkResult{PageID: pageIDs[i], Err: r.Error}
	}
	return out
}
