package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/grandcamel/confluence-skills/internal/logging"
)

// Comment is a footer comment on a page, in the v1 content shape.
type Comment struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Status  string  `json:"status"`
	Title   string  `json:"title"`
	Version Version `json:"version"`
	Body    *Body   `json:"body,omitempty"`
}

// GetComments returns the footer comments on a page, oldest first.
func (c *Client) GetComments(ctx context.Context, pageID string, maxResults int) ([]*Comment, error) {
	query := url.Values{}
	query.Set("expand", "body.storage,version")

	raw, err := c.GetAll(ctx, contentPath+"/"+url.PathEscape(pageID)+"/child/comment", query, maxResults)
	if err != nil {
		return nil, err
	}
	comments := make([]*Comment, 0, len(raw))
	for _, r := range raw {
		cm := &Comment{}
		if err := json.Unmarshal(r, cm); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %w", err)
		}
		comments = append(comments, cm)
	}
	return comments, nil
}

// AddComment posts a footer comment with a storage-format body.
func (c *Client) AddComment(ctx context.Context, pageID, storage string) (*Comment, error) {
	payload := map[string]interface{}{
		"type":      "comment",
		"container": map[string]string{"id": pageID, "type": "page"},
		"body": map[string]interface{}{
			"storage": map[string]string{
				"value":          storage,
				"representation": "storage",
			},
		},
	}

	body, err := c.Post(ctx, contentPath, payload)
	if err != nil {
		return nil, err
	}
	c.invalidatePages()

	comment := &Comment{}
	if err := json.Unmarshal(body, comment); err != nil {
		return nil, fmt.Errorf("failed to decode created comment: %w", err)
	}
	c.logger.Info("comment added",
		logging.String("page", pageID),
		logging.String("comment", comment.ID),
	)
	return comment, nil
}

// UpdateComment replaces a comment's body, bumping its version. A stale
// version surfaces as a ConflictError, same as page updates.
func (c *Client) UpdateComment(ctx context.Context, commentID, storage string, currentVersion int) (*Comment, error) {
	payload := map[string]interface{}{
		"type":    "comment",
		"version": map[string]int{"number": currentVersion + 1},
		"body": map[string]interface{}{
			"storage": map[string]string{
				"value":          storage,
				"representation": "storage",
			},
		},
	}

	body, err := c.Put(ctx, contentPath+"/"+url.PathEscape(commentID), payload)
	if err != nil {
		return nil, err
	}
	c.invalidatePages()

	comment := &Comment{}
	if err := json.Unmarshal(body, comment); err != nil {
		return nil, fmt.Errorf("failed to decode updated comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment by ID.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	if err := c.Delete(ctx, contentPath+"/"+url.PathEscape(commentID)); err != nil {
		return err
	}
	c.invalidatePages()
	return nil
}
