package legacyimport

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/inkpress/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// decodeBSONRows splits a mongodump collection payload into documents.
// Each document is length-prefixed with a little-endian int32.
func decodeBSONRows(payload []byte) ([]map[string]interface{}, error) {
	if len(payload) == 0 {
		return []map[string]interface{}{}, nil
	}
	rows := make([]map[string]interface{}, 0)
	cursor := 0
	for cursor < len(payload) {
		if cursor+4 > len(payload) {
			return nil, fmt.Errorf("invalid bson payload")
		}
		docLen := int(int32(binary.LittleEndian.Uint32(payload[cursor : cursor+4])))
		if docLen <= 0 || cursor+docLen > len(payload) {
			return nil, fmt.Errorf("invalid bson document length")
		}
		var row map[string]interface{}
		if err := bson.Unmarshal(payload[cursor:cursor+docLen], &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
		cursor += docLen
	}
	return rows, nil
}

func stringField(row map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := row[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case primitive.ObjectID:
			return v.Hex()
		}
	}
	return ""
}

func intField(row map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		switch v := row[key].(type) {
		case int32:
			return int(v)
		case int64:
			return int(v)
		case int:
			return v
		case float64:
			return int(v)
		}
	}
	return 0
}

func boolField(row map[string]interface{}, fallback bool, keys ...string) bool {
	for _, key := range keys {
		if v, ok := row[key].(bool); ok {
			return v
		}
	}
	return fallback
}

func timeField(row map[string]interface{}, keys ...string) *time.Time {
	for _, key := range keys {
		switch v := row[key].(type) {
		case primitive.DateTime:
			t := v.Time().UTC()
			return &t
		case time.Time:
			t := v.UTC()
			return &t
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

func tagsField(row map[string]interface{}) models.StringSlice {
	raw, ok := row["tags"].(primitive.A)
	if !ok {
		if alt, ok := row["tags"].([]interface{}); ok {
			raw = alt
		} else {
			return nil
		}
	}
	tags := make(models.StringSlice, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

func legacyStatus(row map[string]interface{}) models.BlogStatus {
	status := models.BlogStatus(strings.ToLower(stringField(row, "status", "state")))
	if status.Valid() {
		return status
	}
	// Older dumps carry a published flag instead of a status.
	if boolField(row, false, "published", "isPublished") {
		return models.StatusApproved
	}
	return models.StatusDraft
}

func mapUserRow(row map[string]interface{}) *models.UserModel {
	username := stringField(row, "username", "login")
	if username == "" {
		return nil
	}
	u := &models.UserModel{
		Username: username,
		Name:     stringField(row, "name", "nickname"),
		Mail:     stringField(row, "mail", "email"),
		Password: stringField(row, "password"),
		Role:     models.RoleUser,
	}
	if strings.EqualFold(stringField(row, "role"), string(models.RoleAdmin)) ||
		boolField(row, false, "isAdmin", "is_admin") {
		u.Role = models.RoleAdmin
	}
	if u.Name == "" {
		u.Name = username
	}
	if created := timeField(row, "created", "createdAt", "created_at"); created != nil {
		u.CreatedAt = *created
	}
	return u
}

func mapBlogRow(row map[string]interface{}, authorID string) *models.BlogModel {
	title := stringField(row, "title")
	if title == "" {
		return nil
	}
	b := &models.BlogModel{
		Title:      title,
		Slug:       stringField(row, "slug"),
		Content:    stringField(row, "text", "content"),
		Summary:    stringField(row, "summary"),
		Status:     legacyStatus(row),
		AuthorID:   authorID,
		AdminNotes: stringField(row, "adminNotes", "admin_notes"),
		Metrics: models.BlogMetrics{
			Views:    intField(row, "views", "read_count"),
			Likes:    intField(row, "likes", "like_count"),
			Comments: intField(row, "commentsCount", "comments_count"),
			Shares:   intField(row, "shares", "share_count"),
		},
		IsFeatured:       boolField(row, false, "featured", "is_featured"),
		IsPinned:         boolField(row, false, "pin", "is_pinned"),
		IsCommentEnabled: boolField(row, true, "allowComment", "allow_comment"),
		Tags:             tagsField(row),
	}
	if created := timeField(row, "created", "createdAt", "created_at"); created != nil {
		b.CreatedAt = *created
	}
	b.PublishedAt = timeField(row, "publishedAt", "published_at")
	if b.Status == models.StatusApproved && b.PublishedAt == nil {
		// Approved posts must carry a publication stamp.
		published := b.CreatedAt
		b.PublishedAt = &published
	}
	return b
}

func mapCommentRow(row map[string]interface{}, blogID, authorID string) *models.CommentModel {
	text := stringField(row, "text", "content")
	if text == "" {
		return nil
	}
	c := &models.CommentModel{
		BlogID:     blogID,
		AuthorID:   authorID,
		AuthorName: stringField(row, "author", "authorName", "author_name"),
		Text:       text,
		IP:         stringField(row, "ip"),
		Agent:      stringField(row, "agent"),
	}
	if c.AuthorName == "" {
		c.AuthorName = "anonymous"
	}
	if created := timeField(row, "created", "createdAt", "created_at"); created != nil {
		c.CreatedAt = *created
	}
	return c
}
