package legacyimport

import (
	"testing"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecodeBSONRows(t *testing.T) {
	docA, err := bson.Marshal(bson.M{"title": "first"})
	require.NoError(t, err)
	docB, err := bson.Marshal(bson.M{"title": "second"})
	require.NoError(t, err)

	rows, err := decodeBSONRows(append(docA, docB...))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0]["title"])
	assert.Equal(t, "second", rows[1]["title"])

	rows, err = decodeBSONRows(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = decodeBSONRows(docA[:len(docA)-2])
	assert.Error(t, err)
}

func TestMapBlogRow(t *testing.T) {
	created := primitive.NewDateTimeFromTime(time.Date(2021, 3, 14, 9, 0, 0, 0, time.UTC))
	row := map[string]interface{}{
		"_id":           primitive.NewObjectID(),
		"title":         "Migrated Post",
		"text":          "Some body text.",
		"status":        "approved",
		"views":         int32(120),
		"like_count":    int64(7),
		"commentsCount": int32(3),
		"pin":           true,
		"allowComment":  false,
		"created":       created,
		"tags":          primitive.A{"go", "mongo", int32(5)},
	}

	b := mapBlogRow(row, "author-uuid")
	require.NotNil(t, b)
	assert.Equal(t, "Migrated Post", b.Title)
	assert.Equal(t, models.StatusApproved, b.Status)
	assert.Equal(t, "author-uuid", b.AuthorID)
	assert.Equal(t, 120, b.Metrics.Views)
	assert.Equal(t, 7, b.Metrics.Likes)
	assert.Equal(t, 3, b.Metrics.Comments)
	assert.True(t, b.IsPinned)
	assert.False(t, b.IsCommentEnabled)
	assert.Equal(t, models.StringSlice{"go", "mongo"}, b.Tags)
	assert.Equal(t, created.Time().UTC(), b.CreatedAt)
	require.NotNil(t, b.PublishedAt, "approved posts get a publication stamp")
	assert.Equal(t, b.CreatedAt, *b.PublishedAt)
}

func TestMapBlogRowLegacyPublishedFlag(t *testing.T) {
	b := mapBlogRow(map[string]interface{}{"title": "Old", "published": true}, "a")
	require.NotNil(t, b)
	assert.Equal(t, models.StatusApproved, b.Status)

	b = mapBlogRow(map[string]interface{}{"title": "Old", "published": false}, "a")
	require.NotNil(t, b)
	assert.Equal(t, models.StatusDraft, b.Status)

	assert.Nil(t, mapBlogRow(map[string]interface{}{"text": "no title"}, "a"))
}

func TestMapUserRow(t *testing.T) {
	u := mapUserRow(map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"isAdmin":  true,
	})
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice", u.Name, "name falls back to username")
	assert.Equal(t, "alice@example.com", u.Mail)
	assert.Equal(t, models.RoleAdmin, u.Role)

	assert.Nil(t, mapUserRow(map[string]interface{}{"email": "nobody@example.com"}))
}

func TestMapCommentRow(t *testing.T) {
	c := mapCommentRow(map[string]interface{}{
		"text":   "great read",
		"author": "bob",
	}, "blog-uuid", "")
	require.NotNil(t, c)
	assert.Equal(t, "blog-uuid", c.BlogID)
	assert.Equal(t, "bob", c.AuthorName)

	c = mapCommentRow(map[string]interface{}{"text": "hi"}, "blog-uuid", "")
	require.NotNil(t, c)
	assert.Equal(t, "anonymous", c.AuthorName)

	assert.Nil(t, mapCommentRow(map[string]interface{}{"author": "bob"}, "blog-uuid", ""))
}

func TestParseEntry(t *testing.T) {
	cases := []struct {
		name       string
		collection string
		format     string
		ok         bool
	}{
		{"dump/blog/posts.bson", "blogs", "bson", true},
		{"users.json", "users", "json", true},
		{"comments.bson", "comments", "bson", true},
		{"likes.json", "likes", "json", true},
		{"posts.metadata.json", "", "", false},
		{"readme.txt", "", "", false},
		{"options.bson", "", "", false},
	}
	for _, tc := range cases {
		collection, format, ok := parseEntry(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.collection, collection, tc.name)
		assert.Equal(t, tc.format, format, tc.name)
	}
}
