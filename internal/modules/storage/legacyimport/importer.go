package legacyimport

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/inkpress/core/internal/models"
	"github.com/inkpress/core/internal/pkg/readingtime"
	"github.com/inkpress/core/internal/pkg/slug"
	"github.com/inkpress/core/internal/pkg/trending"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report summarizes what a legacy import brought in.
type Report struct {
	Users    int `json:"users"`
	Blogs    int `json:"blogs"`
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
	Skipped  int `json:"skipped"`
}

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

var collectionAliases = map[string]string{
	"posts":    "blogs",
	"articles": "blogs",
	"notes":    "blogs",
	"masters":  "users",
	"authors":  "users",
}

// ImportFromZip loads a mongoexport/mongodump archive of the legacy
// platform into the relational store. Legacy ObjectIDs are replaced by
// fresh UUIDs; cross-references are re-linked through the old IDs.
func (s *Service) ImportFromZip(zr *zip.Reader) (*Report, error) {
	entries := map[string]collectionEntry{}
	for _, file := range zr.File {
		name, format, ok := parseEntry(file.Name)
		if !ok {
			continue
		}
		existing, has := entries[name]
		// Prefer the BSON dump when both formats are present.
		if !has || (existing.format != "bson" && format == "bson") {
			entries[name] = collectionEntry{file: file, format: format}
		}
	}

	report := &Report{}
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback().Error
		}
	}()

	userIDs, err := s.importUsers(tx, entries["users"], report)
	if err != nil {
		return nil, err
	}
	blogIDs, authorByBlog, err := s.importBlogs(tx, entries["blogs"], userIDs, report)
	if err != nil {
		return nil, err
	}
	if err := s.importComments(tx, entries["comments"], blogIDs, userIDs, report); err != nil {
		return nil, err
	}
	if err := s.importLikes(tx, entries["likes"], blogIDs, userIDs, report); err != nil {
		return nil, err
	}
	if err := s.syncAuthorCounters(tx, authorByBlog); err != nil {
		return nil, err
	}
	if err := s.recomputeScores(tx, blogIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("legacy import finished",
		zap.Int("users", report.Users),
		zap.Int("blogs", report.Blogs),
		zap.Int("comments", report.Comments),
		zap.Int("likes", report.Likes),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

type collectionEntry struct {
	file   *zip.File
	format string
}

func parseEntry(name string) (collection, format string, ok bool) {
	base := strings.ToLower(strings.TrimSpace(path.Base(name)))
	if base == "" || strings.HasSuffix(base, ".metadata.json") {
		return "", "", false
	}
	switch {
	case strings.HasSuffix(base, ".bson"):
		collection, format = strings.TrimSuffix(base, ".bson"), "bson"
	case strings.HasSuffix(base, ".json"):
		collection, format = strings.TrimSuffix(base, ".json"), "json"
	default:
		return "", "", false
	}
	if mapped, has := collectionAliases[collection]; has {
		collection = mapped
	}
	switch collection {
	case "users", "blogs", "comments", "likes":
		return collection, format, true
	}
	return "", "", false
}

func decodeRows(entry collectionEntry) ([]map[string]interface{}, error) {
	if entry.file == nil {
		return nil, nil
	}
	rc, err := entry.file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	switch entry.format {
	case "bson":
		return decodeBSONRows(data)
	case "json":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		// mongoexport emits one JSON document per line.
		if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
			var rows []map[string]interface{}
			return rows, json.Unmarshal(data, &rows)
		}
		var rows []map[string]interface{}
		for _, line := range bytes.Split(data, []byte("\n")) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			var row map[string]interface{}
			if err := json.Unmarshal(line, &row); err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported dump format: %s", entry.format)
	}
}

// importUsers returns a legacy-ID to new-ID map.
func (s *Service) importUsers(tx *gorm.DB, entry collectionEntry, report *Report) (map[string]string, error) {
	rows, err := decodeRows(entry)
	if err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	ids := map[string]string{}
	for _, row := range rows {
		u := mapUserRow(row)
		if u == nil {
			report.Skipped++
			continue
		}
		var count int64
		if err := tx.Model(&models.UserModel{}).
			Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			report.Skipped++
			continue
		}
		if err := tx.Create(u).Error; err != nil {
			return nil, fmt.Errorf("import user %s: %w", u.Username, err)
		}
		if legacyID := stringField(row, "_id", "id"); legacyID != "" {
			ids[legacyID] = u.ID
		}
		report.Users++
	}
	return ids, nil
}

func (s *Service) importBlogs(tx *gorm.DB, entry collectionEntry, userIDs map[string]string, report *Report) (map[string]string, map[string]int, error) {
	rows, err := decodeRows(entry)
	if err != nil {
		return nil, nil, fmt.Errorf("decode blogs: %w", err)
	}

	ids := map[string]string{}
	blogsByAuthor := map[string]int{}
	for _, row := range rows {
		authorID := userIDs[stringField(row, "author_id", "authorId", "author")]
		if authorID == "" {
			report.Skipped++
			continue
		}
		b := mapBlogRow(row, authorID)
		if b == nil {
			report.Skipped++
			continue
		}

		allocated, err := slug.Allocate(b.Title, "", b.Status == models.StatusApproved, func(candidate, _ string) (bool, error) {
			var count int64
			err := tx.Model(&models.BlogModel{}).
				Where("slug = ? AND status = ?", candidate, models.StatusApproved).
				Count(&count).Error
			return count > 0, err
		})
		if err != nil {
			return nil, nil, err
		}
		b.Slug = allocated
		b.ReadingTime = readingtime.Minutes(b.Content)

		if err := tx.Create(b).Error; err != nil {
			return nil, nil, fmt.Errorf("import blog %q: %w", b.Title, err)
		}
		if legacyID := stringField(row, "_id", "id"); legacyID != "" {
			ids[legacyID] = b.ID
		}
		blogsByAuthor[authorID]++
		report.Blogs++
	}
	return ids, blogsByAuthor, nil
}

func (s *Service) importComments(tx *gorm.DB, entry collectionEntry, blogIDs, userIDs map[string]string, report *Report) error {
	rows, err := decodeRows(entry)
	if err != nil {
		return fmt.Errorf("decode comments: %w", err)
	}

	perBlog := map[string]int{}
	for _, row := range rows {
		blogID := blogIDs[stringField(row, "ref", "refId", "ref_id", "blog_id", "blogId")]
		if blogID == "" {
			report.Skipped++
			continue
		}
		c := mapCommentRow(row, blogID, userIDs[stringField(row, "author_id", "authorId")])
		if c == nil {
			report.Skipped++
			continue
		}
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("import comment on blog %s: %w", blogID, err)
		}
		perBlog[blogID]++
		report.Comments++
	}

	// The counter columns come from the dump; reconcile them with what
	// was actually imported.
	for blogID, count := range perBlog {
		if err := tx.Model(&models.BlogModel{}).
			Where("id = ?", blogID).
			Update("metric_comments", count).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) importLikes(tx *gorm.DB, entry collectionEntry, blogIDs, userIDs map[string]string, report *Report) error {
	rows, err := decodeRows(entry)
	if err != nil {
		return fmt.Errorf("decode likes: %w", err)
	}

	perBlog := map[string]int{}
	seen := map[string]bool{}
	for _, row := range rows {
		blogID := blogIDs[stringField(row, "ref", "refId", "ref_id", "blog_id", "blogId")]
		userID := userIDs[stringField(row, "user_id", "userId", "author_id", "authorId")]
		if blogID == "" || userID == "" {
			report.Skipped++
			continue
		}
		pair := blogID + "|" + userID
		if seen[pair] {
			report.Skipped++
			continue
		}
		seen[pair] = true

		like := &models.LikeModel{BlogID: blogID, UserID: userID}
		if created := timeField(row, "created", "createdAt", "created_at"); created != nil {
			like.CreatedAt = *created
		}
		if err := tx.Create(like).Error; err != nil {
			return fmt.Errorf("import like on blog %s: %w", blogID, err)
		}
		perBlog[blogID]++
		report.Likes++
	}

	for blogID, count := range perBlog {
		if err := tx.Model(&models.BlogModel{}).
			Where("id = ?", blogID).
			Update("metric_likes", count).Error; err != nil {
			return err
		}
	}
	return nil
}

// recomputeScores refreshes trending scores once the comment and like
// counters have been reconciled with the imported rows.
func (s *Service) recomputeScores(tx *gorm.DB, blogIDs map[string]string) error {
	now := time.Now()
	for _, id := range blogIDs {
		var b models.BlogModel
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		score := trending.Score(trending.Metrics{
			Views:    b.Metrics.Views,
			Likes:    b.Metrics.Likes,
			Comments: b.Metrics.Comments,
			Shares:   b.Metrics.Shares,
		}, b.ScoreReference(), now)
		if err := tx.Model(&b).UpdateColumn("trending_score", score).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) syncAuthorCounters(tx *gorm.DB, blogsByAuthor map[string]int) error {
	for authorID, count := range blogsByAuthor {
		if err := tx.Model(&models.UserModel{}).
			Where("id = ?", authorID).
			Update("total_blogs", gorm.Expr("total_blogs + ?", count)).Error; err != nil {
			return err
		}
	}
	return nil
}
