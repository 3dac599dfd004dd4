package service

import (
	"context" // Request scoped cancellation
	"strings" // Input normalisation

	"krishisaarthi/internal/advisor" // Canned crop advice
	"krishisaarthi/internal/domain"  // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreateCropFeedInput is a new community post
type CreateCropFeedInput struct {
	Title       string
	Description string
	ImageURL    *string
	IsAIQuery   bool
}

// FeedView is a post with its author and comment count
type FeedView struct {
	domain.CropFeed
	Author       domain.UserSummary `json:"user"`
	CommentCount int64              `json:"comment_count"`
}

// CommentView is a comment with its author
type CommentView struct {
	domain.Comment
	Author domain.UserSummary `json:"user"`
}

// FeedDetail is a post with its comments, oldest first
type FeedDetail struct {
	FeedView
	Comments []CommentView `json:"comments"`
}

// CropFeedService manages community posts and their comments
type CropFeedService struct {
	db      *gorm.DB
	advisor advisor.Client
}

// NewCropFeedService creates a CropFeedService answering questions with adv
func NewCropFeedService(db *gorm.DB, adv advisor.Client) *CropFeedService {
	return &CropFeedService{db: db, advisor: adv}
}

// Create publishes a post; question posts get the advisor's answer attached
func (s *CropFeedService) Create(ctx context.Context, actorID uint, in CreateCropFeedInput) (*FeedView, error) {
	fe := fieldErrors{}
	fe.minLen("title", in.Title, 5, "must be at least 5 characters")
	fe.minLen("description", in.Description, 10, "must be at least 10 characters")
	if err := fe.err(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var author domain.User
	if err := db.First(&author, actorID).Error; err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	feed := domain.CropFeed{
		UserID:      actorID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    trimmedPtr(in.ImageURL),
		IsAIQuery:   in.IsAIQuery,
	}
	if in.IsAIQuery {
		answer := s.advisor.Respond(feed.Description)
		source := s.advisor.Source()
		feed.AIResponse = &answer
		feed.AISource = &source
	}
	if err := db.Create(&feed).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"feed_id":     feed.ID,        // New post
		"user_id":     actorID,        // Author
		"is_ai_query": feed.IsAIQuery, // Question post
	}).Info("Crop feed created")
	return &FeedView{CropFeed: feed, Author: author.Summary()}, nil
}

// List returns posts newest first, optionally restricted to one author
func (s *CropFeedService) List(ctx context.Context, authorID *uint) ([]FeedView, error) {
	db := s.db.WithContext(ctx)
	q := db.Preload("User").Order("created_at DESC").Order("id DESC")
	if authorID != nil {
		q = q.Where("user_id = ?", *authorID)
	}
	var feeds []domain.CropFeed
	if err := q.Find(&feeds).Error; err != nil {
		return nil, err
	}
	counts, err := s.commentCounts(db, feeds)
	if err != nil {
		return nil, err
	}
	out := make([]FeedView, len(feeds))
	for i, f := range feeds {
		out[i] = feedView(f, counts[f.ID])
	}
	return out, nil
}

// Get returns a post and its comments
func (s *CropFeedService) Get(ctx context.Context, feedID uint) (*FeedDetail, error) {
	db := s.db.WithContext(ctx)
	var feed domain.CropFeed
	if err := db.Preload("User").First(&feed, feedID).Error; err != nil {
		return nil, notFoundOr(err, "Crop feed not found")
	}
	comments, err := s.comments(db, feedID)
	if err != nil {
		return nil, err
	}
	return &FeedDetail{FeedView: feedView(feed, int64(len(comments))), Comments: comments}, nil
}

// AddComment appends a comment to an existing post
func (s *CropFeedService) AddComment(ctx context.Context, actorID, feedID uint, content string) (*CommentView, error) {
	fe := fieldErrors{}
	fe.minLen("content", content, 1, "is required")
	if err := fe.err(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var feed domain.CropFeed
	if err := db.Select("id").First(&feed, feedID).Error; err != nil {
		return nil, notFoundOr(err, "Crop feed not found")
	}
	var author domain.User
	if err := db.First(&author, actorID).Error; err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	comment := domain.Comment{CropFeedID: feedID, UserID: actorID, Content: strings.TrimSpace(content)}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &CommentView{Comment: comment, Author: author.Summary()}, nil
}

// ListComments returns a post's comments, oldest first
func (s *CropFeedService) ListComments(ctx context.Context, feedID uint) ([]CommentView, error) {
	db := s.db.WithContext(ctx)
	var feed domain.CropFeed
	if err := db.Select("id").First(&feed, feedID).Error; err != nil {
		return nil, notFoundOr(err, "Crop feed not found")
	}
	return s.comments(db, feedID)
}

// RecordFeedback stores whether the advisor's answer helped; only the author may rate it
func (s *CropFeedService) RecordFeedback(ctx context.Context, actorID, feedID uint, helpful bool) (*domain.CropFeed, error) {
	db := s.db.WithContext(ctx)
	var feed domain.CropFeed
	if err := db.First(&feed, feedID).Error; err != nil {
		return nil, notFoundOr(err, "Crop feed not found")
	}
	if feed.UserID != actorID {
		return nil, domain.Forbidden("Only the author can rate this answer")
	}
	if err := db.Model(&feed).Update("was_helpful", helpful).Error; err != nil {
		return nil, err
	}
	feed.WasHelpful = &helpful
	return &feed, nil
}

func (s *CropFeedService) comments(db *gorm.DB, feedID uint) ([]CommentView, error) {
	var comments []domain.Comment
	if err := db.Preload("User").Where("crop_feed_id = ?", feedID).
		Order("created_at ASC").Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	out := make([]CommentView, len(comments))
	for i, c := range comments {
		out[i] = CommentView{Comment: c}
		if c.User != nil {
			out[i].Author = c.User.Summary()
		}
	}
	return out, nil
}

func (s *CropFeedService) commentCounts(db *gorm.DB, feeds []domain.CropFeed) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(feeds))
	if len(feeds) == 0 {
		return counts, nil
	}
	ids := make([]uint, len(feeds))
	for i, f := range feeds {
		ids[i] = f.ID
	}
	var rows []struct {
		CropFeedID uint
		N          int64
	}
	if err := db.Model(&domain.Comment{}).Select("crop_feed_id, COUNT(*) AS n").
		Where("crop_feed_id IN ?", ids).Group("crop_feed_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.CropFeedID] = r.N
	}
	return counts, nil
}

func feedView(f domain.CropFeed, comments int64) FeedView {
	v := FeedView{CropFeed: f, CommentCount: comments}
	if f.User != nil {
		v.Author = f.User.Summary()
	}
	return v
}
