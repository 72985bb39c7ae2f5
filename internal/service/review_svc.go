package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"multishop_v1/internal/api/dto"
	"multishop_v1/internal/model"
	"multishop_v1/internal/repository"
)

// ==================== ReviewService 评价服务 ====================

var (
	// ErrReviewNotFound 评价不存在
	ErrReviewNotFound = errors.New("评价不存在")
	// ErrReviewExists 同一用户对同一商品只能评价一次
	ErrReviewExists = errors.New("您已评价过该商品")
	// ErrReviewModerated 评价已处理过，不允许重复审核
	ErrReviewModerated = errors.New("评价已审核，不能重复处理")
)

// ReviewService 商品评价与审核服务
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	notify   *NotificationService
	log      *zap.Logger
}

// NewReviewService 创建评价服务
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, notify *NotificationService, log *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, notify: notify, log: log}
}

// Create 买家提交评价，初始状态为待审核
func (s *ReviewService) Create(ctx context.Context, shopID, userID int64, req dto.ReviewCreateReq) (*model.Review, error) {
	product, err := s.products.GetByShopAndID(ctx, shopID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	exists, err := s.reviews.ExistsByProductAndUser(ctx, req.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewExists
	}

	review := &model.Review{
		ShopID:    shopID,
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Content:   req.Content,
		Status:    model.ReviewStatusPending,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	return review, nil
}

// List 评价列表，店铺内可按商品、状态筛选
func (s *ReviewService) List(ctx context.Context, shopID int64, req dto.ReviewListReq) ([]model.Review, int64, error) {
	return s.reviews.List(ctx, repository.ReviewFilter{
		ShopID:    shopID,
		ProductID: req.ProductID,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
}

// ListApproved 商品详情页的公开评价，只返回已通过的
func (s *ReviewService) ListApproved(ctx context.Context, shopID, productID int64, page, pageSize int) ([]model.Review, int64, error) {
	return s.reviews.List(ctx, repository.ReviewFilter{
		ShopID:    shopID,
		ProductID: productID,
		Status:    model.ReviewStatusApproved,
		Page:      page,
		PageSize:  pageSize,
	})
}

// Moderate 审核评价：通过或驳回，并回写商品评分汇总
func (s *ReviewService) Moderate(ctx context.Context, shopID, reviewID, moderatorID int64, req dto.ReviewModerateReq) (*model.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.ShopID != shopID {
		return nil, ErrReviewNotFound
	}
	if review.Status != model.ReviewStatusPending {
		return nil, ErrReviewModerated
	}

	status := model.ReviewStatusApproved
	note := ""
	if !req.Approve {
		status = model.ReviewStatusRejected
		note = req.RejectNote
	}
	if err := s.reviews.Moderate(ctx, reviewID, status, moderatorID, note); err != nil {
		return nil, err
	}

	// 通过后重算商品评分，失败不影响审核结果
	if status == model.ReviewStatusApproved {
		if err := s.refreshProductRating(ctx, review.ProductID); err != nil {
			s.log.Warn("回写商品评分失败",
				zap.Int64("product_id", review.ProductID),
				zap.Error(err))
		}
	}

	s.notifyReviewer(ctx, review, status, note)

	return s.reviews.GetByID(ctx, reviewID)
}

// refreshProductRating 依据已通过评价重算商品评分
func (s *ReviewService) refreshProductRating(ctx context.Context, productID int64) error {
	count, average, err := s.reviews.RatingSummary(ctx, productID)
	if err != nil {
		return err
	}
	return s.products.UpdateReviewStats(ctx, productID, int(count), average)
}

// notifyReviewer 通知评价人审核结果
func (s *ReviewService) notifyReviewer(ctx context.Context, review *model.Review, status, note string) {
	title := "评价已通过"
	body := fmt.Sprintf("您对商品 #%d 的评价已通过审核", review.ProductID)
	if status == model.ReviewStatusRejected {
		title = "评价未通过"
		body = fmt.Sprintf("您对商品 #%d 的评价未通过审核", review.ProductID)
		if note != "" {
			body += "：" + note
		}
	}
	if err := s.notify.Push(ctx, review.UserID, review.ShopID, model.NotifyTypeReview, title, body); err != nil {
		s.log.Warn("发送评价通知失败", zap.Int64("review_id", review.ID), zap.Error(err))
	}
}

// isUniqueViolation 判断是否为唯一索引冲突
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
