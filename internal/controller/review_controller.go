package controller

import (
	"errors"
	"strconv"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/service"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/srs"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService   *service.ReviewService
	ProgressService *service.ProgressService
}

func NewReviewController(reviewService *service.ReviewService, progressService *service.ProgressService) *ReviewController {
	return &ReviewController{
		ReviewService:   reviewService,
		ProgressService: progressService,
	}
}

type SubmitReviewRequest struct {
	ItemID         string `json:"itemId" binding:"required"`
	ItemType       string `json:"itemType" binding:"required"`
	UserAnswer     string `json:"userAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	IsCorrect      *bool  `json:"isCorrect" binding:"required"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
	UnitCount      int    `json:"unitCount"` // 内容单元数（如汉字数），用于按字折算作答速度
}

// @Summary 提交一次复习结果
// @Description 根据正误和作答耗时推导评级，计算下一次调度状态并原子落库
// @Tags 复习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitReviewRequest true "复习结果"
// @Success 200 {object} util.Response{data=service.SubmitReviewResult}
// @Router /reviews [post]
func (c *ReviewController) SubmitReview(ctx *gin.Context) {
	learner := util.GetLearnerFromContext(ctx)
	if learner == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.ResponseTimeMs < 0 {
		util.BadRequest(ctx, "responseTimeMs must be >= 0")
		return
	}

	grade := srs.DeriveGrade(*req.IsCorrect, req.ResponseTimeMs, req.UnitCount)

	result, err := c.ReviewService.SubmitReview(service.SubmitReviewInput{
		LearnerID:      learner.LearnerID,
		ItemID:         req.ItemID,
		ItemType:       req.ItemType,
		UserAnswer:     req.UserAnswer,
		CorrectAnswer:  req.CorrectAnswer,
		IsCorrect:      *req.IsCorrect,
		Grade:          grade,
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		if errors.Is(err, srs.ErrInvalidGrade) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取到期复习队列
// @Description 返回 next_due_at 不晚于当前时刻的条目，按到期时间升序
// @Tags 复习
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回条数上限" default(20)
// @Success 200 {object} util.Response
// @Router /reviews/due [get]
func (c *ReviewController) GetDueItems(ctx *gin.Context) {
	learner := util.GetLearnerFromContext(ctx)
	if learner == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 500 {
		limit = 20
	}

	items, err := c.ProgressService.DueItems(learner.LearnerID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

// @Summary 复习历史查询
// @Description 按时间倒序分页返回复习流水，可按条目过滤
// @Tags 复习
// @Produce json
// @Security BearerAuth
// @Param itemId query string false "条目ID"
// @Param itemType query string false "条目类型"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(50)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /reviews/history [get]
func (c *ReviewController) GetHistory(ctx *gin.Context) {
	learner := util.GetLearnerFromContext(ctx)
	if learner == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	events, total, err := c.ProgressService.GetHistory(
		learner.LearnerID,
		ctx.Query("itemId"),
		ctx.Query("itemType"),
		page,
		limit,
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  events,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
