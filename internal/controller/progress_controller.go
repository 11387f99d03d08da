package controller

import (
	"errors"
	"time"

	"github.com/kennethwzc/mandarin-srs-sub000/internal/service"
	"github.com/kennethwzc/mandarin-srs-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 获取单个条目的调度状态
// @Description 返回当前阶段、难度系数、间隔和下次到期时间
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param itemType path string true "条目类型"
// @Param itemId path string true "条目ID"
// @Success 200 {object} util.Response{data=model.LearningItemState}
// @Router /progress/items/{itemType}/{itemId} [get]
func (c *ProgressController) GetItemState(ctx *gin.Context) {
	learner := util.GetLearnerFromContext(ctx)
	if learner == nil {
		util.Unauthorized(ctx)
		return
	}

	state, err := c.ProgressService.GetItemState(
		learner.LearnerID,
		ctx.Param("itemId"),
		ctx.Param("itemType"),
	)
	if err != nil {
		if errors.Is(err, util.ErrItemStateNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, state)
}

// @Summary 获取某日学习汇总
// @Description 返回当日完成量、准确率、学习时长和连续学习标记
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 YYYY-MM-DD，缺省为今天"
// @Success 200 {object} util.Response{data=model.DailyRollup}
// @Router /progress/daily [get]
func (c *ProgressController) GetDailyRollup(ctx *gin.Context) {
	learner := util.GetLearnerFromContext(ctx)
	if learner == nil {
		util.Unauthorized(ctx)
		return
	}

	var day time.Time
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			util.BadRequest(ctx, util.ErrInvalidDate.Error())
			return
		}
		day = parsed
	}

	rollup, err := c.ProgressService.GetDailyRollup(learner.LearnerID, day)
	if err != nil {
		if errors.Is(err, util.ErrRollupNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rollup)
}
