package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/bubblecrawl/ingest-gateway/internal/model"
    "github.com/bubblecrawl/ingest-gateway/internal/service"
    "github.com/bubblecrawl/ingest-gateway/pkg/response"
)

// SubmitRecord 提交一条归档记录（只增不改）
// @Summary 提交记录
// @Description 校验、按 id 去重后追加写入归档表；同 id 重复提交返回 409
// @Tags 摄入
// @Accept json
// @Produce json
// @Param X-Bubble-Key header string true "写入方密钥"
// @Param request body model.Submission true "记录内容"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/records [post]
func (h *Handler) SubmitRecord(c *gin.Context) {
    var sub model.Submission
    if err := c.ShouldBindJSON(&sub); err != nil {
        response.BadRequest(c, "invalid json body: "+err.Error())
        return
    }

    id, err := h.ingestSvc.Ingest(c.Request.Context(), &sub)
    if err != nil {
        h.writeIngestError(c, err)
        return
    }
    response.Success(c, gin.H{"id": id})
}

// writeIngestError 把服务层错误映射为 HTTP 状态。
// 调用方据此区分「改了再发」「稍后重试」「已存在」
func (h *Handler) writeIngestError(c *gin.Context, err error) {
    var verr *service.ValidationError
    var rerr *service.RejectedError
    switch {
    case errors.As(err, &verr):
        response.BadRequest(c, verr.Error())
    case errors.Is(err, service.ErrDuplicateID):
        response.Conflict(c, err.Error())
    case errors.Is(err, service.ErrOverloaded):
        response.TooManyRequests(c, err.Error())
    case errors.Is(err, service.ErrUnavailable):
        response.ServiceUnavailable(c, err.Error())
    case errors.As(err, &rerr):
        response.UnprocessableEntity(c, rerr.Error())
    case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
        // 客户端已断开或超时，预约已在服务层释放
        c.Status(http.StatusRequestTimeout)
    default:
        response.InternalError(c, err)
    }
}
