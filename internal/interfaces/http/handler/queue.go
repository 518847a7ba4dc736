package handler

import (
	"net/http"
	"time"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/commerceqb/gateway/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobResponse is the API shape of one export job
type JobResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	SubjectKind string     `json:"subject_kind"`
	SubjectID   uuid.UUID  `json:"subject_id"`
	ExportedAt  *time.Time `json:"exported_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// QueueCountsResponse summarizes the queue per status
type QueueCountsResponse struct {
	Pending  int64 `json:"pending"`
	Done     int64 `json:"done"`
	Failed   int64 `json:"failed"`
	Progress int   `json:"progress"`
}

// EnqueueRequest queues one export job by hand
type EnqueueRequest struct {
	Type        string    `json:"type" binding:"required"`
	SubjectKind string    `json:"subject_kind" binding:"required"`
	SubjectID   uuid.UUID `json:"subject_id" binding:"required"`
}

// ExportOrderResponse acknowledges a manually triggered order export
type ExportOrderResponse struct {
	OrderID uuid.UUID `json:"order_id"`
	State   string    `json:"state"`
}

// QueueHandler exposes the export queue to the admin API
type QueueHandler struct {
	BaseHandler
	jobs   export.JobRepository
	orders commerce.OrderRepository
	bus    shared.EventPublisher
	logger *zap.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(jobs export.JobRepository, orders commerce.OrderRepository, bus shared.EventPublisher, logger *zap.Logger) *QueueHandler {
	return &QueueHandler{jobs: jobs, orders: orders, bus: bus, logger: logger}
}

func toJobResponse(job *export.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		Type:        string(job.Type),
		Status:      string(job.Status),
		SubjectKind: job.Subject.Kind,
		SubjectID:   job.Subject.ID,
		ExportedAt:  job.ExportedAt,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

// List returns a page of export jobs, optionally filtered by status
func (h *QueueHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	if req.Limit == 0 {
		req.Limit = 50
	}

	var status *export.Status
	if req.Status != "" {
		s := export.Status(req.Status)
		status = &s
	}

	jobs, total, err := h.jobs.List(c.Request.Context(), status, req.Limit, req.Offset)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]JobResponse, len(jobs))
	for i := range jobs {
		out[i] = toJobResponse(&jobs[i])
	}
	h.SuccessWithMeta(c, out, total, req.Limit, req.Offset, len(out))
}

// Counts returns per-status totals and the overall progress percentage
func (h *QueueHandler) Counts(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.jobs.CountByStatus(ctx, export.StatusPending)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	done, err := h.jobs.CountByStatus(ctx, export.StatusDone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	failed, err := h.jobs.CountByStatus(ctx, export.StatusFailed)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	progress := 100
	if total := done + pending; total > 0 {
		progress = int(100 * done / total)
	}

	h.Success(c, QueueCountsResponse{
		Pending:  pending,
		Done:     done,
		Failed:   failed,
		Progress: progress,
	})
}

// Enqueue creates one export job from an explicit admin request
func (h *QueueHandler) Enqueue(c *gin.Context) {
	var req EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	job, err := export.NewJob(export.JobType(req.Type), export.SubjectRef{
		Kind: req.SubjectKind,
		ID:   req.SubjectID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.jobs.Create(c.Request.Context(), job); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("job queued by operator",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
	h.Created(c, toJobResponse(job))
}

// ExportOrder republishes the order's transition event so the enqueue
// cascade queues the order and its referenced records again
func (h *QueueHandler) ExportOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order id")
		return
	}

	ctx := c.Request.Context()
	order, err := h.orders.FindByID(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if order.State == commerce.OrderStateCanceled {
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Canceled orders are never exported")
		return
	}

	event := commerce.NewOrderTransitionedEvent(order, order.State, order.State)
	if err := h.bus.Publish(ctx, event); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("order export triggered by operator", zap.String("order_id", order.ID.String()))
	h.Success(c, ExportOrderResponse{OrderID: order.ID, State: string(order.State)})
}

// Requeue puts a failed job back into the pending pool
func (h *QueueHandler) Requeue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job id")
		return
	}

	ctx := c.Request.Context()
	job, err := h.jobs.FindByID(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if job.Status != export.StatusFailed {
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Only failed jobs can be requeued")
		return
	}

	if err := h.jobs.UpdateStatus(ctx, job, export.StatusPending); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("job requeued by operator", zap.String("job_id", job.ID.String()))
	h.Success(c, toJobResponse(job))
}

// Delete removes a job from the queue
func (h *QueueHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job id")
		return
	}

	ctx := c.Request.Context()
	job, err := h.jobs.FindByID(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.jobs.Delete(ctx, job); err != nil {
		h.HandleError(c, err)
		return
	}

	h.logger.Info("job deleted by operator", zap.String("job_id", job.ID.String()))
	h.NoContent(c)
}

// RegisterRoutes mounts the queue endpoints on the given router group
func (h *QueueHandler) RegisterRoutes(r *gin.RouterGroup) {
	queue := r.Group("/queue")
	{
		queue.GET("/jobs", h.List)
		queue.GET("/counts", h.Counts)
		queue.POST("/jobs", h.Enqueue)
		queue.POST("/orders/:id/export", h.ExportOrder)
		queue.POST("/jobs/:id/requeue", h.Requeue)
		queue.DELETE("/jobs/:id", h.Delete)
	}
}
