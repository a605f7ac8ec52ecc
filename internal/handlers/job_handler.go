package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	ucJob "github.com/BruksfildServices01/fieldops/internal/usecase/job"
)

// ======================================================
// HANDLER
// ======================================================

type JobHandler struct {
	create       *ucJob.CreateJob
	update       *ucJob.UpdateJob
	updateStatus *ucJob.UpdateJobStatus
	delete       *ucJob.DeleteJob
	get          *ucJob.GetJob
	list         *ucJob.ListJobs
}

func NewJobHandler(
	create *ucJob.CreateJob,
	update *ucJob.UpdateJob,
	updateStatus *ucJob.UpdateJobStatus,
	del *ucJob.DeleteJob,
	get *ucJob.GetJob,
	list *ucJob.ListJobs,
) *JobHandler {
	return &JobHandler{
		create:       create,
		update:       update,
		updateStatus: updateStatus,
		delete:       del,
		get:          get,
		list:         list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateJobRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	ServiceID  uint   `json:"service_id" binding:"required"`
	AssignedTo *uint  `json:"assigned_to"`
	JobDate    string `json:"job_date" binding:"required"`
	JobTime    string `json:"job_time"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

type UpdateJobRequest struct {
	CustomerID *uint   `json:"customer_id"`
	ServiceID  *uint   `json:"service_id"`
	AssignedTo *uint   `json:"assigned_to"`
	Unassign   bool    `json:"unassign"`
	JobDate    *string `json:"job_date"`
	JobTime    *string `json:"job_time"`
	Location   *string `json:"location"`
	Notes      *string `json:"notes"`
	Status     *string `json:"status"`
	Force      bool    `json:"force"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status"`
	Force  bool   `json:"force"`
}

// ======================================================
// LIST
// ======================================================

func (h *JobHandler) List(c *gin.Context) {
	res, err := h.list.Execute(c.Request.Context(), actorOf(c), ucJob.ListJobsInput{
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		Status:     c.Query("status"),
		AssignedTo: queryUint(c, "assigned_to"),
		CustomerID: queryUint(c, "customer_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, res.Jobs, httpresp.NewPagination(res.Page, res.Limit, res.Total))
}

// ======================================================
// GET
// ======================================================

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	j, err := h.get.Execute(c.Request.Context(), actorOf(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, j)
}

// ======================================================
// CREATE
// ======================================================

func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	j, err := h.create.Execute(c.Request.Context(), actorOf(c), ucJob.CreateJobInput{
		CustomerID: req.CustomerID,
		ServiceID:  req.ServiceID,
		AssignedTo: req.AssignedTo,
		JobDate:    req.JobDate,
		JobTime:    req.JobTime,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, j)
}

// ======================================================
// UPDATE
// ======================================================

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	j, err := h.update.Execute(c.Request.Context(), actorOf(c), id, ucJob.UpdateJobInput{
		CustomerID: req.CustomerID,
		ServiceID:  req.ServiceID,
		AssignedTo: req.AssignedTo,
		Unassign:   req.Unassign,
		JobDate:    req.JobDate,
		JobTime:    req.JobTime,
		Location:   req.Location,
		Notes:      req.Notes,
		Status:     req.Status,
		Force:      req.Force,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, j)
}

// ======================================================
// STATUS
// ======================================================

func (h *JobHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	// An empty or missing body is reported as MISSING_STATUS, not a bind error.
	var req UpdateJobStatusRequest
	_ = c.ShouldBindJSON(&req)

	j, err := h.updateStatus.Execute(c.Request.Context(), actorOf(c), id, req.Status, req.Force)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, j)
}

// ======================================================
// DELETE
// ======================================================

func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), actorOf(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Job deleted.")
}
