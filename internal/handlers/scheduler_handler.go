package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/httpresp"
	"github.com/BruksfildServices01/fieldops/internal/scheduler"
)

type SchedulerHandler struct {
	scheduler *scheduler.Scheduler
}

func NewSchedulerHandler(s *scheduler.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: s}
}

// FollowUps previews the jobs the next follow-up run would message.
func (h *SchedulerHandler) FollowUps(c *gin.Context) {
	jobs, err := h.scheduler.FollowUps(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, jobs, nil)
}

func (h *SchedulerHandler) Tasks(c *gin.Context) {
	httpresp.OK(c, scheduler.Tasks())
}

func (h *SchedulerHandler) Run(c *gin.Context) {
	rep, err := h.scheduler.Run(c.Request.Context(), c.Param("task"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, rep)
}
