package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medreps/internal/models"
	"medreps/internal/service"
)

type visitIntentRequest struct {
	DoctorName string   `json:"doctorName" binding:"notblank"`
	Specialty  string   `json:"specialty" binding:"notblank"`
	Area       string   `json:"area"`
	Products   []string `json:"products" binding:"min=1"`
}

type weekScheduleRequest struct {
	Saturday  []visitIntentRequest `json:"saturday" binding:"dive"`
	Sunday    []visitIntentRequest `json:"sunday" binding:"dive"`
	Monday    []visitIntentRequest `json:"monday" binding:"dive"`
	Tuesday   []visitIntentRequest `json:"tuesday" binding:"dive"`
	Wednesday []visitIntentRequest `json:"wednesday" binding:"dive"`
}

func (w weekScheduleRequest) schedule() models.WeekSchedule {
	convert := func(in []visitIntentRequest) []models.VisitIntent {
		out := make([]models.VisitIntent, 0, len(in))
		for _, v := range in {
			out = append(out, models.VisitIntent{
				DoctorName: v.DoctorName,
				Specialty:  v.Specialty,
				Area:       v.Area,
				Products:   v.Products,
			})
		}
		return out
	}
	return models.WeekSchedule{
		Saturday:  convert(w.Saturday),
		Sunday:    convert(w.Sunday),
		Monday:    convert(w.Monday),
		Tuesday:   convert(w.Tuesday),
		Wednesday: convert(w.Wednesday),
	}
}

type createPlanRequest struct {
	Representative string              `json:"representative"`
	WeekStartDate  string              `json:"weekStartDate" binding:"notblank"`
	Plan           weekScheduleRequest `json:"plan"`
}

var errEmptyPlan = errors.New("plan must include at least one doctor")

func (h HandlerSet) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	schedule := req.Plan.schedule()
	if schedule.TotalDoctors() == 0 {
		badRequest(c, errEmptyPlan)
		return
	}

	id, err := h.plans.Save(c.Request.Context(), service.PlanInput{
		Representative: req.Representative,
		WeekStartDate:  req.WeekStartDate,
		Plan:           schedule,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h HandlerSet) ListPlans(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context(), c.Query("representative"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
