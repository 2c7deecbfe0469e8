package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medreps/internal/models"
	"medreps/internal/service"
)

type reportVisitRequest struct {
	DoctorName string `json:"doctorName" binding:"notblank"`
	Feedback   string `json:"feedback" binding:"notblank"`
}

type createReportRequest struct {
	Representative string               `json:"representative"`
	ReportDate     string               `json:"reportDate" binding:"notblank"`
	Visits         []reportVisitRequest `json:"visits" binding:"min=1,dive"`
}

func (h HandlerSet) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	visits := make([]models.ReportVisit, 0, len(req.Visits))
	for _, v := range req.Visits {
		visits = append(visits, models.ReportVisit{DoctorName: v.DoctorName, Feedback: v.Feedback})
	}

	id, err := h.reports.Save(c.Request.Context(), service.ReportInput{
		Representative: req.Representative,
		ReportDate:     req.ReportDate,
		Visits:         visits,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListReports without a filter returns only the most recent reports, newest first.
func (h HandlerSet) ListReports(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context(), c.Query("representative"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
