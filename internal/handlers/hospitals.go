package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medreps/internal/service"
)

type createHospitalRequest struct {
	Name           string `json:"name" binding:"notblank"`
	Location       string `json:"location" binding:"notblank"`
	ContactPerson  string `json:"contactPerson" binding:"notblank"`
	Phone          string `json:"phone" binding:"notblank"`
	Representative string `json:"representative"`
}

func (h HandlerSet) CreateHospital(c *gin.Context) {
	var req createHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.hospitals.Add(c.Request.Context(), service.HospitalInput{
		Name:           req.Name,
		Location:       req.Location,
		ContactPerson:  req.ContactPerson,
		Phone:          req.Phone,
		Representative: req.Representative,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h HandlerSet) ListHospitals(c *gin.Context) {
	hospitals, err := h.hospitals.List(c.Request.Context(), c.Query("representative"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hospitals": hospitals})
}

type logVisitRequest struct {
	Date      string `json:"date" binding:"notblank"`
	Feedback  string `json:"feedback" binding:"notblank"`
	VisitedBy string `json:"visitedBy"`
}

func (h HandlerSet) LogVisit(c *gin.Context) {
	var req logVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.hospitals.LogVisit(c.Request.Context(), service.VisitInput{
		HospitalID: c.Param("id"),
		Date:       req.Date,
		Feedback:   req.Feedback,
		VisitedBy:  req.VisitedBy,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type productStatusRequest struct {
	Status string `json:"status" binding:"notblank"`
}

func (h HandlerSet) SetProductStatus(c *gin.Context) {
	var req productStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.hospitals.SetProductStatus(c.Request.Context(), c.Param("id"), c.Param("product"), req.Status); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
