package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
)

func CreateSubcontract(c *gin.Context) {
	var input models.NewSubcontract
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	subcontract, err := models.CreateSubcontract(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subcontract)
}

func UpdateSubcontract(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSubcontract
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	subcontract, err := models.UpdateSubcontract(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subcontract)
}

func DeleteSubcontract(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	subcontract, err := models.DeleteSubcontract(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subcontract)
}

func GetSubcontract(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	subcontract, err := models.GetSubcontract(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subcontract)
}

func ListSubcontracts(c *gin.Context) {
	page, limit := pageParams(c)
	var status *models.SubcontractPaymentStatus
	if v := c.Query("payment_status"); v != "" {
		s := models.SubcontractPaymentStatus(v)
		status = &s
	}
	var workerType *models.WorkerType
	if v := c.Query("worker_type"); v != "" {
		w := models.WorkerType(v)
		workerType = &w
	}
	result, err := models.PaginateSubcontract(c.Request.Context(), page, limit,
		queryIntPtr(c, "project_id"), status, workerType,
		queryDatePtr(c, "from_date"), queryDatePtr(c, "to_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
