package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
)

func CreateMaterialOrder(c *gin.Context) {
	var input models.NewMaterialOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	order, err := models.CreateMaterialOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func UpdateMaterialOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewMaterialOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	order, err := models.UpdateMaterialOrder(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func DeleteMaterialOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	order, err := models.DeleteMaterialOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func GetMaterialOrder(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	order, err := models.GetMaterialOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ListMaterialOrders(c *gin.Context) {
	page, limit := pageParams(c)
	var status *models.MaterialOrderStatus
	if v := c.Query("status"); v != "" {
		s := models.MaterialOrderStatus(v)
		status = &s
	}
	result, err := models.PaginateMaterialOrder(c.Request.Context(), page, limit,
		queryIntPtr(c, "project_id"), status,
		queryDatePtr(c, "from_date"), queryDatePtr(c, "to_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
