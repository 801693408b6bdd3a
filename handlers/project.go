package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
)

func CreateProject(c *gin.Context) {
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	project, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	project, err := models.UpdateProject(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func DeleteProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	project, err := models.DeleteProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func GetProject(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	project, err := models.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func ListProjects(c *gin.Context) {
	page, limit := pageParams(c)
	var status *models.OrderStatus
	if v := c.Query("order_status"); v != "" {
		s := models.OrderStatus(v)
		status = &s
	}
	result, err := models.PaginateProject(c.Request.Context(), page, limit,
		status, queryDatePtr(c, "from_date"), queryDatePtr(c, "to_date"), queryStrPtr(c, "search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetProjectProfit(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	breakdown, err := models.GetProjectProfitBreakdown(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
