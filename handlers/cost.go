package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
)

func CreateFixedCost(c *gin.Context) {
	var input models.NewFixedCost
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	cost, err := models.CreateFixedCost(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cost)
}

func UpdateFixedCost(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewFixedCost
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	cost, err := models.UpdateFixedCost(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cost)
}

func DeleteFixedCost(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	cost, err := models.DeleteFixedCost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cost)
}

func ListFixedCosts(c *gin.Context) {
	costs, err := models.ListFixedCosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, costs)
}

func CreateVariableCost(c *gin.Context) {
	var input models.NewVariableCost
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	cost, err := models.CreateVariableCost(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cost)
}

func UpdateVariableCost(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewVariableCost
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	cost, err := models.UpdateVariableCost(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cost)
}

func DeleteVariableCost(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	cost, err := models.DeleteVariableCost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cost)
}

func ListVariableCosts(c *gin.Context) {
	page, limit := pageParams(c)
	var costType *models.VariableCostType
	if v := c.Query("cost_type"); v != "" {
		t := models.VariableCostType(v)
		costType = &t
	}
	result, err := models.PaginateVariableCost(c.Request.Context(), page, limit,
		costType, queryIntPtr(c, "project_id"),
		queryDatePtr(c, "from_date"), queryDatePtr(c, "to_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
