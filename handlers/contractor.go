package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
)

func CreateContractor(c *gin.Context) {
	var input models.NewContractor
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	contractor, err := models.CreateContractor(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contractor)
}

func UpdateContractor(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewContractor
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	contractor, err := models.UpdateContractor(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}

func DeleteContractor(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	contractor, err := models.DeleteContractor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}

func GetContractor(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	contractor, err := models.GetContractor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractor)
}

func ListContractors(c *gin.Context) {
	contractors, err := models.ListContractors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractors)
}
