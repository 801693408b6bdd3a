package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
)

func CreateInternalWorker(c *gin.Context) {
	var input models.NewInternalWorker
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	worker, err := models.CreateInternalWorker(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}

func UpdateInternalWorker(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewInternalWorker
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	worker, err := models.UpdateInternalWorker(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func DeleteInternalWorker(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	worker, err := models.DeleteInternalWorker(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func GetInternalWorker(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	worker, err := models.GetInternalWorker(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, worker)
}

func ListInternalWorkers(c *gin.Context) {
	workers, err := models.ListInternalWorkers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}
