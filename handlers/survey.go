package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dispatch_backend/models"
)

func CreateSurveyor(c *gin.Context) {
	var input models.NewSurveyor
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	surveyor, err := models.CreateSurveyor(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, surveyor)
}

func ListSurveyors(c *gin.Context) {
	surveyors, err := models.ListSurveyors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveyors)
}

func CreateSurvey(c *gin.Context) {
	var input models.NewSurvey
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	survey, err := models.CreateSurvey(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

type surveyStatusRequest struct {
	Status models.SurveyStatus `json:"status" binding:"required"`
}

func UpdateSurveyStatus(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req surveyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	survey, err := models.UpdateSurveyStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func GetSurvey(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	survey, err := models.GetSurvey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func DeleteSurvey(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	survey, err := models.DeleteSurvey(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func ListSurveys(c *gin.Context) {
	page, limit := pageParams(c)
	var status *models.SurveyStatus
	if v := c.Query("status"); v != "" {
		s := models.SurveyStatus(v)
		status = &s
	}
	result, err := models.PaginateSurvey(c.Request.Context(), page, limit,
		queryIntPtr(c, "project_id"), status, queryIntPtr(c, "surveyor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func AddSurveyRoom(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSurveyRoom
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	room, err := models.AddSurveyRoom(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func AddSurveyDamage(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSurveyDamage
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, err)
		return
	}
	damage, err := models.AddSurveyDamage(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, damage)
}

type stepProgressRequest struct {
	StepNumber int               `json:"step_number" binding:"required"`
	Status     models.StepStatus `json:"status" binding:"required"`
	Notes      string            `json:"notes"`
	Data       models.JSONMap    `json:"data"`
}

func UpsertStepProgress(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req stepProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	progress, err := models.UpsertStepProgress(c.Request.Context(), id, req.StepNumber, req.Status, req.Notes, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

type signPhotoRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

func SignSurveyPhotoUpload(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req signPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	signed, err := models.SignSurveyPhotoUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, signed)
}

type completePhotoRequest struct {
	ObjectKey string                 `json:"object_key" binding:"required"`
	PhotoType models.SurveyPhotoType `json:"photo_type"`
	Caption   string                 `json:"caption"`
	WallId    *int                   `json:"wall_id"`
}

func CompleteSurveyPhotoUpload(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req completePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	photo, err := models.CompleteSurveyPhotoUpload(c.Request.Context(), id, req.ObjectKey, req.PhotoType, req.Caption, req.WallId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

type uploadPhotoRequest struct {
	ImageData string                 `json:"image_data" binding:"required"`
	PhotoType models.SurveyPhotoType `json:"photo_type"`
	Caption   string                 `json:"caption"`
	WallId    *int                   `json:"wall_id"`
}

func UploadSurveyPhoto(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var req uploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err)
		return
	}
	photo, err := models.UploadSurveyPhoto(c.Request.Context(), id, req.ImageData, req.PhotoType, req.Caption, req.WallId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func GetSurveySummary(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	summary, err := models.GetSurveySummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
