package models

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

// Surveyor is the field-surveyor master.
type Surveyor struct {
	ID              int         `gorm:"primary_key" json:"id"`
	Name            string      `gorm:"size:100;not null" json:"name" binding:"required"`
	EmployeeId      string      `gorm:"size:20;uniqueIndex;not null" json:"employee_id" binding:"required"`
	Email           string      `gorm:"size:255" json:"email"`
	Phone           string      `gorm:"size:20" json:"phone"`
	Department      string      `gorm:"size:50" json:"department"`
	Specialties     string      `gorm:"type:text" json:"specialties"`
	Certifications  string      `gorm:"type:text" json:"certifications"`
	IsActive        *bool       `gorm:"default:true" json:"is_active"`
	HireDate        *DateString `json:"hire_date"`
	ExperienceYears int         `gorm:"default:0" json:"experience_years"`
	UserId          *int        `gorm:"index" json:"user_id"`
	Notes           string      `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Survey is one scheduled site visit for a project.
type Survey struct {
	ID                 int          `gorm:"primary_key" json:"id"`
	ProjectId          int          `gorm:"index;not null" json:"project_id" binding:"required"`
	SurveyorId         int          `gorm:"index;not null" json:"surveyor_id" binding:"required"`
	Surveyor           *Surveyor    `json:"surveyor,omitempty"`
	ScheduledDate      DateString   `gorm:"not null;index" json:"scheduled_date" binding:"required"`
	ScheduledStartTime string       `gorm:"size:5" json:"scheduled_start_time"`
	EstimatedDuration  int          `gorm:"default:120" json:"estimated_duration"`
	ActualStartTime    *time.Time   `json:"actual_start_time"`
	ActualEndTime      *time.Time   `json:"actual_end_time"`
	Status             SurveyStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	ApprovedBy         string       `gorm:"size:100" json:"approved_by"`
	ApprovedAt         *time.Time   `json:"approved_at"`
	ApprovalNotes      string       `gorm:"type:text" json:"approval_notes"`
	Rooms              []*SurveyRoom `gorm:"foreignKey:SurveyId" json:"rooms,omitempty"`
	Damages            []*SurveyDamage `gorm:"foreignKey:SurveyId" json:"damages,omitempty"`
	Photos             []*SurveyPhoto  `gorm:"foreignKey:SurveyId" json:"photos,omitempty"`
	Notes              string       `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type SurveyRoom struct {
	ID        int           `gorm:"primary_key" json:"id"`
	SurveyId  int           `gorm:"index;not null" json:"survey_id"`
	RoomName  string        `gorm:"size:100;not null" json:"room_name"`
	Walls     []*SurveyWall `gorm:"foreignKey:RoomId" json:"walls,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

type SurveyWall struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	RoomId              int             `gorm:"index;not null" json:"room_id"`
	Direction           string          `gorm:"size:20" json:"direction"`
	Length              decimal.Decimal `gorm:"type:decimal(5,1);default:0" json:"length"`
	Height              decimal.Decimal `gorm:"type:decimal(5,1);default:0" json:"height"`
	OpeningArea         decimal.Decimal `gorm:"type:decimal(5,1);default:0" json:"opening_area"`
	FoundationType      string          `gorm:"size:20" json:"foundation_type"`
	FoundationCondition string          `gorm:"size:20" json:"foundation_condition"`
}

type SurveyDamage struct {
	ID          int    `gorm:"primary_key" json:"id"`
	SurveyId    int    `gorm:"index;not null" json:"survey_id"`
	DamageType  string `gorm:"size:30" json:"damage_type"`
	HasDents    *bool  `gorm:"default:false" json:"has_dents"`
	DentCount   int    `gorm:"default:0" json:"dent_count"`
	Description string `gorm:"type:text" json:"description"`
}

// SurveyPhoto points at a GCS object, with a thumbnail next to it.
type SurveyPhoto struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SurveyId     int             `gorm:"index;not null" json:"survey_id"`
	WallId       *int            `gorm:"index" json:"wall_id"`
	PhotoType    SurveyPhotoType `gorm:"size:30;default:'other'" json:"photo_type"`
	ObjectKey    string          `gorm:"size:500;not null" json:"object_key"`
	ThumbnailKey string          `gorm:"size:500" json:"thumbnail_key"`
	Caption      string          `gorm:"size:200" json:"caption"`
	UploadedAt   time.Time       `gorm:"autoCreateTime" json:"uploaded_at"`
}

// AccessURL resolves the public URL of the stored photo.
func (p *SurveyPhoto) AccessURL() string {
	return utils.BuildObjectAccessURL(p.ObjectKey)
}

func (p *SurveyPhoto) ThumbnailURL() string {
	if p.ThumbnailKey == "" {
		return ""
	}
	return utils.BuildObjectAccessURL(p.ThumbnailKey)
}

// SurveyStepProgress tracks guided-workflow steps with free-form step data.
type SurveyStepProgress struct {
	ID          int        `gorm:"primary_key" json:"id"`
	SurveyId    int        `gorm:"index;not null" json:"survey_id"`
	StepNumber  int        `gorm:"not null" json:"step_number"`
	Title       string     `gorm:"size:100" json:"title"`
	RoomId      *int       `gorm:"index" json:"room_id"`
	WallId      *int       `gorm:"index" json:"wall_id"`
	Status      StepStatus `gorm:"size:20;default:'not_started'" json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Data        JSONMap    `gorm:"type:json" json:"data"`
}

type NewSurveyor struct {
	Name            string      `json:"name" binding:"required"`
	EmployeeId      string      `json:"employee_id" binding:"required"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Department      string      `json:"department"`
	Specialties     string      `json:"specialties"`
	Certifications  string      `json:"certifications"`
	IsActive        *bool       `json:"is_active"`
	HireDate        *DateString `json:"hire_date"`
	ExperienceYears int         `json:"experience_years"`
	UserId          *int        `json:"user_id"`
	Notes           string      `json:"notes"`
}

type NewSurvey struct {
	ProjectId          int          `json:"project_id" binding:"required"`
	SurveyorId         int          `json:"surveyor_id" binding:"required"`
	ScheduledDate      DateString   `json:"scheduled_date" binding:"required"`
	ScheduledStartTime string       `json:"scheduled_start_time"`
	EstimatedDuration  int          `json:"estimated_duration"`
	Status             SurveyStatus `json:"status"`
	Notes              string       `json:"notes"`
}

func CreateSurveyor(ctx context.Context, input *NewSurveyor) (*Surveyor, error) {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, ""); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}
	if err := utils.ValidateUnique[Surveyor](ctx, "employee_id", input.EmployeeId, 0); err != nil {
		return nil, err
	}

	surveyor := Surveyor{
		Name:            input.Name,
		EmployeeId:      input.EmployeeId,
		Email:           input.Email,
		Phone:           input.Phone,
		Department:      input.Department,
		Specialties:     input.Specialties,
		Certifications:  input.Certifications,
		IsActive:        input.IsActive,
		HireDate:        input.HireDate,
		ExperienceYears: input.ExperienceYears,
		UserId:          input.UserId,
		Notes:           input.Notes,
	}
	if surveyor.IsActive == nil {
		surveyor.IsActive = utils.NewTrue()
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&surveyor).Error; err != nil {
		return nil, err
	}
	if err := ClearResourceCache[Surveyor](surveyor.ID); err != nil {
		return nil, err
	}
	return &surveyor, nil
}

func ListSurveyors(ctx context.Context) ([]*Surveyor, error) {
	return ListAllResource[Surveyor](ctx, "name ASC")
}

func (input *NewSurvey) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Project](ctx, input.ProjectId); err != nil {
		return errors.New("project not found")
	}
	if err := utils.ValidateResourceId[Surveyor](ctx, input.SurveyorId); err != nil {
		return errors.New("surveyor not found")
	}
	if input.ScheduledDate.IsZero() {
		return errors.New("scheduled date is required")
	}
	if input.Status == "" {
		input.Status = SurveyStatusScheduled
	}
	if input.EstimatedDuration == 0 {
		input.EstimatedDuration = 120
	}
	return nil
}

func CreateSurvey(ctx context.Context, input *NewSurvey) (*Survey, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	survey := Survey{
		ProjectId:          input.ProjectId,
		SurveyorId:         input.SurveyorId,
		ScheduledDate:      input.ScheduledDate,
		ScheduledStartTime: input.ScheduledStartTime,
		EstimatedDuration:  input.EstimatedDuration,
		Status:             input.Status,
		Notes:              input.Notes,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&survey).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// flip the project's survey status to scheduled
	err := tx.WithContext(ctx).Model(&Project{}).
		Where("id = ?", input.ProjectId).
		UpdateColumn("SurveyStatus", SurveyRequirementScheduled).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Survey](survey.ID); err != nil {
		return nil, err
	}
	if err := ClearResourceCache[Project](input.ProjectId); err != nil {
		return nil, err
	}
	return &survey, nil
}

func UpdateSurveyStatus(ctx context.Context, id int, status SurveyStatus) (*Survey, error) {

	survey, err := utils.FetchModel[Survey](ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"Status": status}
	switch status {
	case SurveyStatusInProgress:
		updates["ActualStartTime"] = &now
	case SurveyStatusCompleted:
		updates["ActualEndTime"] = &now
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&survey).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if status == SurveyStatusCompleted {
		err := tx.WithContext(ctx).Model(&Project{}).
			Where("id = ?", survey.ProjectId).
			UpdateColumn("SurveyStatus", SurveyRequirementCompleted).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[Survey](id); err != nil {
		return nil, err
	}
	if err := ClearResourceCache[Project](survey.ProjectId); err != nil {
		return nil, err
	}
	return utils.FetchModel[Survey](ctx, id)
}

func GetSurvey(ctx context.Context, id int) (*Survey, error) {
	return utils.FetchModel[Survey](ctx, id, "Surveyor", "Rooms", "Rooms.Walls", "Damages", "Photos")
}

func DeleteSurvey(ctx context.Context, id int) (*Survey, error) {

	result, err := utils.FetchModel[Survey](ctx, id, "Photos")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	for _, table := range []interface{}{&SurveyStepProgress{}, &SurveyDamage{}, &SurveyPhoto{}} {
		if err := tx.WithContext(ctx).Where("survey_id = ?", id).Delete(table).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	var rooms []*SurveyRoom
	if err := tx.WithContext(ctx).Where("survey_id = ?", id).Find(&rooms).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, room := range rooms {
		if err := tx.WithContext(ctx).Where("room_id = ?", room.ID).Delete(&SurveyWall{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Where("survey_id = ?", id).Delete(&SurveyRoom{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// stored photos are best-effort cleanup
	for _, photo := range result.Photos {
		if err := utils.DeleteObjectFromGCS(ctx, photo.ObjectKey); err != nil {
			config.LogError(config.GetLogger(), "models", "DeleteSurvey", "delete photo object", photo.ObjectKey, err)
		}
		if photo.ThumbnailKey != "" {
			if err := utils.DeleteObjectFromGCS(ctx, photo.ThumbnailKey); err != nil {
				config.LogError(config.GetLogger(), "models", "DeleteSurvey", "delete thumbnail object", photo.ThumbnailKey, err)
			}
		}
	}

	if err := ClearResourceCache[Survey](id); err != nil {
		return nil, err
	}
	return result, nil
}

func PaginateSurvey(ctx context.Context, page, limit int, projectId *int, status *SurveyStatus, surveyorId *int) (*PageConnection[Survey], error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Preload("Surveyor").
		Order("scheduled_date DESC")

	if projectId != nil && *projectId > 0 {
		dbCtx = dbCtx.Where("project_id = ?", *projectId)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if surveyorId != nil && *surveyorId > 0 {
		dbCtx = dbCtx.Where("surveyor_id = ?", *surveyorId)
	}

	return FetchPage[Survey](dbCtx, page, limit)
}

/* nested detail records */

type NewSurveyRoom struct {
	RoomName string           `json:"room_name" binding:"required"`
	Walls    []*NewSurveyWall `json:"walls"`
}

type NewSurveyWall struct {
	Direction           string          `json:"direction"`
	Length              decimal.Decimal `json:"length"`
	Height              decimal.Decimal `json:"height"`
	OpeningArea         decimal.Decimal `json:"opening_area"`
	FoundationType      string          `json:"foundation_type"`
	FoundationCondition string          `json:"foundation_condition"`
}

type NewSurveyDamage struct {
	DamageType  string `json:"damage_type" binding:"required"`
	HasDents    *bool  `json:"has_dents"`
	DentCount   int    `json:"dent_count"`
	Description string `json:"description"`
}

func AddSurveyRoom(ctx context.Context, surveyId int, input *NewSurveyRoom) (*SurveyRoom, error) {
	if err := utils.ValidateResourceId[Survey](ctx, surveyId); err != nil {
		return nil, errors.New("survey not found")
	}

	room := SurveyRoom{
		SurveyId: surveyId,
		RoomName: input.RoomName,
	}
	for _, w := range input.Walls {
		room.Walls = append(room.Walls, &SurveyWall{
			Direction:           w.Direction,
			Length:              w.Length,
			Height:              w.Height,
			OpeningArea:         w.OpeningArea,
			FoundationType:      w.FoundationType,
			FoundationCondition: w.FoundationCondition,
		})
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func AddSurveyDamage(ctx context.Context, surveyId int, input *NewSurveyDamage) (*SurveyDamage, error) {
	if err := utils.ValidateResourceId[Survey](ctx, surveyId); err != nil {
		return nil, errors.New("survey not found")
	}

	damage := SurveyDamage{
		SurveyId:    surveyId,
		DamageType:  input.DamageType,
		HasDents:    input.HasDents,
		DentCount:   input.DentCount,
		Description: input.Description,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&damage).Error; err != nil {
		return nil, err
	}
	return &damage, nil
}

func UpsertStepProgress(ctx context.Context, surveyId int, stepNumber int, status StepStatus, notes string, data JSONMap) (*SurveyStepProgress, error) {
	if err := utils.ValidateResourceId[Survey](ctx, surveyId); err != nil {
		return nil, errors.New("survey not found")
	}

	db := config.GetDB()
	now := time.Now()

	var progress SurveyStepProgress
	err := db.WithContext(ctx).
		Where("survey_id = ? AND step_number = ?", surveyId, stepNumber).
		First(&progress).Error
	if err != nil {
		progress = SurveyStepProgress{
			SurveyId:   surveyId,
			StepNumber: stepNumber,
		}
	}
	progress.Status = status
	progress.Notes = notes
	if data != nil {
		progress.Data = data
	}
	switch status {
	case StepStatusInProgress:
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
	case StepStatusCompleted:
		progress.CompletedAt = &now
	}

	if err := db.WithContext(ctx).Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

/* photos */

// SignSurveyPhotoUpload issues a signed PUT URL for a direct-to-bucket upload.
func SignSurveyPhotoUpload(ctx context.Context, surveyId int, contentType string) (*utils.SignedUpload, error) {
	if err := utils.ValidateResourceId[Survey](ctx, surveyId); err != nil {
		return nil, errors.New("survey not found")
	}
	objectKey := fmt.Sprintf("surveys/%d/%s", surveyId, utils.GenerateUniqueFilename())
	return utils.SignUpload(ctx, objectKey, contentType, 15*time.Minute)
}

// CompleteSurveyPhotoUpload records a photo uploaded through the signed flow.
func CompleteSurveyPhotoUpload(ctx context.Context, surveyId int, objectKey string, photoType SurveyPhotoType, caption string, wallId *int) (*SurveyPhoto, error) {
	if err := utils.ValidateResourceId[Survey](ctx, surveyId); err != nil {
		return nil, errors.New("survey not found")
	}
	exists, err := utils.ObjectExistsInGCS(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.New("uploaded object not found")
	}
	if photoType == "" {
		photoType = SurveyPhotoOther
	}

	photo := SurveyPhoto{
		SurveyId:  surveyId,
		WallId:    wallId,
		PhotoType: photoType,
		ObjectKey: objectKey,
		Caption:   caption,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

// UploadSurveyPhoto stores a base64 photo server-side, with a thumbnail.
func UploadSurveyPhoto(ctx context.Context, surveyId int, imageData string, photoType SurveyPhotoType, caption string, wallId *int) (*SurveyPhoto, error) {
	if err := utils.ValidateResourceId[Survey](ctx, surveyId); err != nil {
		return nil, errors.New("survey not found")
	}
	decoded, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, errors.New("invalid image data")
	}
	if photoType == "" {
		photoType = SurveyPhotoOther
	}

	objectKey := fmt.Sprintf("surveys/%d/%s.jpg", surveyId, utils.GenerateUniqueFilename())
	if err := utils.UploadBytesToGCS(ctx, objectKey, decoded, "image/jpeg"); err != nil {
		return nil, err
	}

	thumbnailKey := ""
	if thumb, err := utils.MakeThumbnail(decoded); err == nil {
		thumbnailKey = utils.ThumbnailObjectKey(objectKey)
		if err := utils.UploadBytesToGCS(ctx, thumbnailKey, thumb, "image/jpeg"); err != nil {
			config.LogError(config.GetLogger(), "models", "UploadSurveyPhoto", "upload thumbnail", thumbnailKey, err)
			thumbnailKey = ""
		}
	} else {
		config.LogError(config.GetLogger(), "models", "UploadSurveyPhoto", "make thumbnail", objectKey, err)
	}

	photo := SurveyPhoto{
		SurveyId:     surveyId,
		WallId:       wallId,
		PhotoType:    photoType,
		ObjectKey:    objectKey,
		ThumbnailKey: thumbnailKey,
		Caption:      caption,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

/* summaries */

type SurveySummary struct {
	ProjectId     int          `json:"project_id"`
	TotalCount    int64        `json:"total_count"`
	StatusCounts  map[SurveyStatus]int64 `json:"status_counts"`
	NextScheduled *DateString  `json:"next_scheduled"`
}

func GetSurveySummary(ctx context.Context, projectId int) (*SurveySummary, error) {

	db := config.GetDB()
	var surveys []*Survey
	if err := db.WithContext(ctx).Where("project_id = ?", projectId).Find(&surveys).Error; err != nil {
		return nil, err
	}

	summary := SurveySummary{
		ProjectId:    projectId,
		TotalCount:   int64(len(surveys)),
		StatusCounts: map[SurveyStatus]int64{},
	}
	today := utils.DateOnly(time.Now())
	for _, s := range surveys {
		summary.StatusCounts[s.Status]++
		if s.Status == SurveyStatusScheduled && !s.ScheduledDate.Time().Before(today) {
			if summary.NextScheduled == nil || s.ScheduledDate.Time().Before(summary.NextScheduled.Time()) {
				scheduled := s.ScheduledDate
				summary.NextScheduled = &scheduled
			}
		}
	}
	return &summary, nil
}
