package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/services"
	"github.com/taskforge-dev/taskforge/internal/types"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

type CreateTaskRequest struct {
	ProjectID   uint    `json:"project_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"` // YYYY-MM-DD
}

type UpdateTaskRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status" binding:"required"`
	Priority    string  `json:"priority" binding:"required"`
	DueDate     *string `json:"due_date"`
	EndDate     *string `json:"end_date"`
}

type AssignTaskRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
	UserID    uint `json:"user_id" binding:"required"`
}

type TaskResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	DueDate      *string `json:"due_date"`
	EndDate      *string `json:"end_date"`
	MembershipID uint    `json:"membership_id"`
}

type TaskHistoryResponse struct {
	ID           uint      `json:"id"`
	TaskID       uint      `json:"task_id"`
	MembershipID uint      `json:"membership_id"`
	FieldName    string    `json:"field_name"`
	OldValue     *string   `json:"old_value"`
	NewValue     *string   `json:"new_value"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		Name:         task.Name,
		Description:  task.Description,
		Status:       string(task.Status),
		Priority:     string(task.Priority),
		DueDate:      services.DateString(task.DueDate),
		EndDate:      services.DateString(task.EndDate),
		MembershipID: task.MembershipID,
	}
}

func toTaskListResponse(tasks []models.Task) []TaskResponse {
	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, toTaskResponse(&tasks[i]))
	}

	return response
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var priority types.TaskPriority

	if body.Priority != "" {
		priority, err = types.ParseTaskPriority(body.Priority)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	dueDate, ok := parseDate(ctx, body.DueDate)

	if !ok {
		return
	}

	task, err := taskService().Create(ctx.Request.Context(), userID, services.CreateTaskInput{
		ProjectID:   body.ProjectID,
		Name:        body.Name,
		Description: body.Description,
		Priority:    priority,
		DueDate:     dueDate,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

func ListTasks(ctx *gin.Context) {
	tasks, err := taskService().All(ctx.Request.Context())

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskListResponse(tasks))
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService().Get(ctx.Request.Context(), userID, taskID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status, err := types.ParseTaskStatus(body.Status)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority, err := types.ParseTaskPriority(body.Priority)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, ok := parseDate(ctx, body.DueDate)

	if !ok {
		return
	}

	endDate, ok := parseDate(ctx, body.EndDate)

	if !ok {
		return
	}

	task, err := taskService().Update(ctx.Request.Context(), userID, taskID, services.UpdateTaskInput{
		Name:        body.Name,
		Description: body.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		EndDate:     endDate,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := taskService().Delete(ctx.Request.Context(), userID, taskID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func AssignTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body AssignTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := taskService().Assign(ctx.Request.Context(), userID, taskID, services.AssignTaskInput{
		ProjectID: body.ProjectID,
		UserID:    body.UserID,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(task))
}

func GetTaskHistory(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := taskService().History(ctx.Request.Context(), userID, taskID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]TaskHistoryResponse, 0, len(entries))

	for _, entry := range entries {
		response = append(response, TaskHistoryResponse{
			ID:           entry.ID,
			TaskID:       entry.TaskID,
			MembershipID: entry.MembershipID,
			FieldName:    string(entry.FieldName),
			OldValue:     entry.OldValue,
			NewValue:     entry.NewValue,
			CreatedAt:    entry.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func ListProjectTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := taskService().ByProject(ctx.Request.Context(), userID, projectID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskListResponse(tasks))
}

func ListProjectTasksByStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := types.ParseTaskStatus(ctx.Param("status"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := taskService().ByProjectAndStatus(ctx.Request.Context(), userID, projectID, status)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskListResponse(tasks))
}

func ListAssignedTasks(ctx *gin.Context) {
	targetUserID, err := utils.GetUserIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := taskService().ByAssignedUser(ctx.Request.Context(), targetUserID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toTaskListResponse(tasks))
}
