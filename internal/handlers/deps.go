package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/services"
	"github.com/taskforge-dev/taskforge/internal/store"
)

func projectService() *services.ProjectService {
	return services.NewProjectService(store.New(db.DB), services.NewLogMailer(), wsNotifier{})
}

func taskService() *services.TaskService {
	return services.NewTaskService(store.New(db.DB), services.NewLogMailer(), wsNotifier{})
}

// wsNotifier bridges post-commit service events onto the project websocket
// channels.
type wsNotifier struct{}

func (wsNotifier) ProjectEvent(projectID uint, event, message string) {
	BroadcastProjectEvent(projectID, event, message)
}

// respondServiceError maps the service error kinds onto HTTP statuses.
// Unrecognized errors are storage or programming failures and stay generic.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
