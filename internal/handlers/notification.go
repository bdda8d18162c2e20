package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/utils"
)

type NotificationResponse struct {
	ID           uint      `json:"id"`
	MembershipID uint      `json:"membership_id"`
	TaskID       *uint     `json:"task_id"`
	Message      string    `json:"message"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}

func ListNotifications(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var notifications []models.Notification

	err = db.DB.
		Joins("JOIN project_memberships ON project_memberships.id = notifications.membership_id").
		Where("project_memberships.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Find(&notifications).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	response := make([]NotificationResponse, 0, len(notifications))

	for _, notification := range notifications {
		response = append(response, NotificationResponse{
			ID:           notification.ID,
			MembershipID: notification.MembershipID,
			TaskID:       notification.TaskID,
			Message:      notification.Message,
			Read:         notification.Read,
			CreatedAt:    notification.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func MarkNotificationRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID, err := utils.GetNotificationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var notification models.Notification

	err = db.DB.
		Joins("JOIN project_memberships ON project_memberships.id = notifications.membership_id").
		Where("notifications.id = ? AND project_memberships.user_id = ?", notificationID, userID).
		First(&notification).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notification"})
		}
		return
	}

	notification.Read = true

	if err := db.DB.Save(&notification).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
