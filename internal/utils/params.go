package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(name + " not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + name)
	}

	return uint(id), nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "project_id")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "task_id")
}

func GetUserIDParam(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "user_id")
}

func GetNotificationID(ctx *gin.Context) (uint, error) {
	return paramID(ctx, "notification_id")
}
