package handler

import (
	"net/http"

	"cottage-booking/internal/usecase"
	"cottage-booking/pkg/response"
)

// TaskHandler exposes scheduled jobs to an external cron.
type TaskHandler struct {
	dailyTaskUsecase usecase.DailyTaskUsecase
}

func NewTaskHandler(dailyTaskUsecase usecase.DailyTaskUsecase) *TaskHandler {
	return &TaskHandler{dailyTaskUsecase: dailyTaskUsecase}
}

func (h *TaskHandler) RunDailyTasks(w http.ResponseWriter, r *http.Request) {
	result, err := h.dailyTaskUsecase.RunDailyTasks(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to run daily tasks")
		return
	}

	message := "Daily tasks completed"
	if result.Skipped {
		message = "Daily tasks already ran today"
	}
	response.Success(w, http.StatusOK, message, result)
}
