package dto

// DailyTasksResponse reports how many emails each task queued. SkippedTasks
// lists tasks that already ran for RunDate; Skipped is set when all of them did.
type DailyTasksResponse struct {
	RunDate          string   `json:"run_date"`
	Skipped          bool     `json:"skipped"`
	SkippedTasks     []string `json:"skipped_tasks,omitempty"`
	CleanerCheckouts int      `json:"cleaner_checkouts"`
	GuestReminders   int      `json:"guest_reminders"`
	SubscriberAlerts int      `json:"subscriber_alerts"`
}
