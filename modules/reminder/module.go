package reminder

import (
	"meetup-api/core/queue"
	notifService "meetup-api/modules/notification/service"
	"meetup-api/modules/reminder/service"
)

// Init wires the reminder scheduler. The worker is registered separately
// once the event module exists, since it needs the participant source.
func Init(q queue.Client, inspector queue.Inspector) *service.ReminderService {
	return service.NewReminderService(q, inspector)
}

// RegisterWorker attaches the due-reminder handler to the task server.
func RegisterWorker(srv *queue.Server, events service.EventSource, notifs *notifService.NotificationService) {
	worker := service.NewReminderWorker(events, notifs)
	srv.HandleFunc(service.TaskTypeEventReminder, worker.HandleEventReminder)
}
