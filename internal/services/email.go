package services

import "log"

// LogMailer is the only Mailer implementation: email delivery is out of
// scope, so invitations and assignment notices are written to the log.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) SendProjectInvitation(email, projectName, inviterName string) {
	log.Printf("email to %s: %s invited you to join project %q", email, inviterName, projectName)
}

func (m *LogMailer) SendTaskAssignment(email, taskName, projectName string) {
	log.Printf("email to %s: you were assigned task %q in project %q", email, taskName, projectName)
}
