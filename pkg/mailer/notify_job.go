package mailer

// Notification types published to the queue.
const (
	TypeWelcome     = "welcome"
	TypeNewFollower = "new_follower"
)

// NotifyJob is the JSON payload put on the RabbitMQ queue for sending a
// notification email. Data carries template-free substitutions such as
// "Username" or "FollowerUsername".
type NotifyJob struct {
	Type string            `json:"type"`
	To   string            `json:"to"`
	Data map[string]string `json:"data,omitempty"`
}

// Render produces the subject and text body for a job.
func (j NotifyJob) Render() (subject, text string) {
	switch j.Type {
	case TypeWelcome:
		return "Welcome to Warbler", "Hi " + j.Data["Username"] + ",\n\nYour Warbler account is ready. Happy warbling!"
	case TypeNewFollower:
		return "You have a new follower", "Hi " + j.Data["Username"] + ",\n\n@" + j.Data["FollowerUsername"] + " is now following you."
	default:
		return "Warbler notification", ""
	}
}
