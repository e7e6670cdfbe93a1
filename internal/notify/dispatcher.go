// Package notify fans a domain event out to the live push, email and
// persisted-notification channels. Delivery is at-most-once per channel
// and best-effort everywhere except persistence.
package notify

import (
	"errors"
	"log"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

// ErrNoRecipient is returned when Dispatch is called without a target user.
var ErrNoRecipient = errors.New("notify: notification requires a recipient")

// DefaultPushTimeout bounds delivery to a single live channel. A
// channel that cannot take the event within this window is stuck and
// gets dropped by its registry.
const DefaultPushTimeout = 5 * time.Second

// PushEvent is the payload delivered over live channels.
type PushEvent struct {
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	Timestamp time.Time               `json:"timestamp"`
}

// Channel is one currently-open live push connection.
type Channel interface {
	// Send delivers the event within the timeout. On error the channel
	// is considered stuck and its registry drops it; the dispatcher
	// never retries.
	Send(event PushEvent, timeout time.Duration) error
}

// Registry reports the live channels currently open for a user.
type Registry interface {
	ChannelsFor(userID uint64) []Channel
}

// Mailer sends outbound email, fire-and-forget.
type Mailer interface {
	Send(subject, body, from string, to []string) error
}

// Dispatcher delivers one logical notification over up to three
// independent channels: push, then email, then the persisted row. No
// channel's failure prevents another's attempt, and only persistence is
// durable.
type Dispatcher struct {
	notifications repository.NotificationRepository
	registry      Registry // nil when no push broker is wired
	mailer        Mailer   // nil when no mail transport is wired
	from          string
	pushTimeout   time.Duration
}

// NewDispatcher creates a Dispatcher. registry and mailer may be nil;
// the corresponding channels then degrade silently.
func NewDispatcher(notifications repository.NotificationRepository, registry Registry, mailer Mailer, from string) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		registry:      registry,
		mailer:        mailer,
		from:          from,
		pushTimeout:   DefaultPushTimeout,
	}
}

// Input describes one notification to dispatch.
type Input struct {
	Message      string
	Type         models.NotificationType
	EmailSubject string
	EmailBody    string
	Persist      bool
}

// Dispatch fans the notification out to the target user. It rejects a
// missing recipient before touching any channel and returns an error
// only when the persistence channel itself fails.
func (d *Dispatcher) Dispatch(user *models.User, input Input) error {
	if user == nil {
		return ErrNoRecipient
	}

	if input.Type == "" {
		input.Type = models.NotificationGeneral
	}

	// Push: all open channels, short timeout each, silent when none.
	if d.registry != nil {
		event := PushEvent{
			Message:   input.Message,
			Type:      input.Type,
			Timestamp: time.Now(),
		}
		for _, ch := range d.registry.ChannelsFor(user.ID) {
			if err := ch.Send(event, d.pushTimeout); err != nil {
				log.Printf("notify: push to user %d failed: %v", user.ID, err)
			}
		}
	}

	// Email: only with both subject and body and a usable address.
	if d.mailer != nil && input.EmailSubject != "" && input.EmailBody != "" && user.Email != "" {
		if err := d.mailer.Send(input.EmailSubject, input.EmailBody, d.from, []string{user.Email}); err != nil {
			log.Printf("notify: email to %s failed: %v", user.Email, err)
		}
	}

	// Persistence: the only channel with a durability guarantee.
	if input.Persist {
		notification := &models.Notification{
			UserID:  user.ID,
			Message: input.Message,
			Type:    input.Type,
		}
		if err := d.notifications.Create(notification); err != nil {
			return err
		}
	}

	return nil
}
