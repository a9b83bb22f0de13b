package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationProjectPublished    NotificationType = "project_published"
	NotificationNewApplication      NotificationType = "new_application"
	NotificationFreelancerSelected  NotificationType = "freelancer_selected"
	NotificationApplicationAccepted NotificationType = "application_accepted"
	NotificationApplicationRefused  NotificationType = "application_refused"
	NotificationRatingReceived      NotificationType = "rating_received"
)

// RelatedType tags the entity a notification points at.
type RelatedType string

const (
	RelatedNone        RelatedType = ""
	RelatedProject     RelatedType = "project"
	RelatedApplication RelatedType = "application"
	RelatedRating      RelatedType = "rating"
)

// RelatedRef is the weak reference from a notification to a project,
// application or rating. The referent may have been deleted since.
type RelatedRef struct {
	Type RelatedType
	ID   uuid.UUID
}

func RelatedToProject(id uuid.UUID) RelatedRef { return RelatedRef{Type: RelatedProject, ID: id} }
func RelatedToApplication(id uuid.UUID) RelatedRef {
	return RelatedRef{Type: RelatedApplication, ID: id}
}
func RelatedToRating(id uuid.UUID) RelatedRef { return RelatedRef{Type: RelatedRating, ID: id} }
func NoRelated() RelatedRef                   { return RelatedRef{} }

func (r RelatedRef) IsNone() bool {
	return r.Type == RelatedNone || r.ID == uuid.Nil
}

type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type        NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	RelatedType RelatedType      `gorm:"type:varchar(20)" json:"related_type,omitempty"`
	RelatedID   *uuid.UUID       `gorm:"type:uuid" json:"related_id,omitempty"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (n *Notification) Related() RelatedRef {
	if n.RelatedID == nil {
		return NoRelated()
	}
	return RelatedRef{Type: n.RelatedType, ID: *n.RelatedID}
}

func (n *Notification) SetRelated(ref RelatedRef) {
	if ref.IsNone() {
		n.RelatedType = RelatedNone
		n.RelatedID = nil
		return
	}
	id := ref.ID
	n.RelatedType = ref.Type
	n.RelatedID = &id
}
