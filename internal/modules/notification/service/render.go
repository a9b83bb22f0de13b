package service

import (
	"fmt"
	"strconv"

	"anoa.com/freelancehub/internal/entity"
	"anoa.com/freelancehub/internal/modules/notification/repository"
)

// FallbackMessage is shown when the notification's referent no longer exists.
const FallbackMessage = "This content is no longer available because the related project was cancelled or completed."

var typeDisplay = map[entity.NotificationType]string{
	entity.NotificationProjectPublished:    "Project published",
	entity.NotificationNewApplication:      "New application",
	entity.NotificationFreelancerSelected:  "Freelancer selected",
	entity.NotificationApplicationAccepted: "Application accepted",
	entity.NotificationApplicationRefused:  "Application refused",
	entity.NotificationRatingReceived:      "Rating received",
}

func TypeDisplay(t entity.NotificationType) string {
	if d, ok := typeDisplay[t]; ok {
		return d
	}
	return string(t)
}

// Render builds the message for a notification from its type and the
// resolved referent. A nil info means the referent is gone.
func Render(t entity.NotificationType, info *repository.RelatedInfo) string {
	if info == nil {
		return FallbackMessage
	}

	switch t {
	case entity.NotificationProjectPublished:
		return fmt.Sprintf("Your project %s was published successfully", info.ProjectTitle)
	case entity.NotificationNewApplication:
		return fmt.Sprintf("New application received for your project %s", info.ProjectTitle)
	case entity.NotificationFreelancerSelected:
		return fmt.Sprintf("You were selected for the project %s", info.ProjectTitle)
	case entity.NotificationApplicationAccepted:
		return fmt.Sprintf("Your application to the project %s was accepted", info.ProjectTitle)
	case entity.NotificationApplicationRefused:
		return fmt.Sprintf("Your application to the project %s was refused", info.ProjectTitle)
	case entity.NotificationRatingReceived:
		return fmt.Sprintf("You received a new rating, your score is now %s/5", strconv.FormatFloat(info.Score, 'f', -1, 64))
	}
	return FallbackMessage
}
