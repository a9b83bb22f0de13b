package service

import (
	"fmt"

	"anoa.com/freelancehub/internal/entity"
	"anoa.com/freelancehub/pkg/mailer"
)

func acceptedClientEmail(client, freelancer *entity.User, project *entity.Project) mailer.Message {
	return mailer.Message{
		Subject: fmt.Sprintf("You hired %s for %s", freelancer.FullName, project.Title),
		Body: fmt.Sprintf(`Hello %s,

You accepted %s's application for your project "%s".

Freelancer contact details:
  Email: %s
  Phone: %s

Get in touch to agree on the next steps.
`, client.FullName, freelancer.FullName, project.Title, freelancer.Email, freelancer.Phone),
		To: []string{client.Email},
	}
}

func acceptedFreelancerEmail(client, freelancer *entity.User, project *entity.Project) mailer.Message {
	return mailer.Message{
		Subject: fmt.Sprintf("New project assigned by %s: %s", client.FullName, project.Title),
		Body: fmt.Sprintf(`Hello %s,

You were selected by %s to work on the project "%s".

Client contact details:
  Email: %s
  Phone: %s

The client will contact you shortly.
`, freelancer.FullName, client.FullName, project.Title, client.Email, client.Phone),
		To: []string{freelancer.Email},
	}
}
