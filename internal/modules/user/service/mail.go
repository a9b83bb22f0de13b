package service

import (
	"fmt"

	"anoa.com/freelancehub/internal/entity"
	"anoa.com/freelancehub/pkg/mailer"
)

func activationEmail(user *entity.User, link string) mailer.Message {
	return mailer.Message{
		Subject: "Activate your account",
		Body: fmt.Sprintf(`Hello %s,

Thanks for signing up. Click the link below to activate your account:

%s

This link expires in 24 hours.
`, user.FullName, link),
		To: []string{user.Email},
	}
}

func expiredVerificationEmail(user *entity.User, link string) mailer.Message {
	return mailer.Message{
		Subject: "New verification link",
		Body: fmt.Sprintf(`Hello %s,

Your previous verification link has expired. Here is a new one:

%s

This link expires in 24 hours.
`, user.FullName, link),
		To: []string{user.Email},
	}
}

func resendEmail(user *entity.User, link string) mailer.Message {
	return mailer.Message{
		Subject: "Your verification link",
		Body: fmt.Sprintf(`Hello %s,

You asked for a new verification link. Click below to activate your account:

%s

This link expires in 24 hours.
`, user.FullName, link),
		To: []string{user.Email},
	}
}

func resetRequestEmail(user *entity.User, link string) mailer.Message {
	return mailer.Message{
		Subject: "Reset your password",
		Body: fmt.Sprintf(`Hello %s,

We received a request to reset your password. Open the link below to choose a new one:

%s

This link expires in 1 hour. If you did not ask for a reset, ignore this email.
`, user.FullName, link),
		To: []string{user.Email},
	}
}

func passwordChangedEmail(user *entity.User) mailer.Message {
	return mailer.Message{
		Subject: "Your password was changed",
		Body: fmt.Sprintf(`Hello %s,

Your password has been reset successfully. If you did not do this, contact support immediately.
`, user.FullName),
		To: []string{user.Email},
	}
}
