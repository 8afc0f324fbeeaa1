package notify

import (
	"context"
	"fmt"
	"log"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
)

// Mailer builds and sends the lifecycle notification emails. Every method is
// fire-and-forget: delivery failures are logged and swallowed so they can
// never roll back the state transition that triggered them.
type Mailer struct {
	dispatcher Dispatcher
	baseURL    string
	logger     *log.Logger
}

func NewMailer(dispatcher Dispatcher, baseURL string, logger *log.Logger) *Mailer {
	return &Mailer{dispatcher: dispatcher, baseURL: baseURL, logger: logger}
}

// NewApplication notifies the job owner about a fresh application, honoring
// the owner's opt-in.
func (m *Mailer) NewApplication(ctx context.Context, owner, applicant user.User, j job.Job, app application.Application) {
	if !owner.NotifyNewApplicant {
		m.skip("new application", owner.Email, "opted out")
		return
	}

	reviewURL := m.baseURL + "/application/received"
	subject := fmt.Sprintf("New Application Received for %q", j.Title)
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>You have received a new application from <strong>%s</strong> for your job posting: <strong>%q</strong>.</p>
<p>Application Title: %s</p>
<p>You can review this application and others here:</p>
<p><a href="%s">%s</a></p>
<hr>
<p><small>To manage your notification preferences, please visit your settings page.</small></p>`,
		owner.DisplayName(), applicant.DisplayName(), j.Title, app.Title, reviewURL, reviewURL)

	m.send(ctx, []string{owner.Email}, subject, body)
}

// StatusUpdate notifies the applicant after an owner decision. Only hired and
// rejected produce mail; the accept path has its own joint notification.
func (m *Mailer) StatusUpdate(ctx context.Context, applicant user.User, j job.Job, app application.Application) {
	if !applicant.NotifyOwnStatusChange {
		m.skip("status update", applicant.Email, "opted out")
		return
	}
	if app.Status != application.StatusHired && app.Status != application.StatusRejected {
		m.skip("status update", applicant.Email, "status "+string(app.Status))
		return
	}

	myApplicationsURL := m.baseURL + "/application/my"
	var subject, body string
	if app.Status == application.StatusHired {
		subject = fmt.Sprintf("Job Offer for %q", j.Title)
		body = fmt.Sprintf(`<p>Hello %s,</p>
<p>Congratulations! You have received a job offer for the position: <strong>%q</strong>.</p>
<p>Please visit your 'My Applications' page to review the details and respond to the offer.</p>
<p><a href="%s">%s</a></p>
<hr>
<p><small>To manage your notification preferences, please visit your settings page.</small></p>`,
			applicant.DisplayName(), j.Title, myApplicationsURL, myApplicationsURL)
	} else {
		subject = fmt.Sprintf("Update on your application for %q", j.Title)
		body = fmt.Sprintf(`<p>Hello %s,</p>
<p>There's an update on your application for the job: <strong>%q</strong>.</p>
<p>Your application status has been updated to: <strong>Rejected</strong>.</p>
<p>You can view your application status here:</p>
<p><a href="%s">%s</a></p>
<hr>
<p><small>To manage your notification preferences, please visit your settings page.</small></p>`,
			applicant.DisplayName(), j.Title, myApplicationsURL, myApplicationsURL)
	}

	m.send(ctx, []string{applicant.Email}, subject, body)
}

// OfferAccepted sends the joint email connecting both parties. Notification
// preferences do not apply to this one.
func (m *Mailer) OfferAccepted(ctx context.Context, applicant, owner user.User, j job.Job) {
	subject := fmt.Sprintf("Offer Accepted: %s for %q", applicant.DisplayName(), j.Title)
	body := fmt.Sprintf(`<p>Congratulations!</p>
<p><strong>%s</strong> has accepted the job offer for the position: <strong>%q</strong> posted by <strong>%s</strong>.</p>
<p>This email connects you both to coordinate the next steps for onboarding.</p>
<hr>
<p><strong>Contact Information:</strong></p>
<ul>
	<li>Applicant (%s): %s</li>
	<li>Employer (%s): %s</li>
</ul>`,
		applicant.DisplayName(), j.Title, owner.DisplayName(),
		applicant.DisplayName(), applicant.Email, owner.DisplayName(), owner.Email)

	m.send(ctx, []string{applicant.Email, owner.Email}, subject, body)
}

// OfferDeclined notifies the job owner, honoring the owner's opt-in.
func (m *Mailer) OfferDeclined(ctx context.Context, owner, applicant user.User, j job.Job) {
	if !owner.NotifyNewApplicant {
		m.skip("offer declined", owner.Email, "opted out")
		return
	}

	receivedURL := m.baseURL + "/application/received"
	subject := fmt.Sprintf("Offer Declined for %q", j.Title)
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p><strong>%s</strong> has declined the job offer for the position: <strong>%q</strong>.</p>
<p>You can review your received applications here:</p>
<p><a href="%s">%s</a></p>
<hr>
<p><small>To manage your notification preferences, please visit your settings page.</small></p>`,
		owner.DisplayName(), applicant.DisplayName(), j.Title, receivedURL, receivedURL)

	m.send(ctx, []string{owner.Email}, subject, body)
}

// VerificationLink sends an action-token link (signup confirmation, password
// reset and similar flows).
func (m *Mailer) VerificationLink(ctx context.Context, u user.User, subject, path, token string) {
	link := m.baseURL + path + "?token=" + token
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Please follow the link below to continue:</p>
<p><a href="%s">%s</a></p>
<p><small>This link expires shortly and can only be used for this action.</small></p>`,
		u.DisplayName(), link, link)

	m.send(ctx, []string{u.Email}, subject, body)
}

func (m *Mailer) send(ctx context.Context, to []string, subject, body string) {
	if m == nil || m.dispatcher == nil {
		return
	}
	if err := m.dispatcher.Send(ctx, to, subject, body); err != nil && m.logger != nil {
		m.logger.Printf("[Mail] send failed | to=%v subject=%q err=%v", to, subject, err)
	}
}

func (m *Mailer) skip(kind, email, reason string) {
	if m != nil && m.logger != nil {
		m.logger.Printf("[Mail] skipped %s notification | to=%s reason=%s", kind, email, reason)
	}
}
