package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/skillmatch"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

const (
	maxApplicationTitleLen       = 100
	maxApplicationDescriptionLen = 5000
)

// LifecycleMailer is the slice of the mailer the lifecycle needs. Every call
// is fire-and-forget; implementations must never bubble delivery errors.
type LifecycleMailer interface {
	NewApplication(ctx context.Context, owner, applicant user.User, j job.Job, app application.Application)
	StatusUpdate(ctx context.Context, applicant user.User, j job.Job, app application.Application)
	OfferAccepted(ctx context.Context, applicant, owner user.User, j job.Job)
	OfferDeclined(ctx context.Context, owner, applicant user.User, j job.Job)
}

// EventPublisher pushes lifecycle transitions to websocket subscribers.
type EventPublisher interface {
	PublishApplicationEvent(applicationID, jobID uuid.UUID, status string)
}

type ApplyInput struct {
	Title       string
	Description string
}

// AcceptResult reports an accepted offer. Warning is set when the acceptance
// itself succeeded but the automatic job close did not.
type AcceptResult struct {
	Application application.Application
	JobClosed   bool
	Warning     string
}

// ReceivedApplication pairs an application with listing context for the job
// owner's review screen.
type ReceivedApplication struct {
	Application application.Application
	JobTitle    string
	Applicant   string
	SkillMatch  skillmatch.Result
}

type MyApplication struct {
	Application application.Application
	JobTitle    string
	JobStatus   job.Status
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, applicantID, jobID uuid.UUID, in ApplyInput) (application.Application, error)
	Decide(ctx context.Context, ownerID, applicationID uuid.UUID, target application.Status) (application.Application, error)
	AcceptOffer(ctx context.Context, applicantID, applicationID uuid.UUID) (AcceptResult, error)
	DeclineOffer(ctx context.Context, applicantID, applicationID uuid.UUID) (application.Application, error)
	ListMine(ctx context.Context, applicantID uuid.UUID) ([]MyApplication, error)
	ListReceived(ctx context.Context, ownerID uuid.UUID) ([]ReceivedApplication, error)
}

type Lifecycle struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	jobSkills    repository.JobSkillRepository
	userSkills   repository.UserSkillRepository
	users        repository.UserRepository
	mailer       LifecycleMailer
	events       EventPublisher
	cache        ListingInvalidator
	logger       *log.Logger
}

func NewApplicationUsecase(
	applications repository.ApplicationRepository,
	jobs repository.JobRepository,
	jobSkills repository.JobSkillRepository,
	userSkills repository.UserSkillRepository,
	users repository.UserRepository,
	mailer LifecycleMailer,
	events EventPublisher,
	cache ListingInvalidator,
	logger *log.Logger,
) *Lifecycle {
	return &Lifecycle{
		applications: applications,
		jobs:         jobs,
		jobSkills:    jobSkills,
		userSkills:   userSkills,
		users:        users,
		mailer:       mailer,
		events:       events,
		cache:        cache,
		logger:       logger,
	}
}

// Apply submits a new application for an open job. One application per
// (job, applicant) pair; the storage constraint, not the pre-read, is what
// makes that hold under concurrency.
func (u *Lifecycle) Apply(ctx context.Context, applicantID, jobID uuid.UUID, in ApplyInput) (application.Application, error) {
	if applicantID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" || len(title) > maxApplicationTitleLen {
		return application.Application{}, ErrInvalidInput
	}
	if desc == "" || len(desc) > maxApplicationDescriptionLen {
		return application.Application{}, ErrInvalidInput
	}

	j, err := u.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, u.internal("apply: load job", err)
	}
	if !j.Open() {
		return application.Application{}, ErrConflict
	}

	applicant, err := u.users.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, u.internal("apply: load applicant", err)
	}

	created, err := u.applications.Create(ctx, application.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		Title:       title,
		Description: desc,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return application.Application{}, ErrAlreadyApplied
		}
		return application.Application{}, u.internal("apply: create", err)
	}

	if owner, err := u.users.FindByID(ctx, j.UserID); err == nil {
		u.notify(func(ctx context.Context) {
			u.mailer.NewApplication(ctx, owner, applicant, j, created)
		})
	} else {
		u.logf("apply: job owner %s not found for notification: %v", j.UserID, err)
	}
	u.publish(created)
	// Cached listing pages carry the viewer's has_applied flag.
	u.invalidateListings(ctx)

	return created, nil
}

// Decide is the job owner's move: pending to hired or rejected. The input
// validator admits "pending" as a status value, so the reversion is blocked
// here explicitly rather than trusted to validation.
func (u *Lifecycle) Decide(ctx context.Context, ownerID, applicationID uuid.UUID, target application.Status) (application.Application, error) {
	if ownerID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	if !target.Valid() || target == application.StatusAccepted || target == application.StatusOfferDeclined {
		return application.Application{}, ErrInvalidInput
	}
	if target == application.StatusPending {
		// Legal input value, illegal transition.
		return application.Application{}, ErrConflict
	}
	if !application.OwnerCanSet(target) {
		return application.Application{}, ErrInvalidInput
	}

	app, err := u.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, u.internal("decide: load application", err)
	}

	j, err := u.jobs.FindByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, u.internal("decide: load job", err)
	}
	if j.UserID != ownerID {
		return application.Application{}, ErrForbidden
	}
	if app.Status != application.StatusPending {
		return application.Application{}, ErrConflict
	}

	updated, err := u.applications.UpdateStatusFrom(ctx, app.ID, application.StatusPending, target)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return application.Application{}, ErrConflict
		}
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, u.internal("decide: update status", err)
	}

	if applicant, err := u.users.FindByID(ctx, app.ApplicantID); err == nil {
		u.notify(func(ctx context.Context) {
			u.mailer.StatusUpdate(ctx, applicant, j, updated)
		})
	} else {
		u.logf("decide: applicant %s not found for notification: %v", app.ApplicantID, err)
	}
	u.publish(updated)

	return updated, nil
}

// AcceptOffer moves a hired application to accepted and closes the job. The
// status CAS guarantees that of two concurrent accepts exactly one wins; the
// loser gets a conflict. Closing the job is best-effort: acceptance stands
// even when the close fails, reported as a warning.
func (u *Lifecycle) AcceptOffer(ctx context.Context, applicantID, applicationID uuid.UUID) (AcceptResult, error) {
	if applicantID == uuid.Nil {
		return AcceptResult{}, ErrUnauthorized
	}

	app, err := u.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return AcceptResult{}, ErrNotFound
		}
		return AcceptResult{}, u.internal("accept: load application", err)
	}
	if app.ApplicantID != applicantID {
		return AcceptResult{}, ErrForbidden
	}
	if app.Status != application.StatusHired {
		return AcceptResult{}, ErrConflict
	}

	j, err := u.jobs.FindByID(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return AcceptResult{}, ErrNotFound
		}
		return AcceptResult{}, u.internal("accept: load job", err)
	}
	if !j.Open() {
		return AcceptResult{}, ErrConflict
	}

	applicant, err := u.users.FindByID(ctx, applicantID)
	if err != nil {
		return AcceptResult{}, u.internal("accept: load applicant", err)
	}
	owner, err := u.users.FindByID(ctx, j.UserID)
	if err != nil {
		return AcceptResult{}, u.internal("accept: load job owner", err)
	}

	updated, err := u.applications.UpdateStatusFrom(ctx, app.ID, application.StatusHired, application.StatusAccepted)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return AcceptResult{}, ErrConflict
		}
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return AcceptResult{}, ErrNotFound
		}
		return AcceptResult{}, u.internal("accept: update status", err)
	}

	res := AcceptResult{Application: updated}
	closed, err := u.jobs.CloseIfOpen(ctx, j.ID)
	if err != nil {
		u.logf("accept: failed to close job %s after acceptance: %v", j.ID, err)
		res.Warning = "Offer accepted, but the job listing could not be closed automatically."
	} else {
		res.JobClosed = closed
	}
	if res.JobClosed {
		u.invalidateListings(ctx)
	}

	// The joint email goes out regardless of notification preferences.
	u.notify(func(ctx context.Context) {
		u.mailer.OfferAccepted(ctx, applicant, owner, j)
	})
	u.publish(updated)

	return res, nil
}

// DeclineOffer moves a hired application to offer_declined. The job stays
// open.
func (u *Lifecycle) DeclineOffer(ctx context.Context, applicantID, applicationID uuid.UUID) (application.Application, error) {
	if applicantID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}

	app, err := u.applications.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, u.internal("decline: load application", err)
	}
	if app.ApplicantID != applicantID {
		return application.Application{}, ErrForbidden
	}
	if app.Status != application.StatusHired {
		return application.Application{}, ErrConflict
	}

	updated, err := u.applications.UpdateStatusFrom(ctx, app.ID, application.StatusHired, application.StatusOfferDeclined)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return application.Application{}, ErrConflict
		}
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, u.internal("decline: update status", err)
	}

	// Missing context data only downgrades the notification, never the
	// decline itself.
	j, jobErr := u.jobs.FindByID(ctx, app.JobID)
	applicant, applicantErr := u.users.FindByID(ctx, applicantID)
	if jobErr == nil && applicantErr == nil {
		if owner, err := u.users.FindByID(ctx, j.UserID); err == nil {
			u.notify(func(ctx context.Context) {
				u.mailer.OfferDeclined(ctx, owner, applicant, j)
			})
		} else {
			u.logf("decline: job owner %s not found for notification: %v", j.UserID, err)
		}
	} else {
		u.logf("decline: missing job/applicant context for notification: job=%v applicant=%v", jobErr, applicantErr)
	}
	u.publish(updated)

	return updated, nil
}

func (u *Lifecycle) ListMine(ctx context.Context, applicantID uuid.UUID) ([]MyApplication, error) {
	if applicantID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	apps, err := u.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, u.internal("list mine", err)
	}

	out := make([]MyApplication, 0, len(apps))
	for _, app := range apps {
		item := MyApplication{Application: app}
		if j, err := u.jobs.FindByID(ctx, app.JobID); err == nil {
			item.JobTitle = j.Title
			item.JobStatus = j.Status
		}
		out = append(out, item)
	}
	return out, nil
}

// ListReceived returns every application for the owner's jobs, annotated with
// each applicant's aggregate skill match against the job's requirements.
func (u *Lifecycle) ListReceived(ctx context.Context, ownerID uuid.UUID) ([]ReceivedApplication, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	apps, err := u.applications.ListForJobOwner(ctx, ownerID)
	if err != nil {
		return nil, u.internal("list received", err)
	}

	requiredByJob := make(map[uuid.UUID][]skillmatch.RequiredSkill)
	titleByJob := make(map[uuid.UUID]string)

	out := make([]ReceivedApplication, 0, len(apps))
	for _, app := range apps {
		item := ReceivedApplication{Application: app}

		required, ok := requiredByJob[app.JobID]
		if !ok {
			js, err := u.jobSkills.FindByJobID(ctx, app.JobID)
			if err != nil {
				return nil, u.internal("list received: job skills", err)
			}
			required = make([]skillmatch.RequiredSkill, 0, len(js))
			for _, s := range js {
				required = append(required, skillmatch.RequiredSkill{
					SkillID:  s.SkillID,
					Name:     s.Name,
					Category: s.Category,
					MinYears: s.MinYears,
				})
			}
			requiredByJob[app.JobID] = required

			if j, err := u.jobs.FindByID(ctx, app.JobID); err == nil {
				titleByJob[app.JobID] = j.Title
			}
		}
		item.JobTitle = titleByJob[app.JobID]

		us, err := u.userSkills.FindByUserID(ctx, app.ApplicantID)
		if err != nil {
			return nil, u.internal("list received: user skills", err)
		}
		userSkills := make([]skillmatch.UserSkill, 0, len(us))
		for _, s := range us {
			userSkills = append(userSkills, skillmatch.UserSkill{
				SkillID:         s.SkillID,
				Name:            s.Name,
				Category:        s.Category,
				YearsExperience: s.YearsExperience,
			})
		}
		item.SkillMatch = skillmatch.Overall(userSkills, required)

		if applicant, err := u.users.FindByID(ctx, app.ApplicantID); err == nil {
			item.Applicant = applicant.DisplayName()
		}

		out = append(out, item)
	}
	return out, nil
}

func (u *Lifecycle) notify(fn func(ctx context.Context)) {
	if u.mailer == nil {
		return
	}
	// Detached from the request context: a slow or failing send must not
	// block or cancel the committed transition.
	fn(context.WithoutCancel(context.Background()))
}

func (u *Lifecycle) invalidateListings(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateJobListings(ctx); err != nil {
		u.logf("listing cache invalidation failed: %v", err)
	}
}

func (u *Lifecycle) publish(app application.Application) {
	if u.events == nil {
		return
	}
	u.events.PublishApplicationEvent(app.ID, app.JobID, string(app.Status))
}

func (u *Lifecycle) internal(op string, err error) error {
	u.logf("%s: %v", op, err)
	return ErrInternal
}

func (u *Lifecycle) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf("[Applications] "+format, args...)
	}
}
