package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/skill"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type lifecycleFixture struct {
	uc           *Lifecycle
	applications *fakeApplicationRepo
	jobs         *fakeJobRepo
	jobSkills    *fakeJobSkillRepo
	userSkills   *fakeUserSkillRepo
	users        *fakeUserRepo
	mailer       *fakeMailer
	events       *fakePublisher

	owner     user.User
	applicant user.User
	job       job.Job
}

func newLifecycleFixture() *lifecycleFixture {
	owner := user.User{ID: uuid.New(), Email: "owner@example.com", Username: "owner", NotifyNewApplicant: true, NotifyOwnStatusChange: true}
	applicant := user.User{ID: uuid.New(), Email: "applicant@example.com", Username: "applicant", NotifyOwnStatusChange: true}

	j := job.Job{
		ID:     uuid.New(),
		Title:  "Backend Engineer",
		UserID: owner.ID,
		Status: job.StatusOpen,
		Author: owner.Username,
	}

	f := &lifecycleFixture{
		applications: newFakeApplicationRepo(),
		jobs:         newFakeJobRepo(),
		jobSkills:    &fakeJobSkillRepo{},
		userSkills:   &fakeUserSkillRepo{},
		users:        newFakeUserRepo(owner, applicant),
		mailer:       &fakeMailer{},
		events:       &fakePublisher{},
		owner:        owner,
		applicant:    applicant,
		job:          j,
	}
	f.jobs.add(j)
	f.uc = NewApplicationUsecase(f.applications, f.jobs, f.jobSkills, f.userSkills, f.users, f.mailer, f.events, nil, nil)
	return f
}

func (f *lifecycleFixture) apply(t *testing.T) application.Application {
	t.Helper()
	app, err := f.uc.Apply(context.Background(), f.applicant.ID, f.job.ID, ApplyInput{
		Title:       "My application",
		Description: "I would like this job",
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return app
}

func TestApply_CreatesPendingAndNotifies(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)

	if app.Status != application.StatusPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}
	if f.mailer.count("new_application") != 1 {
		t.Fatal("owner notification not sent")
	}
	if len(f.events.events) != 1 || f.events.events[0] != "pending" {
		t.Fatalf("unexpected events %v", f.events.events)
	}
}

func TestApply_Duplicate(t *testing.T) {
	f := newLifecycleFixture()
	f.apply(t)

	_, err := f.uc.Apply(context.Background(), f.applicant.ID, f.job.ID, ApplyInput{Title: "Again", Description: "Second try"})
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApply_ClosedJob(t *testing.T) {
	f := newLifecycleFixture()
	j := f.job
	j.Status = job.StatusClosed
	if _, err := f.jobs.Update(context.Background(), j); err != nil {
		t.Fatal(err)
	}

	_, err := f.uc.Apply(context.Background(), f.applicant.ID, f.job.ID, ApplyInput{Title: "x", Description: "y"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestApply_ValidatesInput(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.uc.Apply(context.Background(), f.applicant.ID, f.job.ID, ApplyInput{Title: "   ", Description: "y"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank title, got %v", err)
	}
	_, err = f.uc.Apply(context.Background(), f.applicant.ID, f.job.ID, ApplyInput{Title: "x", Description: ""})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty description, got %v", err)
	}
}

func TestDecide_OwnerHires(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)

	updated, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired)
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if updated.Status != application.StatusHired {
		t.Fatalf("expected hired, got %s", updated.Status)
	}
	if f.mailer.count("status_update") != 1 {
		t.Fatal("applicant notification not sent")
	}
}

func TestDecide_NonOwnerForbidden(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)

	_, err := f.uc.Decide(context.Background(), f.applicant.ID, app.ID, application.StatusHired)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDecide_PendingRevertBlocked(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)

	// "pending" passes status validation but is never a legal target.
	_, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusPending)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDecide_ApplicantSideStatusRejected(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)

	for _, target := range []application.Status{application.StatusAccepted, application.StatusOfferDeclined} {
		if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, target); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("target %s: expected ErrInvalidInput, got %v", target, err)
		}
	}
}

func TestDecide_OnlyFromPending(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)

	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusRejected); err != nil {
		t.Fatalf("first decision failed: %v", err)
	}
	_, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second decision, got %v", err)
	}
}

func TestAcceptOffer_HappyPath(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)
	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired); err != nil {
		t.Fatal(err)
	}

	res, err := f.uc.AcceptOffer(context.Background(), f.applicant.ID, app.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if res.Application.Status != application.StatusAccepted {
		t.Fatalf("expected accepted, got %s", res.Application.Status)
	}
	if !res.JobClosed || res.Warning != "" {
		t.Fatalf("expected clean close, got closed=%v warning=%q", res.JobClosed, res.Warning)
	}

	j, err := f.jobs.FindByID(context.Background(), f.job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != job.StatusClosed {
		t.Fatal("job was not closed on acceptance")
	}
	if f.mailer.count("offer_accepted") != 1 {
		t.Fatal("joint email not sent")
	}
}

func TestAcceptOffer_JointEmailIgnoresPreferences(t *testing.T) {
	f := newLifecycleFixture()

	// Both parties opted out of notifications; the acceptance email still
	// goes out.
	owner := f.owner
	owner.NotifyNewApplicant = false
	owner.NotifyOwnStatusChange = false
	f.users.users[owner.ID] = owner
	applicant := f.applicant
	applicant.NotifyOwnStatusChange = false
	f.users.users[applicant.ID] = applicant

	app := f.apply(t)
	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.AcceptOffer(context.Background(), f.applicant.ID, app.ID); err != nil {
		t.Fatal(err)
	}
	if f.mailer.count("offer_accepted") != 1 {
		t.Fatal("joint email must be unconditional")
	}
}

func TestAcceptOffer_CloseFailureIsWarning(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)
	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired); err != nil {
		t.Fatal(err)
	}

	f.jobs.closeErr = errors.New("connection reset")
	res, err := f.uc.AcceptOffer(context.Background(), f.applicant.ID, app.ID)
	if err != nil {
		t.Fatalf("acceptance must survive a close failure: %v", err)
	}
	if res.Application.Status != application.StatusAccepted {
		t.Fatalf("expected accepted, got %s", res.Application.Status)
	}
	if res.JobClosed || res.Warning == "" {
		t.Fatalf("expected warning, got closed=%v warning=%q", res.JobClosed, res.Warning)
	}
	if f.mailer.count("offer_accepted") != 1 {
		t.Fatal("joint email still must be sent")
	}
}

func TestAcceptOffer_WrongApplicant(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)
	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired); err != nil {
		t.Fatal(err)
	}

	_, err := f.uc.AcceptOffer(context.Background(), f.owner.ID, app.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAcceptOffer_RequiresHired(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)

	_, err := f.uc.AcceptOffer(context.Background(), f.applicant.ID, app.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("pending application must not be acceptable, got %v", err)
	}
}

func TestAcceptOffer_SecondAcceptLoses(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)
	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired); err != nil {
		t.Fatal(err)
	}

	if _, err := f.uc.AcceptOffer(context.Background(), f.applicant.ID, app.ID); err != nil {
		t.Fatal(err)
	}
	_, err := f.uc.AcceptOffer(context.Background(), f.applicant.ID, app.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second accept must conflict, got %v", err)
	}
}

func TestAcceptOffer_ConcurrentAcceptsOneWinner(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)
	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired); err != nil {
		t.Fatal(err)
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.AcceptOffer(context.Background(), f.applicant.ID, app.ID)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("want exactly one winner and one conflict, got %d/%d", wins, conflicts)
	}

	stored, err := f.jobs.FindByID(context.Background(), f.job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != job.StatusClosed {
		t.Fatal("job must be closed after the winning accept")
	}
	if got := f.mailer.count("offer_accepted"); got != 1 {
		t.Fatalf("joint email sent %d times, want 1", got)
	}
}

func TestDeclineOffer_JobStaysOpen(t *testing.T) {
	f := newLifecycleFixture()
	app := f.apply(t)
	if _, err := f.uc.Decide(context.Background(), f.owner.ID, app.ID, application.StatusHired); err != nil {
		t.Fatal(err)
	}

	updated, err := f.uc.DeclineOffer(context.Background(), f.applicant.ID, app.ID)
	if err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if updated.Status != application.StatusOfferDeclined {
		t.Fatalf("expected offer_declined, got %s", updated.Status)
	}

	j, err := f.jobs.FindByID(context.Background(), f.job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != job.StatusOpen {
		t.Fatal("declining must leave the job open")
	}
	if f.mailer.count("offer_declined") != 1 {
		t.Fatal("owner notification not sent")
	}
}

func TestListReceived_AnnotatesSkillMatch(t *testing.T) {
	f := newLifecycleFixture()
	skillID := uuid.New()
	f.jobSkills.byJob = map[uuid.UUID][]skill.JobSkill{
		f.job.ID: {{JobID: f.job.ID, SkillID: skillID, Name: "Go", MinYears: 2}},
	}
	f.userSkills.byUser = map[uuid.UUID][]skill.UserSkill{
		f.applicant.ID: {{UserID: f.applicant.ID, SkillID: skillID, Name: "Go", YearsExperience: 3}},
	}
	f.apply(t)

	items, err := f.uc.ListReceived(context.Background(), f.owner.ID)
	if err != nil {
		t.Fatalf("list received failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 application, got %d", len(items))
	}
	if items[0].SkillMatch.Label != "Meets Requirements" {
		t.Fatalf("unexpected match label %q", items[0].SkillMatch.Label)
	}
	if items[0].Applicant != "applicant" {
		t.Fatalf("unexpected applicant name %q", items[0].Applicant)
	}
}
