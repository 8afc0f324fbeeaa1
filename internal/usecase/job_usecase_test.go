package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/skill"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

type jobFixture struct {
	uc           *JobManager
	jobs         *fakeJobRepo
	jobSkills    *fakeJobSkillRepo
	skills       *fakeSkillRepo
	userSkills   *fakeUserSkillRepo
	applications *fakeApplicationRepo
	users        *fakeUserRepo
	cache        *fakeCache

	owner user.User
}

func newJobFixture() *jobFixture {
	owner := user.User{ID: uuid.New(), Email: "owner@example.com", Username: "owner"}
	f := &jobFixture{
		jobs:         newFakeJobRepo(),
		jobSkills:    &fakeJobSkillRepo{},
		skills:       &fakeSkillRepo{known: map[uuid.UUID]skill.Skill{}},
		userSkills:   &fakeUserSkillRepo{},
		applications: newFakeApplicationRepo(),
		users:        newFakeUserRepo(owner),
		cache:        &fakeCache{},
		owner:        owner,
	}
	f.uc = NewJobUsecase(f.jobs, f.jobSkills, f.skills, f.userSkills, f.applications, f.users, f.cache, nil)
	return f
}

func validJobInput() JobInput {
	loc := "Berlin"
	return JobInput{
		Title:               "Backend Engineer",
		Description:         "Build the board",
		CompanyName:         "Acme",
		ApplicationDeadline: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		StartDate:           time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		SalaryAmount:        60000,
		WeeklyHours:         40,
		WorkingLocation:     job.LocationInPerson,
		InPersonLocation:    &loc,
	}
}

func TestCreate_SetsAuthorAndOpens(t *testing.T) {
	f := newJobFixture()

	created, err := f.uc.Create(context.Background(), f.owner.ID, validJobInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != job.StatusOpen {
		t.Fatalf("expected open, got %s", created.Status)
	}
	if created.Author != "owner" {
		t.Fatalf("unexpected author %q", created.Author)
	}
	if f.cache.invalidated != 1 {
		t.Fatal("listing cache not invalidated")
	}
}

func TestCreate_RejectsInvalid(t *testing.T) {
	f := newJobFixture()
	in := validJobInput()
	in.StartDate = in.ApplicationDeadline.AddDate(0, 0, -1)

	_, err := f.uc.Create(context.Background(), f.owner.ID, in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreate_UnknownSkillRejected(t *testing.T) {
	f := newJobFixture()
	in := validJobInput()
	in.Skills = map[string]string{uuid.NewString(): "2"}

	_, err := f.uc.Create(context.Background(), f.owner.ID, in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown skill, got %v", err)
	}
}

func TestCreate_StoresRequiredSkills(t *testing.T) {
	f := newJobFixture()
	goID := uuid.New()
	f.skills.known[goID] = skill.Skill{ID: goID, Name: "Go"}

	in := validJobInput()
	in.Skills = map[string]string{goID.String(): "2.5"}

	created, err := f.uc.Create(context.Background(), f.owner.ID, in)
	if err != nil {
		t.Fatal(err)
	}
	stored := f.jobSkills.byJob[created.ID]
	if len(stored) != 1 || stored[0].SkillID != goID || stored[0].MinYears != 2.5 {
		t.Fatalf("unexpected stored skills %+v", stored)
	}
}

func TestEdit_OwnershipEnforced(t *testing.T) {
	f := newJobFixture()
	created, err := f.uc.Create(context.Background(), f.owner.ID, validJobInput())
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.uc.Edit(context.Background(), uuid.New(), created.ID, validJobInput())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEdit_RemoteFlipClearsAddress(t *testing.T) {
	f := newJobFixture()
	created, err := f.uc.Create(context.Background(), f.owner.ID, validJobInput())
	if err != nil {
		t.Fatal(err)
	}

	in := validJobInput()
	in.WorkingLocation = job.LocationRemote
	// Stale clients keep sending the old address on a remote flip.
	updated, err := f.uc.Edit(context.Background(), f.owner.ID, created.ID, in)
	if err != nil {
		t.Fatal(err)
	}
	if updated.InPersonLocation != nil {
		t.Fatal("address must be cleared when the job flips to remote")
	}
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	f := newJobFixture()
	created, err := f.uc.Create(context.Background(), f.owner.ID, validJobInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := f.uc.Delete(context.Background(), uuid.New(), created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.uc.Delete(context.Background(), f.owner.ID, created.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestDetail_AnonymousViewer(t *testing.T) {
	f := newJobFixture()
	created, err := f.uc.Create(context.Background(), f.owner.ID, validJobInput())
	if err != nil {
		t.Fatal(err)
	}
	f.jobSkills.byJob[created.ID] = []skill.JobSkill{{JobID: created.ID, SkillID: uuid.New(), Name: "Go", MinYears: 2}}

	detail, err := f.uc.Detail(context.Background(), uuid.Nil, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Overall != nil {
		t.Fatal("anonymous viewer must not get an overall match")
	}
	if len(detail.Skills) != 1 || detail.Skills[0].UserYears != nil {
		t.Fatalf("expected bare requirement breakdown, got %+v", detail.Skills)
	}
	if detail.IsOwner || detail.HasApplied {
		t.Fatal("anonymous viewer has no relationship to the job")
	}
}

func TestDetail_ViewerOverlay(t *testing.T) {
	f := newJobFixture()
	created, err := f.uc.Create(context.Background(), f.owner.ID, validJobInput())
	if err != nil {
		t.Fatal(err)
	}
	goID := uuid.New()
	f.jobSkills.byJob[created.ID] = []skill.JobSkill{{JobID: created.ID, SkillID: goID, Name: "Go", MinYears: 2}}

	viewer := uuid.New()
	f.userSkills.byUser = map[uuid.UUID][]skill.UserSkill{
		viewer: {{UserID: viewer, SkillID: goID, Name: "Go", YearsExperience: 4}},
	}
	if _, err := f.applications.Create(context.Background(), applicationFor(created.ID, viewer)); err != nil {
		t.Fatal(err)
	}

	detail, err := f.uc.Detail(context.Background(), viewer, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Overall == nil || detail.Overall.Label != "Meets Requirements" {
		t.Fatalf("unexpected overall %+v", detail.Overall)
	}
	if !detail.HasApplied {
		t.Fatal("has_applied not set")
	}
	if detail.IsOwner {
		t.Fatal("viewer is not the owner")
	}
}

func sweepFixtureAt(t *testing.T, now time.Time) (*JobManager, *fakeJobRepo) {
	t.Helper()
	f := newJobFixture()
	f.uc.now = func() time.Time { return now }
	return f.uc, f.jobs
}

func TestSweepExpired_ClosesStrictlyBeforeToday(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	uc, jobs := sweepFixtureAt(t, now)

	yesterday := job.Job{ID: uuid.New(), Status: job.StatusOpen, ApplicationDeadline: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)}
	today := job.Job{ID: uuid.New(), Status: job.StatusOpen, ApplicationDeadline: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}
	tomorrow := job.Job{ID: uuid.New(), Status: job.StatusOpen, ApplicationDeadline: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)}
	jobs.add(yesterday)
	jobs.add(today)
	jobs.add(tomorrow)

	closed, err := uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed, got %d", closed)
	}

	check := func(id uuid.UUID, want job.Status) {
		t.Helper()
		j, err := jobs.FindByID(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if j.Status != want {
			t.Fatalf("job %s: status %s, want %s", id, j.Status, want)
		}
	}
	check(yesterday.ID, job.StatusClosed)
	// A deadline of today is not yet expired.
	check(today.ID, job.StatusOpen)
	check(tomorrow.ID, job.StatusOpen)
}

func TestSweepExpired_Idempotent(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	uc, jobs := sweepFixtureAt(t, now)
	jobs.add(job.Job{ID: uuid.New(), Status: job.StatusOpen, ApplicationDeadline: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)})

	first, err := uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != 1 {
		t.Fatalf("expected 1 closed on first run, got %d", first)
	}

	second, err := uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second != 0 {
		t.Fatalf("expected 0 closed on second run, got %d", second)
	}
}

func TestSweepExpired_SkipsUnparsableDeadlines(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	uc, jobs := sweepFixtureAt(t, now)

	expired := job.Job{ID: uuid.New(), Status: job.StatusOpen}
	garbled := job.Job{ID: uuid.New(), Status: job.StatusOpen}
	jobs.add(expired)
	jobs.add(garbled)

	good := "2026-08-15"
	bad := "not-a-date"
	jobs.deadlines = []repository.OpenJobDeadline{
		{ID: expired.ID, Deadline: &good},
		{ID: garbled.ID, Deadline: &bad},
		{ID: uuid.New(), Deadline: nil},
	}

	closed, err := uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("a bad row must not fail the sweep: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed, got %d", closed)
	}

	j, err := jobs.FindByID(context.Background(), garbled.ID)
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != job.StatusOpen {
		t.Fatal("unparsable deadline must never count as expired")
	}
}

func TestSweepExpired_AcceptsTimestampSuffix(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	uc, jobs := sweepFixtureAt(t, now)

	j := job.Job{ID: uuid.New(), Status: job.StatusOpen}
	jobs.add(j)
	raw := "2026-08-15 00:00:00+00"
	jobs.deadlines = []repository.OpenJobDeadline{{ID: j.ID, Deadline: &raw}}

	closed, err := uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if closed != 1 {
		t.Fatalf("timestamp-formatted deadline must still parse, got %d closed", closed)
	}
}
