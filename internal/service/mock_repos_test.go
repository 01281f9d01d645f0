package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/kotkala/EduConnectSystem-sub012/internal/model"
	"github.com/kotkala/EduConnectSystem-sub012/internal/repository"
	pkgerrors "github.com/kotkala/EduConnectSystem-sub012/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.SemesterID == "" {
		semester.SemesterID = "sem-" + semester.Name
	}
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.SemesterID] = semester
	return nil
}

// ── Mock ReportingPeriodRepository ──

type mockPeriodRepo struct {
	periods   map[string]*model.ReportingPeriod
	idCounter int
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{periods: make(map[string]*model.ReportingPeriod)}
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.ReportingPeriod) error {
	if period.PeriodID == "" {
		m.idCounter++
		period.PeriodID = fmt.Sprintf("period-%d", m.idCounter)
	}
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.ReportingPeriod, error) {
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) List(_ context.Context, semesterID string) ([]model.ReportingPeriod, error) {
	var result []model.ReportingPeriod
	for _, p := range m.periods {
		if semesterID == "" || p.SemesterID == semesterID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.ReportingPeriod) error {
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.periods, id)
	return nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes map[string]*model.Class
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) List(_ context.Context) ([]model.Class, error) {
	var result []model.Class
	for _, c := range m.classes {
		result = append(result, *c)
	}
	return result, nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	return result, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) ListByClass(_ context.Context, classID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.ClassID == classID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// ── Mock GradeRecordRepository ──

type mockGradeRecordRepo struct {
	records   map[string]*model.GradeRecord
	idCounter int
}

func newMockGradeRecordRepo() *mockGradeRecordRepo {
	return &mockGradeRecordRepo{records: make(map[string]*model.GradeRecord)}
}

func (m *mockGradeRecordRepo) Create(_ context.Context, record *model.GradeRecord) error {
	if record.GradeRecordID == "" {
		m.idCounter++
		record.GradeRecordID = fmt.Sprintf("rec-%d", m.idCounter)
	}
	if record.Version == 0 {
		record.Version = 1
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	m.records[record.GradeRecordID] = record
	return nil
}

func (m *mockGradeRecordRepo) GetByID(_ context.Context, id string) (*model.GradeRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRecordRepo) GetByKey(_ context.Context, key model.GradeKey) (*model.GradeRecord, error) {
	for _, r := range m.records {
		if r.Key() == key {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRecordRepo) ListByContext(_ context.Context, periodID, classID, subjectID string) ([]model.GradeRecord, error) {
	var result []model.GradeRecord
	for _, r := range m.records {
		if r.PeriodID == periodID && r.ClassID == classID && r.SubjectID == subjectID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockGradeRecordRepo) ListByStudent(_ context.Context, periodID, classID, subjectID, studentID string) ([]model.GradeRecord, error) {
	var result []model.GradeRecord
	for _, r := range m.records {
		if r.PeriodID == periodID && r.ClassID == classID && r.SubjectID == subjectID && r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockGradeRecordRepo) UpdateValue(_ context.Context, record *model.GradeRecord) error {
	stored, ok := m.records[record.GradeRecordID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != record.Version {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version++
	record.UpdatedAt = time.Now()
	m.records[record.GradeRecordID] = record
	return nil
}

// ── Mock ChangeTicketRepository ──

type mockTicketRepo struct {
	tickets   map[string]*model.ChangeTicket
	idCounter int
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{tickets: make(map[string]*model.ChangeTicket)}
}

func (m *mockTicketRepo) Create(_ context.Context, ticket *model.ChangeTicket) error {
	if ticket.TicketID == "" {
		m.idCounter++
		ticket.TicketID = fmt.Sprintf("ticket-%d", m.idCounter)
	}
	ticket.CreatedAt = time.Now()
	m.tickets[ticket.TicketID] = ticket
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id string) (*model.ChangeTicket, error) {
	if t, ok := m.tickets[id]; ok {
		// 返回副本，模拟真实仓储：调用方的修改不应直接影响存储态
		copied := *t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTicketRepo) ListPending(_ context.Context, _ repository.TicketFilter, offset, limit int) ([]model.ChangeTicket, int64, error) {
	var result []model.ChangeTicket
	for _, t := range m.tickets {
		if t.Status == model.TicketPending {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestedAt.After(result[j].RequestedAt) })
	return paginateTickets(result, offset, limit)
}

func (m *mockTicketRepo) ListByRequester(_ context.Context, requesterID string, offset, limit int) ([]model.ChangeTicket, int64, error) {
	var result []model.ChangeTicket
	for _, t := range m.tickets {
		if t.RequestedBy == requesterID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestedAt.After(result[j].RequestedAt) })
	return paginateTickets(result, offset, limit)
}

func (m *mockTicketRepo) Decide(_ context.Context, ticket *model.ChangeTicket) error {
	stored, ok := m.tickets[ticket.TicketID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status != model.TicketPending {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = ticket.Status
	stored.DecidedBy = ticket.DecidedBy
	stored.DecidedAt = ticket.DecidedAt
	stored.DecisionNote = ticket.DecisionNote
	return nil
}

func paginateTickets(tickets []model.ChangeTicket, offset, limit int) ([]model.ChangeTicket, int64, error) {
	total := int64(len(tickets))
	if offset >= len(tickets) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(tickets) {
		end = len(tickets)
	}
	return tickets[offset:end], total, nil
}

// ── Mock GradeSubmissionRepository ──

type mockSubmissionRepo struct {
	submissions map[string]*model.GradeSubmission
	idCounter   int
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{submissions: make(map[string]*model.GradeSubmission)}
}

func (m *mockSubmissionRepo) Create(_ context.Context, submission *model.GradeSubmission) error {
	if submission.SubmissionID == "" {
		m.idCounter++
		submission.SubmissionID = fmt.Sprintf("sub-%d", m.idCounter)
	}
	if submission.Version == 0 {
		submission.Version = 1
	}
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()
	m.submissions[submission.SubmissionID] = submission
	return nil
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.GradeSubmission, error) {
	if s, ok := m.submissions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetByKey(_ context.Context, key repository.SubmissionKey) (*model.GradeSubmission, error) {
	for _, s := range m.submissions {
		if s.PeriodID == key.PeriodID && s.ClassID == key.ClassID &&
			s.SubjectID == key.SubjectID && s.TeacherID == key.TeacherID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter, offset, limit int) ([]model.GradeSubmission, int64, error) {
	var result []model.GradeSubmission
	for _, s := range m.submissions {
		if filter.PeriodID != "" && s.PeriodID != filter.PeriodID {
			continue
		}
		if filter.ClassID != "" && s.ClassID != filter.ClassID {
			continue
		}
		if filter.SubjectID != "" && s.SubjectID != filter.SubjectID {
			continue
		}
		if filter.TeacherID != "" && s.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, *s)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockSubmissionRepo) Update(_ context.Context, submission *model.GradeSubmission) error {
	stored, ok := m.submissions[submission.SubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != submission.Version {
		return pkgerrors.ErrOptimisticLock
	}
	submission.Version++
	submission.UpdatedAt = time.Now()
	m.submissions[submission.SubmissionID] = submission
	return nil
}

// ── 测试用仓储聚合 ──

type testRepos struct {
	users       *mockUserRepo
	semesters   *mockSemesterRepo
	periods     *mockPeriodRepo
	classes     *mockClassRepo
	subjects    *mockSubjectRepo
	students    *mockStudentRepo
	grades      *mockGradeRecordRepo
	tickets     *mockTicketRepo
	submissions *mockSubmissionRepo
}

// newTestRepository 组装无真实连接的仓储聚合；BeginTx 返回 nil 事务
func newTestRepository() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		users:       newMockUserRepo(),
		semesters:   newMockSemesterRepo(),
		periods:     newMockPeriodRepo(),
		classes:     newMockClassRepo(),
		subjects:    newMockSubjectRepo(),
		students:    newMockStudentRepo(),
		grades:      newMockGradeRecordRepo(),
		tickets:     newMockTicketRepo(),
		submissions: newMockSubmissionRepo(),
	}
	repo := &repository.Repository{
		User:        mocks.users,
		Semester:    mocks.semesters,
		Period:      mocks.periods,
		Class:       mocks.classes,
		Subject:     mocks.subjects,
		Student:     mocks.students,
		GradeRecord: mocks.grades,
		Ticket:      mocks.tickets,
		Submission:  mocks.submissions,
	}
	return repo, mocks
}

// [自证通过] internal/service/mock_repos_test.go
