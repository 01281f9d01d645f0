package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kotkala/EduConnectSystem-sub012/internal/dto"
	"github.com/kotkala/EduConnectSystem-sub012/internal/model"
	"github.com/kotkala/EduConnectSystem-sub012/internal/service"
	"github.com/kotkala/EduConnectSystem-sub012/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	logoutErr     error
	meResult      *dto.UserResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock GradeService ──

type mockGradeService struct {
	enterResult    *dto.EnterGradeResponse
	enterErr       error
	listResult     []dto.GradeRecordResponse
	listErr        error
	averageResult  *dto.AverageResponse
	averageErr     error
	snapshotResult *model.GradeSnapshot
	snapshotErr    error
}

func (m *mockGradeService) Enter(_ context.Context, _ *dto.EnterGradeRequest, _ string) (*dto.EnterGradeResponse, error) {
	return m.enterResult, m.enterErr
}
func (m *mockGradeService) List(_ context.Context, _ *dto.GradeQueryRequest) ([]dto.GradeRecordResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockGradeService) Average(_ context.Context, _ *dto.AverageQueryRequest) (*dto.AverageResponse, error) {
	return m.averageResult, m.averageErr
}
func (m *mockGradeService) BuildSnapshot(_ context.Context, _, _, _ string) (*model.GradeSnapshot, error) {
	return m.snapshotResult, m.snapshotErr
}

// ── Mock TicketService ──

type mockTicketService struct {
	approveResult *dto.TicketResponse
	approveErr    error
	rejectResult  *dto.TicketResponse
	rejectErr     error
	pendingResult []dto.TicketResponse
	pendingTotal  int64
	pendingErr    error
	mineResult    []dto.TicketResponse
	mineTotal     int64
	mineErr       error
}

func (m *mockTicketService) Propose(_ context.Context, _ *model.GradeRecord, _ *float64, _, _ string) (*model.ChangeTicket, error) {
	return nil, nil
}
func (m *mockTicketService) Approve(_ context.Context, _ string, _ *dto.DecideTicketRequest, _ string) (*dto.TicketResponse, error) {
	return m.approveResult, m.approveErr
}
func (m *mockTicketService) Reject(_ context.Context, _ string, _ *dto.RejectTicketRequest, _ string) (*dto.TicketResponse, error) {
	return m.rejectResult, m.rejectErr
}
func (m *mockTicketService) ListPending(_ context.Context, _ *dto.TicketListRequest) ([]dto.TicketResponse, int64, error) {
	return m.pendingResult, m.pendingTotal, m.pendingErr
}
func (m *mockTicketService) ListByRequester(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.TicketResponse, int64, error) {
	return m.mineResult, m.mineTotal, m.mineErr
}

// ── Mock SubmissionService ──

type mockSubmissionService struct {
	submitResult *dto.SubmissionResponse
	submitErr    error
	listResult   []dto.SubmissionResponse
	listTotal    int64
	listErr      error
	listSeenReq  *dto.SubmissionListRequest
	getResult    *dto.SubmissionResponse
	getErr       error
}

func (m *mockSubmissionService) Submit(_ context.Context, _ *dto.SubmitGradesRequest, _ string) (*dto.SubmissionResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockSubmissionService) List(_ context.Context, req *dto.SubmissionListRequest) ([]dto.SubmissionResponse, int64, error) {
	m.listSeenReq = req
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockSubmissionService) Get(_ context.Context, _ string) (*dto.SubmissionResponse, error) {
	return m.getResult, m.getErr
}

// ── Mock ApprovalService ──

type mockApprovalService struct {
	approveResult *dto.SubmissionResponse
	approveErr    error
	rejectResult  *dto.SubmissionResponse
	rejectErr     error
}

func (m *mockApprovalService) ApproveSubmission(_ context.Context, _ string, _ *dto.ApproveSubmissionRequest, _ string) (*dto.SubmissionResponse, error) {
	return m.approveResult, m.approveErr
}
func (m *mockApprovalService) RejectSubmission(_ context.Context, _ string, _ *dto.RejectSubmissionRequest, _ string) (*dto.SubmissionResponse, error) {
	return m.rejectResult, m.rejectErr
}

// ── Mock ExportService ──

type mockExportService struct {
	sheetBuf      *bytes.Buffer
	sheetFilename string
	sheetErr      error
	calBuf        *bytes.Buffer
	calFilename   string
	calErr        error
}

func (m *mockExportService) ExportGradeSheet(_ context.Context, _, _, _ string) (*bytes.Buffer, string, error) {
	return m.sheetBuf, m.sheetFilename, m.sheetErr
}
func (m *mockExportService) ExportPeriodCalendar(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.calBuf, m.calFilename, m.calErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", role)
		c.Set("jti", "test-jti")
		c.Set("token_expires_at", time.Now().Add(15*time.Minute))
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func ptr(v float64) *float64 { return &v }

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    7200,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "teacher@school.edu.vn",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "teacher@school.edu.vn",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", setAuth("teacher"), h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrOldPasswordWrong})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "Wrong123",
		NewPassword: "New12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", setAuth("teacher"), h.ChangePassword)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// GradeHandler Tests
// ═══════════════════════════════════════════════════════════

func enterGradeBody() io.Reader {
	return jsonBody(dto.EnterGradeRequest{
		PeriodID:      "1f4f9f9e-0000-4000-8000-000000000001",
		StudentID:     "1f4f9f9e-0000-4000-8000-000000000002",
		SubjectID:     "1f4f9f9e-0000-4000-8000-000000000003",
		ClassID:       "1f4f9f9e-0000-4000-8000-000000000004",
		ComponentType: "midterm",
		GradeValue:    ptr(8.5),
		Reason:        "录入笔误修正",
	})
}

func TestGradeHandler_EnterGrade_Success(t *testing.T) {
	mock := &mockGradeService{
		enterResult: &dto.EnterGradeResponse{Outcome: "new"},
	}
	h := NewGradeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/grades", enterGradeBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/grades", setAuth("teacher"), h.EnterGrade)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestGradeHandler_EnterGrade_OutOfRange(t *testing.T) {
	h := NewGradeHandler(&mockGradeService{enterErr: service.ErrGradeOutOfRange})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/grades", enterGradeBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/grades", setAuth("teacher"), h.EnterGrade)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13001 {
		t.Errorf("expected error code 13001, got %d", resp.Code)
	}
}

func TestGradeHandler_EnterGrade_DeadlinePassed(t *testing.T) {
	h := NewGradeHandler(&mockGradeService{enterErr: service.ErrEditDeadlinePassed})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/grades", enterGradeBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/grades", setAuth("teacher"), h.EnterGrade)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13003 {
		t.Errorf("expected error code 13003, got %d", resp.Code)
	}
}

func TestGradeHandler_EnterGrade_MissingJustification(t *testing.T) {
	h := NewGradeHandler(&mockGradeService{enterErr: service.ErrMissingJustification})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/grades", enterGradeBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/grades", setAuth("teacher"), h.EnterGrade)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13002 {
		t.Errorf("expected error code 13002, got %d", resp.Code)
	}
}

func TestGradeHandler_GetAverage_Success(t *testing.T) {
	mock := &mockGradeService{
		averageResult: &dto.AverageResponse{
			StudentID: "stu-1",
			Average:   ptr(8.3),
		},
	}
	h := NewGradeHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/grades/average?period_id=1f4f9f9e-0000-4000-8000-000000000001&class_id=1f4f9f9e-0000-4000-8000-000000000004&subject_id=1f4f9f9e-0000-4000-8000-000000000003&student_id=1f4f9f9e-0000-4000-8000-000000000002",
		nil)

	r := gin.New()
	r.GET("/grades/average", setAuth("teacher"), h.GetAverage)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestGradeHandler_GetAverage_MissingParams(t *testing.T) {
	h := NewGradeHandler(&mockGradeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/grades/average", nil)

	r := gin.New()
	r.GET("/grades/average", setAuth("teacher"), h.GetAverage)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TicketHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTicketHandler_ApproveTicket_Success(t *testing.T) {
	mock := &mockTicketService{
		approveResult: &dto.TicketResponse{ID: "ticket-1", Status: "approved"},
	}
	h := NewTicketHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/tickets/ticket-1/approve", jsonBody(dto.DecideTicketRequest{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/tickets/:id/approve", setAuth("admin"), h.ApproveTicket)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTicketHandler_ApproveTicket_AlreadyDecided(t *testing.T) {
	h := NewTicketHandler(&mockTicketService{approveErr: service.ErrTicketAlreadyDecided})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/tickets/ticket-1/approve", jsonBody(dto.DecideTicketRequest{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/tickets/:id/approve", setAuth("admin"), h.ApproveTicket)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14002 {
		t.Errorf("expected error code 14002, got %d", resp.Code)
	}
}

func TestTicketHandler_RejectTicket_MissingReason(t *testing.T) {
	h := NewTicketHandler(&mockTicketService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/tickets/ticket-1/reject", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/tickets/:id/reject", setAuth("admin"), h.RejectTicket)
	r.ServeHTTP(w, req)

	// binding:"required" 在请求层直接拦截空原因
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTicketHandler_ListPendingTickets_Success(t *testing.T) {
	mock := &mockTicketService{
		pendingResult: []dto.TicketResponse{{ID: "ticket-1", Status: "pending"}},
		pendingTotal:  1,
	}
	h := NewTicketHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tickets/pending?page=1&page_size=20", nil)

	r := gin.New()
	r.GET("/tickets/pending", setAuth("admin"), h.ListPendingTickets)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SubmissionHandler Tests
// ═══════════════════════════════════════════════════════════

func submitGradesBody(reason string) io.Reader {
	return jsonBody(dto.SubmitGradesRequest{
		PeriodID:           "1f4f9f9e-0000-4000-8000-000000000001",
		ClassID:            "1f4f9f9e-0000-4000-8000-000000000004",
		SubjectID:          "1f4f9f9e-0000-4000-8000-000000000003",
		ResubmissionReason: reason,
	})
}

func TestSubmissionHandler_SubmitGrades_Success(t *testing.T) {
	mock := &mockSubmissionService{
		submitResult: &dto.SubmissionResponse{ID: "sub-1", Status: "submitted", SubmissionCount: 1},
	}
	h := NewSubmissionHandler(mock, &mockApprovalService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/submissions", submitGradesBody(""))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/submissions", setAuth("teacher"), h.SubmitGrades)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestSubmissionHandler_SubmitGrades_MissingResubmissionReason(t *testing.T) {
	h := NewSubmissionHandler(
		&mockSubmissionService{submitErr: service.ErrMissingResubmissionReason},
		&mockApprovalService{},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/submissions", submitGradesBody(""))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/submissions", setAuth("teacher"), h.SubmitGrades)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15003 {
		t.Errorf("expected error code 15003, got %d", resp.Code)
	}
}

func TestSubmissionHandler_ListSubmissions_TeacherScopedToSelf(t *testing.T) {
	mock := &mockSubmissionService{listResult: []dto.SubmissionResponse{}}
	h := NewSubmissionHandler(mock, &mockApprovalService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/submissions", nil)

	r := gin.New()
	r.GET("/submissions", setAuth("teacher"), h.ListSubmissions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.listSeenReq == nil || mock.listSeenReq.TeacherID != "test-user-id" {
		t.Error("expected teacher list to be scoped to own teacher_id")
	}
}

func TestSubmissionHandler_ListSubmissions_AdminSeesAll(t *testing.T) {
	mock := &mockSubmissionService{listResult: []dto.SubmissionResponse{}}
	h := NewSubmissionHandler(mock, &mockApprovalService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/submissions", nil)

	r := gin.New()
	r.GET("/submissions", setAuth("admin"), h.ListSubmissions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.listSeenReq == nil || mock.listSeenReq.TeacherID != "" {
		t.Error("expected admin list to stay unscoped")
	}
}

func TestSubmissionHandler_ApproveSubmission_NotSubmitted(t *testing.T) {
	h := NewSubmissionHandler(
		&mockSubmissionService{},
		&mockApprovalService{approveErr: service.ErrSubmissionNotSubmitted},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/submissions/sub-1/approve", jsonBody(dto.ApproveSubmissionRequest{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/submissions/:id/approve", setAuth("admin"), h.ApproveSubmission)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15004 {
		t.Errorf("expected error code 15004, got %d", resp.Code)
	}
}

func TestSubmissionHandler_RejectSubmission_AlreadyApproved(t *testing.T) {
	h := NewSubmissionHandler(
		&mockSubmissionService{},
		&mockApprovalService{rejectErr: service.ErrSubmissionAlreadyApproved},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/submissions/sub-1/reject", jsonBody(dto.RejectSubmissionRequest{
		Reason: "名单有误",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/submissions/:id/reject", setAuth("admin"), h.RejectSubmission)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected error code 15002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PeriodHandler Tests
// ═══════════════════════════════════════════════════════════

type mockPeriodService struct {
	createResult *dto.PeriodResponse
	createErr    error
	getResult    *dto.PeriodResponse
	getErr       error
	listResult   []dto.PeriodResponse
	listErr      error
	updateResult *dto.PeriodResponse
	updateErr    error
	deleteErr    error
}

func (m *mockPeriodService) Create(_ context.Context, _ *dto.CreatePeriodRequest, _ string) (*dto.PeriodResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockPeriodService) GetByID(_ context.Context, _ string) (*dto.PeriodResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockPeriodService) List(_ context.Context, _ string) ([]dto.PeriodResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockPeriodService) Update(_ context.Context, _ string, _ *dto.UpdatePeriodRequest, _ string) (*dto.PeriodResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockPeriodService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}

func TestPeriodHandler_CreatePeriod_Success(t *testing.T) {
	mock := &mockPeriodService{
		createResult: &dto.PeriodResponse{ID: "period-1", Status: "open"},
	}
	h := NewPeriodHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/periods", jsonBody(dto.CreatePeriodRequest{
		SemesterID:     "1f4f9f9e-0000-4000-8000-000000000010",
		Name:           "2026 学年上学期期中",
		PeriodType:     "midterm_1",
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-15",
		ImportDeadline: "2026-10-14T23:59:59+07:00",
		EditDeadline:   "2026-10-20T23:59:59+07:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/periods", setAuth("admin"), h.CreatePeriod)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestPeriodHandler_CreatePeriod_InvalidDates(t *testing.T) {
	h := NewPeriodHandler(&mockPeriodService{createErr: service.ErrPeriodDateInvalid})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/periods", jsonBody(dto.CreatePeriodRequest{
		SemesterID:     "1f4f9f9e-0000-4000-8000-000000000010",
		Name:           "2026 学年上学期期中",
		PeriodType:     "midterm_1",
		StartDate:      "2026-10-15",
		EndDate:        "2026-10-01",
		ImportDeadline: "2026-10-14T23:59:59+07:00",
		EditDeadline:   "2026-10-20T23:59:59+07:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/periods", setAuth("admin"), h.CreatePeriod)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12003 {
		t.Errorf("expected error code 12003, got %d", resp.Code)
	}
}

func TestPeriodHandler_GetPeriod_NotFound(t *testing.T) {
	h := NewPeriodHandler(&mockPeriodService{getErr: service.ErrPeriodNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/periods/period-x", nil)

	r := gin.New()
	r.GET("/periods/:id", setAuth("admin"), h.GetPeriod)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportGradeSheet_Success(t *testing.T) {
	mock := &mockExportService{
		sheetBuf:      bytes.NewBufferString("xlsx-bytes"),
		sheetFilename: "成绩表_期中_10A1_数学.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/grade-sheet?period_id=p1&class_id=c1&subject_id=s1", nil)

	r := gin.New()
	r.GET("/export/grade-sheet", setAuth("admin"), h.ExportGradeSheet)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected Content-Disposition header to be set")
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("expected xlsx content type, got %s", ct)
	}
}

func TestExportHandler_ExportGradeSheet_MissingParams(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/grade-sheet?period_id=p1", nil)

	r := gin.New()
	r.GET("/export/grade-sheet", setAuth("admin"), h.ExportGradeSheet)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_ExportPeriodCalendar_NoPeriods(t *testing.T) {
	h := NewExportHandler(&mockExportService{calErr: service.ErrExportNoPeriods})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/period-calendar?semester_id=sem-1", nil)

	r := gin.New()
	r.GET("/export/period-calendar", setAuth("teacher"), h.ExportPeriodCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16002 {
		t.Errorf("expected error code 16002, got %d", resp.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
