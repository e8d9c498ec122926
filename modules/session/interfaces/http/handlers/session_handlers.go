// Package handlers implements the thin HTTP surface over the session
// module's application layer, grounded structurally on the teacher's
// modules/user/interfaces/http/handlers/user_handlers.go (Gin handler
// methods on a struct holding narrow application dependencies, DTOs at
// the boundary, errors funnelled through one translation point).
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coachtranscribe/engine/modules/session/application/commands"
	"github.com/coachtranscribe/engine/modules/session/application/export"
	"github.com/coachtranscribe/engine/modules/session/application/queries"
	"github.com/coachtranscribe/engine/modules/session/domain/entities"
	"github.com/coachtranscribe/engine/modules/session/interfaces/http/dtos"
	userentities "github.com/coachtranscribe/engine/modules/user/domain/entities"
)

// SessionHandlers wires one Gin handler method per spec.md §6 RPC.
type SessionHandlers struct {
	createSession       *commands.CreateSessionHandler
	requestUploadURL    *commands.RequestUploadURLHandler
	confirmUpload       *commands.ConfirmUploadHandler
	startTranscription  *commands.StartTranscriptionHandler
	retryTranscription  *commands.RetryTranscriptionHandler
	cancel              *commands.CancelHandler
	roles               *commands.RoleHandler
	uploadTranscript    *commands.UploadTranscriptHandler
	getStatus           *queries.GetStatusHandler
	getSession          *queries.GetSessionHandler
	listSessions        *queries.ListSessionsHandler
	exportTranscript    *queries.ExportTranscriptHandler
}

func NewSessionHandlers(
	createSession *commands.CreateSessionHandler,
	requestUploadURL *commands.RequestUploadURLHandler,
	confirmUpload *commands.ConfirmUploadHandler,
	startTranscription *commands.StartTranscriptionHandler,
	retryTranscription *commands.RetryTranscriptionHandler,
	cancel *commands.CancelHandler,
	roles *commands.RoleHandler,
	uploadTranscript *commands.UploadTranscriptHandler,
	getStatus *queries.GetStatusHandler,
	getSession *queries.GetSessionHandler,
	listSessions *queries.ListSessionsHandler,
	exportTranscript *queries.ExportTranscriptHandler,
) *SessionHandlers {
	return &SessionHandlers{
		createSession: createSession, requestUploadURL: requestUploadURL,
		confirmUpload: confirmUpload, startTranscription: startTranscription,
		retryTranscription: retryTranscription, cancel: cancel, roles: roles,
		uploadTranscript: uploadTranscript, getStatus: getStatus,
		getSession: getSession, listSessions: listSessions,
		exportTranscript: exportTranscript,
	}
}

// ownerID reads the caller's id from the context the auth middleware
// populated (spec.md §6 "ownership-scoped"); every handler below scopes
// its application call to it.
func ownerID(c *gin.Context) (string, bool) {
	raw, exists := c.Get("user")
	if !exists {
		return "", false
	}
	user, ok := raw.(*userentities.User)
	if !ok {
		return "", false
	}
	return user.GetID(), true
}

func (h *SessionHandlers) CreateSession(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.createSession.Handle(c.Request.Context(), commands.CreateSessionCommand{
		OwnerID: owner, Title: req.Title, Language: req.Language, Provider: req.Provider,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.ToSessionResponse(result.Session))
}

func (h *SessionHandlers) ListSessions(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var status *entities.Status
	if raw := c.Query("status"); raw != "" {
		s := entities.Status(raw)
		status = &s
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sessions, err := h.listSessions.Handle(c.Request.Context(), queries.ListSessionsQuery{
		OwnerID: owner, Status: status, Limit: limit, Offset: offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.ToListSessionsResponse(sessions))
}

func (h *SessionHandlers) GetSession(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	session, err := h.getSession.Handle(c.Request.Context(), queries.GetSessionQuery{
		SessionID: c.Param("id"), OwnerID: owner,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.ToSessionResponse(session))
}

func (h *SessionHandlers) RequestUploadURL(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.requestUploadURL.Handle(c.Request.Context(), commands.RequestUploadURLCommand{
		SessionID: c.Param("id"), OwnerID: owner,
		Filename: req.Filename, ContentType: req.ContentType,
		FileSizeMB: req.FileSizeMB, Ext: req.Ext,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandlers) ConfirmUpload(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.confirmUpload.Handle(c.Request.Context(), commands.ConfirmUploadCommand{
		SessionID: c.Param("id"), OwnerID: owner, Filename: req.Filename,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandlers) StartTranscription(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.StartTranscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.startTranscription.Handle(c.Request.Context(), commands.StartTranscriptionCommand{
		SessionID: c.Param("id"), OwnerID: owner,
		EstimatedMinutes: req.EstimatedMinutes, Diarize: req.Diarize,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandlers) RetryTranscription(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.RetryTranscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.retryTranscription.Handle(c.Request.Context(), commands.RetryTranscriptionCommand{
		SessionID: c.Param("id"), OwnerID: owner,
		EstimatedMinutes: req.EstimatedMinutes, Diarize: req.Diarize,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"job_id": result.SessionID, "status": result.Status, "provider": result.Provider, "retry": true,
	})
}

func (h *SessionHandlers) Cancel(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.cancel.Handle(c.Request.Context(), commands.CancelCommand{
		SessionID: c.Param("id"), OwnerID: owner,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandlers) GetStatus(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	result, err := h.getStatus.Handle(c.Request.Context(), queries.GetStatusQuery{
		SessionID: c.Param("id"), OwnerID: owner,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandlers) PutSpeakerRoles(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.PutSpeakerRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roles.PutSpeakerRoles(c.Request.Context(), commands.PutSpeakerRolesCommand{
		SessionID: c.Param("id"), OwnerID: owner, Roles: req.Roles,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandlers) PutSegmentRoles(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.PutSegmentRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roles.PutSegmentRoles(c.Request.Context(), commands.PutSegmentRolesCommand{
		SessionID: c.Param("id"), OwnerID: owner, Roles: req.Roles,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandlers) UploadTranscript(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req dtos.UploadTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.uploadTranscript.Handle(c.Request.Context(), commands.UploadTranscriptCommand{
		SessionID: c.Param("id"), OwnerID: owner,
		Filename: req.Filename, Content: req.Content,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandlers) ExportTranscript(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	format := export.Format(c.Query("format"))
	if format == "" {
		format = export.FormatJSON
	}

	result, err := h.exportTranscript.Handle(c.Request.Context(), queries.ExportTranscriptQuery{
		SessionID: c.Param("id"), OwnerID: owner, Format: format,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
