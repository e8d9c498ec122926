package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coachtranscribe/engine/modules/session/interfaces/http/handlers"
	"github.com/coachtranscribe/engine/modules/user/interfaces/http/middleware"
)

// SessionRoutes mounts the session module's HTTP surface. Every route
// is behind Firebase auth: spec.md §6's request surface is entirely
// ownership-scoped, so there is no public counterpart here (unlike
// user_routes.go's SetupPublicRoutes/SetupProtectedRoutes split).
type SessionRoutes struct {
	handlers       *handlers.SessionHandlers
	authMiddleware *middleware.AuthMiddleware
}

func NewSessionRoutes(h *handlers.SessionHandlers, authMiddleware *middleware.AuthMiddleware) *SessionRoutes {
	return &SessionRoutes{handlers: h, authMiddleware: authMiddleware}
}

func (sr *SessionRoutes) Setup(router *gin.RouterGroup) {
	router.Use(sr.authMiddleware.FirebaseAuth())

	router.POST("/sessions", sr.handlers.CreateSession)
	router.GET("/sessions", sr.handlers.ListSessions)
	router.GET("/sessions/:id", sr.handlers.GetSession)
	router.GET("/sessions/:id/status", sr.handlers.GetStatus)
	router.POST("/sessions/:id/upload-url", sr.handlers.RequestUploadURL)
	router.POST("/sessions/:id/confirm-upload", sr.handlers.ConfirmUpload)
	router.POST("/sessions/:id/start", sr.handlers.StartTranscription)
	router.POST("/sessions/:id/retry", sr.handlers.RetryTranscription)
	router.POST("/sessions/:id/cancel", sr.handlers.Cancel)
	router.PUT("/sessions/:id/speaker-roles", sr.handlers.PutSpeakerRoles)
	router.PUT("/sessions/:id/segment-roles", sr.handlers.PutSegmentRoles)
	router.POST("/sessions/:id/transcript", sr.handlers.UploadTranscript)
	router.GET("/sessions/:id/export", sr.handlers.ExportTranscript)
}
