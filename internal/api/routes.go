package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voicepad/internal/logger"
	"voicepad/internal/pipeline"
	"voicepad/internal/storage"
	"voicepad/internal/utils"
)

// Server wires the pipeline and artifact store into the HTTP surface.
type Server struct {
	Pipeline *pipeline.Pipeline
	Store    *storage.Store
	Log      *logger.Logger
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	r.GET("/health", s.healthCheck)
	r.GET("/", s.index)
	r.POST("/upload", s.uploadAudio)
	r.POST("/text_to_speech", s.textToSpeech)
	r.GET("/uploads/:filename", s.serveArtifact)
	r.GET("/tts/:filename", s.serveArtifact)
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "voicepad",
	})
}

// statusForKind maps pipeline failure kinds to HTTP statuses. External
// capability failures are bad-gateway class; bad input and silence are the
// caller's problem.
func statusForKind(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindInvalidInput:
		return http.StatusBadRequest
	case pipeline.KindNoSpeech:
		return http.StatusUnprocessableEntity
	case pipeline.KindStorage:
		return http.StatusInternalServerError
	case pipeline.KindConversion, pipeline.KindTranscription,
		pipeline.KindSentiment, pipeline.KindSynthesis:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
