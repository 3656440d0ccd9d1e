package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"voicepad/internal/pipeline"
	"voicepad/internal/storage"
	"voicepad/internal/utils"
)

// maxUploadBytes caps recording uploads at 25MB, plenty for short clips.
const maxUploadBytes = 25 * 1024 * 1024

// index renders the recorder page with the persisted artifact families.
func (s *Server) index(c *gin.Context) {
	recordings, err := s.Store.ListRecordings()
	if err != nil {
		s.Log.WithError(err).Error("failed to list recordings")
	}
	synthesized, err := s.Store.ListSynthesized()
	if err != nil {
		s.Log.WithError(err).Error("failed to list synthesized audio")
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Recordings":  recordings,
		"Synthesized": synthesized,
	})
}

// uploadAudio handles the audio-in path: store the raw clip, then run the
// processing pipeline on it.
func (s *Server) uploadAudio(c *gin.Context) {
	log := s.Log.WithRequest(c.Request)

	file, err := c.FormFile("audio_data")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "no audio data provided")
		return
	}
	if file.Filename == "" {
		utils.Error(c, http.StatusBadRequest, "no file selected")
		return
	}
	if !storage.IsAudioFile(file.Filename) {
		utils.Error(c, http.StatusBadRequest, "unsupported audio format. Supported: wav, mp3, webm")
		return
	}
	if file.Size > maxUploadBytes {
		utils.Error(c, http.StatusBadRequest, "file size exceeds 25MB limit")
		return
	}

	src, err := file.Open()
	if err != nil {
		log.WithError(err).Error("failed to open upload")
		utils.Error(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer src.Close()

	id := storage.NewID()
	rawPath, err := s.Store.SaveUpload(src, id, filepath.Ext(file.Filename))
	if err != nil {
		log.WithError(err).Error("failed to save upload")
		utils.Error(c, http.StatusInternalServerError, "failed to save audio file")
		return
	}

	result, err := s.Pipeline.ProcessUpload(c.Request.Context(), rawPath)
	if err != nil {
		kind := pipeline.KindOf(err)
		log.WithError(err).WithField("kind", string(kind)).Warn("upload pipeline aborted")
		utils.Error(c, statusForKind(kind), err.Error())
		return
	}

	log.WithField("run_id", result.ID).Info("upload processed")
	utils.Success(c, gin.H{
		"processed_file":          result.MP3File,
		"transcription_file":      result.TranscriptFile,
		"sentiment_analysis_file": result.SentimentFile,
		"transcript":              result.Transcript,
		"sentiment":               result.Sentiment,
	})
}

// textToSpeech handles the text-in path.
func (s *Server) textToSpeech(c *gin.Context) {
	log := s.Log.WithRequest(c.Request)

	result, err := s.Pipeline.ProcessText(c.Request.Context(), c.PostForm("text"))
	if err != nil {
		kind := pipeline.KindOf(err)
		log.WithError(err).WithField("kind", string(kind)).Warn("text pipeline aborted")
		utils.Error(c, statusForKind(kind), err.Error())
		return
	}

	log.WithField("run_id", result.ID).Info("text processed")
	utils.Success(c, gin.H{
		"tts_audio":      result.AudioFile,
		"sentiment_file": result.SentimentFile,
		"sentiment":      result.Sentiment,
	})
}

// serveArtifact returns a persisted artifact by filename, routed by
// extension to the right storage area.
func (s *Server) serveArtifact(c *gin.Context) {
	path, err := s.Store.Resolve(c.Param("filename"))
	if err != nil {
		utils.Error(c, http.StatusNotFound, "file not found")
		return
	}
	c.File(path)
}
