package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"voicepad/internal/api"
	"voicepad/internal/config"
	"voicepad/internal/gcp"
	"voicepad/internal/logger"
	"voicepad/internal/noise"
	"voicepad/internal/pipeline"
	"voicepad/internal/sentiment"
	"voicepad/internal/storage"
	"voicepad/internal/stt"
	"voicepad/internal/transcode"
	"voicepad/internal/tts"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	log := logger.New()
	log.WithField("service", "voicepad").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	store, err := storage.NewStore(cfg.UploadDir, cfg.TTSDir)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize artifact store")
	}

	auth, err := gcp.NewAuth(context.Background(), cfg.GoogleAPIKey, cfg.GoogleKeyFile, cfg.CallTimeout)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize Google credentials")
	}

	// Capability clients are constructed once and reused across requests.
	sttProvider, err := stt.NewProvider(cfg, auth)
	if err != nil {
		log.WithError(err).Fatal("failed to create STT provider")
	}
	log.WithField("provider", sttProvider.Name()).Info("stt provider initialized")

	analyzer, err := sentiment.NewAnalyzer(cfg, auth)
	if err != nil {
		log.WithError(err).Fatal("failed to create sentiment analyzer")
	}
	log.WithField("provider", analyzer.Name()).Info("sentiment analyzer initialized")

	proc := &pipeline.Pipeline{
		Transcoder:  transcode.NewTranscoder(cfg.FFmpegPath),
		Denoise:     noise.Reduce,
		STT:         sttProvider,
		Sentiment:   analyzer,
		TTS:         tts.NewGoogleSynthesizer(auth, cfg.LanguageCode),
		Store:       store,
		Log:         log,
		SampleRate:  cfg.SampleRate,
		MP3Bitrate:  cfg.MP3Bitrate,
		CallTimeout: cfg.CallTimeout,
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware())
	r.LoadHTMLGlob("web/templates/*")
	r.Static("/static", "web/static")

	api.RegisterRoutes(r, &api.Server{
		Pipeline: proc,
		Store:    store,
		Log:      log,
	})

	log.WithField("port", cfg.Port).Info("voicepad listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server terminated")
	}
}

// corsMiddleware adds CORS headers for browser recorder clients
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
