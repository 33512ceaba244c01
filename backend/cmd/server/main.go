package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moodlens/backend/internal/adapter"
	"moodlens/backend/internal/analysis"
	"moodlens/backend/internal/insights"
	"moodlens/backend/internal/store"
	"moodlens/backend/pkg/config"
	apperrors "moodlens/backend/pkg/errors"
	"moodlens/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting mood analysis API server...")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Failed to resolve timezone", zap.Error(err))
	}

	// Connect to Postgres
	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer st.Close()

	// Initialize providers
	providerTimeout := time.Duration(cfg.ProviderTimeout) * time.Second
	llm, err := adapter.NewLLMAnalyzer(cfg.LLMGatewayURL, cfg.LLMAPIKey, cfg.LLMModelID, cfg.ProviderRetries)
	if err != nil {
		log.Fatal("Failed to create LLM analyzer", zap.Error(err))
	}
	textEmotion := adapter.NewTextEmotionClient(cfg.TextEmotionURL, cfg.TextEmotionModel, cfg.HFAPIToken, cfg.ProviderRetries, providerTimeout)
	voiceEmotion := adapter.NewVoiceEmotionClient(cfg.VoiceEmotionURL, cfg.ProviderRetries, providerTimeout)
	stt := adapter.NewSTTClient(cfg.STTServiceURL, cfg.ProviderRetries, providerTimeout)

	svc := analysis.NewService(llm, textEmotion, voiceEmotion, stt, st, loc)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(svc, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port), zap.String("timezone", cfg.Timezone))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// analysisService is the surface the HTTP layer needs from the analysis
// service.
type analysisService interface {
	AnalyzeText(ctx context.Context, userID, content string) (*analysis.AnalysisResult, error)
	AnalyzeVoice(ctx context.Context, userID, filename string, audio []byte) (*analysis.AnalysisResult, error)
	CreateJournal(ctx context.Context, userID, content, selfEmotion string) (*store.JournalEntry, error)
	ListJournals(ctx context.Context, userID, from, to string) ([]store.JournalEntry, error)
	DailyInsights(ctx context.Context, userID, date string) (*insights.DailyReport, error)
	WeeklyInsights(ctx context.Context, userID, weekStart string) (*insights.WeeklyReport, error)
}

// newRouter wires middleware and all API routes
func newRouter(svc analysisService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Analyze a text message
		api.POST("/analyze/text", func(c *gin.Context) {
			var req struct {
				UserID  string `json:"user_id" binding:"required"`
				Content string `json:"content" binding:"required"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			result, err := svc.AnalyzeText(c.Request.Context(), req.UserID, req.Content)
			if err != nil {
				respondError(c, log, err, "Failed to analyze text")
				return
			}

			c.JSON(http.StatusOK, result)
		})

		// Analyze a voice note
		api.POST("/analyze/voice", func(c *gin.Context) {
			userID := c.PostForm("user_id")
			if userID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
				return
			}

			file, err := c.FormFile("audio")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
				return
			}

			src, err := file.Open()
			if err != nil {
				log.Error("Failed to open uploaded audio", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audio"})
				return
			}
			defer src.Close()

			audio, err := io.ReadAll(src)
			if err != nil {
				log.Error("Failed to read uploaded audio", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read audio"})
				return
			}

			result, err := svc.AnalyzeVoice(c.Request.Context(), userID, file.Filename, audio)
			if err != nil {
				respondError(c, log, err, "Failed to analyze voice note")
				return
			}

			c.JSON(http.StatusOK, result)
		})

		// Create a journal entry
		api.POST("/journal", func(c *gin.Context) {
			var req struct {
				UserID  string `json:"user_id" binding:"required"`
				Content string `json:"content" binding:"required"`
				Emotion string `json:"emotion"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			entry, err := svc.CreateJournal(c.Request.Context(), req.UserID, req.Content, req.Emotion)
			if err != nil {
				respondError(c, log, err, "Failed to create journal entry")
				return
			}

			c.JSON(http.StatusCreated, entry)
		})

		// List journal entries for a local date range
		api.GET("/journal", func(c *gin.Context) {
			userID := c.Query("user_id")
			if userID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
				return
			}

			entries, err := svc.ListJournals(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
			if err != nil {
				respondError(c, log, err, "Failed to list journal entries")
				return
			}
			if entries == nil {
				entries = []store.JournalEntry{}
			}

			c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
		})

		// Daily insight report
		api.GET("/insights/daily", func(c *gin.Context) {
			userID := c.Query("user_id")
			if userID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
				return
			}

			report, err := svc.DailyInsights(c.Request.Context(), userID, c.Query("date"))
			if err != nil {
				respondError(c, log, err, "Failed to build daily insights")
				return
			}

			c.JSON(http.StatusOK, report)
		})

		// Weekly insight report
		api.GET("/insights/weekly", func(c *gin.Context) {
			userID := c.Query("user_id")
			if userID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
				return
			}

			report, err := svc.WeeklyInsights(c.Request.Context(), userID, c.Query("start"))
			if err != nil {
				respondError(c, log, err, "Failed to build weekly insights")
				return
			}

			c.JSON(http.StatusOK, report)
		})
	}

	return router
}

// respondError maps service errors to HTTP statuses. Input problems echo
// their message back to the caller; everything else stays generic.
func respondError(c *gin.Context, log *zap.Logger, err error, msg string) {
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeProvider),
		apperrors.IsErrorType(err, apperrors.ErrorTypeTranscription):
		log.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	default:
		log.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
