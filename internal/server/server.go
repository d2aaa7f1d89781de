// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/docextract"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/pipeline"
)

const (
	UploadPath = "/api/resume/upload"
	HealthPath = "/healthz"

	defaultBodyLimit = 10 * 1024 * 1024

	msgNoFilePart     = "No file part in the request"
	msgNoSelectedFile = "No selected file"
	msgUnsupported    = "Unsupported file format"
	msgNoJD           = "Job description is required"
	msgEmptyResume    = "Could not extract any text from the uploaded resume"
)

// Runner executes the pipeline for one upload.
type Runner interface {
	Run(ctx context.Context, resume, jobDescription string) pipeline.Result
}

// Config tunes the HTTP listener.
type Config struct {
	// BodyLimit caps the request size in bytes.
	BodyLimit int
}

// Server is the fiber application serving the upload API.
type Server struct {
	app    *fiber.App
	runner Runner
	logger *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the application and registers its routes.
func New(runner Runner, log *zap.Logger, cfg Config) (*Server, error) {
	if runner == nil {
		return nil, errors.New("pipeline runner is required")
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = defaultBodyLimit
	}

	s := &Server{
		runner: runner,
		logger: logger.OrNop(log),
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(fiberRecover.New())
	s.app.Use(s.logRequests)

	s.app.Get(HealthPath, s.health)
	s.app.Post(UploadPath, s.upload)

	return s, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func (s *Server) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, msgNoFilePart)
	}
	if file.Filename == "" {
		return badRequest(c, msgNoSelectedFile)
	}
	if !docextract.Allowed(file.Filename) {
		return badRequest(c, msgUnsupported)
	}

	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		return badRequest(c, msgNoJD)
	}

	f, err := file.Open()
	if err != nil {
		return badRequest(c, fmt.Sprintf("Failed to read the resume: %v", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, fmt.Sprintf("Failed to read the resume: %v", err))
	}

	resume, err := docextract.Extract(file.Filename, data)
	switch {
	case errors.Is(err, docextract.ErrEmptyDocument):
		return badRequest(c, msgEmptyResume)
	case errors.Is(err, docextract.ErrUnsupportedFormat):
		return badRequest(c, msgUnsupported)
	case err != nil:
		return badRequest(c, fmt.Sprintf("Failed to parse the resume: %v", err))
	}

	res := s.runner.Run(c.UserContext(), resume, jobDescription)

	s.logger.Info("pipeline finished",
		zap.String(logger.FieldRunID, res.RunID),
		zap.String("state", string(res.State)),
		zap.Int("status", res.StatusCode()),
	)

	return c.Status(res.StatusCode()).JSON(res)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Debug("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)

	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := fmt.Sprintf("An unexpected error occurred: %v", err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(code).JSON(errorResponse{Error: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: message})
}
