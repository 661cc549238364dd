// Package server is the stateless HTTP front end. Handlers validate input,
// delegate to the fetch service or the mailbox client, and translate the
// outcome into a {success, ...} JSON envelope. All domain logic lives below.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codemail/internal/fetch"
	"codemail/internal/gmail"
)

const serviceName = "Gmail API Server"

const (
	defaultSearchQuery      = "from:openai.com newer_than:1h"
	defaultSearchMaxResults = 10
	maxDetailedEmails       = 5
	previewRunes            = 200
)

const shutdownGrace = 5 * time.Second

type Server struct {
	Fetcher *fetch.Service
	Client  gmail.Client
	Log     *slog.Logger
}

func New(fetcher *fetch.Service, client gmail.Client, log *slog.Logger) *Server {
	return &Server{Fetcher: fetcher, Client: client, Log: log}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.health)
	r.POST("/fetch-code", s.fetchCode)
	r.POST("/search-emails", s.searchEmails)
	r.GET("/test-connection", s.testConnection)

	return r
}

// ListenAndServe runs the HTTP server until ctx is canceled, then drains
// in-flight requests and returns. A graceful stop returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"service":         serviceName,
		"gmail_api_ready": s.Fetcher != nil && s.Fetcher.Client != nil,
	})
}

type fetchCodeRequest struct {
	TargetEmail string `json:"target_email"`
	HoursBack   int    `json:"hours_back"`
}

func (s *Server) fetchCode(c *gin.Context) {
	var req fetchCodeRequest
	// A literal {} counts as an empty request, same as no body at all.
	if err := c.ShouldBindJSON(&req); err != nil || req == (fetchCodeRequest{}) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "请求数据为空"})
		return
	}
	if req.TargetEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "缺少target_email参数"})
		return
	}
	if s.Fetcher == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Gmail API未初始化"})
		return
	}

	s.Log.Info("fetch-code request", "target_email", req.TargetEmail, "hours_back", req.HoursBack)

	code, err := s.Fetcher.FetchCode(c.Request.Context(), req.TargetEmail, req.HoursBack)
	if err != nil {
		s.Log.Error("fetch-code failed", "target_email", req.TargetEmail, "error", err)
		msg := err.Error()
		if errors.Is(err, fetch.ErrNotInitialized) {
			msg = "Gmail API未初始化"
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
		return
	}
	if code == "" {
		s.Log.Warn("no verification code found", "target_email", req.TargetEmail)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "未找到验证码"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "code": code, "target_email": req.TargetEmail})
}

type searchEmailsRequest struct {
	Query      string `json:"query"`
	MaxResults int64  `json:"max_results"`
}

type emailSummary struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Date        string `json:"date"`
	BodyPreview string `json:"body_preview"`
}

func (s *Server) searchEmails(c *gin.Context) {
	var req searchEmailsRequest
	// A literal {} counts as an empty request, same as no body at all.
	if err := c.ShouldBindJSON(&req); err != nil || req == (searchEmailsRequest{}) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "请求数据为空"})
		return
	}
	if s.Client == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Gmail API未初始化"})
		return
	}
	if req.Query == "" {
		req.Query = defaultSearchQuery
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultSearchMaxResults
	}

	s.Log.Info("search-emails request", "query", req.Query, "max_results", req.MaxResults)

	refs := s.Client.Search(c.Request.Context(), gmail.Query{Raw: req.Query}, req.MaxResults)

	detail := refs
	if len(detail) > maxDetailedEmails {
		detail = detail[:maxDetailedEmails]
	}
	emails := make([]emailSummary, 0, len(detail))
	for _, ref := range detail {
		msg := s.Client.Get(c.Request.Context(), ref.ID)
		if msg == nil {
			continue
		}
		emails = append(emails, emailSummary{
			ID:          string(msg.ID),
			From:        msg.From,
			To:          msg.To,
			Subject:     msg.Subject,
			Date:        msg.Date,
			BodyPreview: preview(msg.Body),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"total_found": len(refs),
		"emails":      emails,
	})
}

func (s *Server) testConnection(c *gin.Context) {
	if s.Client == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Gmail API未初始化"})
		return
	}
	p, err := s.Client.Profile(c.Request.Context())
	if err != nil {
		s.Log.Error("profile lookup failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"email":          p.EmailAddress,
		"messages_total": p.MessagesTotal,
		"threads_total":  p.ThreadsTotal,
	})
}

// preview truncates to 200 characters, counting runes so a multibyte body is
// never cut mid-character.
func preview(body string) string {
	r := []rune(body)
	if len(r) <= previewRunes {
		return body
	}
	return string(r[:previewRunes]) + "..."
}
