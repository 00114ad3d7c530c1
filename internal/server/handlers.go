package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"overviewly/internal/core"
	"overviewly/internal/generate"
	"overviewly/internal/render"
)

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Topic       string `json:"topic"`
	Provider    string `json:"provider,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// GenerateResponse reports the created article.
type GenerateResponse struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	ViewURL   string `json:"view_url"`
}

// TestConnectionRequest is the body of POST /api/test-connection.
type TestConnectionRequest struct {
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// ArticleSummary is one entry of the article listing.
type ArticleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	Category    string `json:"category"`
	DateCreated string `json:"date_created"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps pipeline errors to HTTP statuses: configuration
// problems are the caller's to fix, provider failures are upstream.
func errorStatus(err error) int {
	var cfgErr *core.ConfigError
	if errors.As(err, &cfgErr) {
		return http.StatusBadRequest
	}
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerate handles POST /api/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		s.respondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	articleID, err := s.generator.Generate(r.Context(), req.Topic, generate.Options{
		Provider:    core.ProviderID(req.Provider),
		APIKey:      req.APIKey,
		ContentType: core.ContentType(req.ContentType),
	})
	if err != nil {
		s.log.Error("Generation failed", "topic", req.Topic, "error", err)
		s.respondError(w, errorStatus(err), err.Error())
		return
	}

	article, err := s.store.GetArticle(articleID)
	if err != nil || article == nil {
		s.respondError(w, http.StatusInternalServerError, "article not found after creation")
		return
	}

	s.respondJSON(w, http.StatusCreated, GenerateResponse{
		ArticleID: article.ID,
		Title:     article.Title,
		ViewURL:   render.Permalink(s.cfg, article.ID),
	})
}

// handleTestConnection handles POST /api/test-connection
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req TestConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := generate.TestConnection(r.Context(), s.cfg, core.ProviderID(req.Provider), req.APIKey)
	if err != nil {
		s.respondError(w, errorStatus(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// handleListArticles handles GET /api/articles
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticles(50)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list articles")
		return
	}

	summaries := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, ArticleSummary{
			ID:          a.ID,
			Title:       a.Title,
			Status:      a.Status,
			Category:    a.Category,
			DateCreated: a.DateCreated.Format("2006-01-02 15:04:05"),
		})
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"articles": summaries})
}

// handleGetArticle handles GET /api/articles/{id}
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticle(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load article")
		return
	}
	if article == nil {
		s.respondError(w, http.StatusNotFound, "article not found")
		return
	}
	s.respondJSON(w, http.StatusOK, article)
}

// handleArticleSchema handles GET /api/articles/{id}/schema, returning the
// raw derived JSON-LD for the article.
func (s *Server) handleArticleSchema(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticle(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load article")
		return
	}
	if article == nil {
		s.respondError(w, http.StatusNotFound, "article not found")
		return
	}

	kinds := render.SchemaKinds(s.store, article.ID)
	if len(kinds) == 0 {
		s.respondError(w, http.StatusNotFound, "no schema kinds stored for article")
		return
	}

	derived := render.Deriver(s.cfg).Derive(render.SchemaInput(s.store, s.cfg, *article), kinds)
	w.Header().Set("Content-Type", "application/ld+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(derived); err != nil {
		s.log.Error("Failed to encode schema", "article_id", article.ID, "error", err)
	}
}

// handleArticlePage handles GET /articles/{id}, the rendered HTML page with
// the JSON-LD block embedded in the head.
func (s *Server) handleArticlePage(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticle(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "failed to load article", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(render.ArticlePage(s.store, s.cfg, *article))); err != nil {
		s.log.Error("Failed to write article page", "article_id", article.ID, "error", err)
	}
}
