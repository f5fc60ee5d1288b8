package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/vcaboara/jobleadfinder/internal/database"
)

func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("POST /search", a.handleSearch)
	mux.HandleFunc("GET /api/leads", a.handleLeads)
	mux.HandleFunc("POST /api/generate-lead", a.handleGenerateLead)
	mux.HandleFunc("GET /api/mandates", a.handleMandates)
	mux.HandleFunc("POST /api/analyze", a.handleAnalyze)
	return cors(mux)
}

// cors is wide open: the React UI is served from a different origin and the
// API carries no credentials.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the AI Job Lead Finder. POST /search to run a grounded job search.",
	})
}

func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "Search query cannot be empty.")
		return
	}
	if a.Finder == nil {
		writeError(w, http.StatusServiceUnavailable, "Gemini client not initialized. Check GEMINI_API_KEY.")
		return
	}

	log.Printf("received search query: %q", req.Query)

	leads, err := a.Finder.SearchLeads(r.Context(), req.Query, req.Resume)
	if err != nil {
		a.writeSearchError(w, err)
		return
	}

	a.persistLeads(r.Context(), leads)

	writeJSON(w, http.StatusOK, SearchResponse{
		Jobs:    leads,
		Message: fmt.Sprintf("Search successful. Found %d leads.", len(leads)),
	})
}

func (a *App) writeSearchError(w http.ResponseWriter, err error) {
	a.writeAIError(w, err, "AI returned malformed or non-array content. Please try a more specific query.")
}

func (a *App) writeAnalyzeError(w http.ResponseWriter, err error) {
	a.writeAIError(w, err, "AI returned malformed or incomplete analysis content. Please try again.")
}

// writeAIError keeps the three AI failure categories distinguishable to the
// caller: malformed output (per-endpoint message, since search expects an
// array and analyze an object), upstream API failure, everything else.
func (a *App) writeAIError(w http.ResponseWriter, err error, malformedMsg string) {
	var apiErr genai.APIError
	switch {
	case isMalformed(err):
		log.Printf("malformed AI output: %v", err)
		writeError(w, http.StatusInternalServerError, malformedMsg)
	case errors.As(err, &apiErr):
		log.Printf("gemini API error: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Gemini API failed: %s", apiErr.Message))
	default:
		log.Printf("unexpected search error: %v", err)
		writeError(w, http.StatusInternalServerError, "An unexpected server error occurred.")
	}
}

// persistLeads fans the accepted leads out to whichever stores are
// configured. Persistence failures never fail the request.
func (a *App) persistLeads(ctx context.Context, leads []JobLead) {
	if a.Store != nil {
		saved := a.Store.SaveLeads(ctx, leads)
		log.Printf("saved %d/%d leads to firestore", saved, len(leads))
	}
	if a.DB != nil {
		a.recordLeads(ctx, leads)
	}
}

// recordLeads writes leads to Postgres one by one, logging and skipping
// individual failures.
func (a *App) recordLeads(ctx context.Context, leads []JobLead) {
	for _, lead := range leads {
		err := a.DB.CreateLead(ctx, database.CreateLeadParams{
			ID:             uuid.New(),
			Title:          lead.Title,
			Company:        lead.Company,
			Location:       sql.NullString{String: lead.Location, Valid: lead.Location != ""},
			Summary:        lead.Summary,
			Url:            lead.URL,
			Mandate:        sql.NullString{String: lead.Mandate, Valid: lead.Mandate != ""},
			RelevanceScore: sql.NullInt32{Int32: int32(lead.RelevanceScore), Valid: lead.RelevanceScore != 0},
			UserID:         a.Config.UserID,
		})
		if err != nil {
			log.Printf("failed to record lead %q: %v", lead.Title, err)
		}
	}
}

func (a *App) handleLeads(w http.ResponseWriter, r *http.Request) {
	if a.DB == nil {
		writeJSON(w, http.StatusOK, mockLeads)
		return
	}

	rows, err := a.DB.GetLeads(r.Context())
	if err != nil {
		log.Printf("failed to list leads: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load stored leads.")
		return
	}
	leads := make([]JobLead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, JobLead{
			Title:          row.Title,
			Company:        row.Company,
			Location:       row.Location.String,
			Summary:        row.Summary,
			URL:            row.Url,
			Mandate:        row.Mandate.String,
			RelevanceScore: int(row.RelevanceScore.Int32),
			Timestamp:      row.CreatedAt.Format(time.RFC3339),
			UserID:         row.UserID,
		})
	}
	writeJSON(w, http.StatusOK, leads)
}

func (a *App) handleGenerateLead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt cannot be empty.")
		return
	}

	// With a broker attached this is a real trigger; without one it stays the
	// placeholder echo.
	if a.RabbitConn != nil {
		job := SearchJob{ID: uuid.New(), Query: req.Prompt, CreatedAt: time.Now()}
		if err := enqueueSearchJob(a.RabbitConn, job); err != nil {
			log.Printf("failed to enqueue search job: %v", err)
			writeError(w, http.StatusServiceUnavailable, "Failed to queue generation job.")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "queued",
			"id":     job.ID.String(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("AI generation triggered for prompt: '%s'", req.Prompt),
	})
}

func (a *App) handleMandates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, aifMandates)
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}
	if req.JobTitle == "" || req.JobDetails == "" {
		writeError(w, http.StatusBadRequest, "job_title and job_details are required.")
		return
	}
	if a.Finder == nil {
		writeError(w, http.StatusServiceUnavailable, "Gemini client not initialized. Check GEMINI_API_KEY.")
		return
	}

	result, err := a.Finder.AnalyzeJob(r.Context(), req)
	if err != nil {
		a.writeAnalyzeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
