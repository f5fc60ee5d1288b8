package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"
)

// callTimeout bounds every outbound model call. Grounded search runs a live
// web search server-side, so this is generous.
const callTimeout = 90 * time.Second

// Finder is the AI dependency seen by handlers and workers.
type Finder interface {
	SearchLeads(ctx context.Context, query, resume string) ([]JobLead, error)
	AnalyzeJob(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
}

// GeminiFinder talks to the Gemini API. Search uses Google-Search grounding
// with prompt-instructed output (tools and response schemas are mutually
// exclusive), analysis uses schema-constrained generation.
type GeminiFinder struct {
	client *genai.Client
	model  string
}

func NewGeminiFinder(ctx context.Context, apiKey, model string) (*GeminiFinder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiFinder{client: client, model: model}, nil
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"pillar": {
			Type:        genai.TypeString,
			Description: "The specific AIF Pillar this job aligns with best.",
		},
		"relevance_score": {
			Type:        genai.TypeInteger,
			Description: "A score from 1 (low) to 10 (high) for mandate relevance.",
		},
		"justification": {
			Type:        genai.TypeString,
			Description: "A 2-sentence summary of why the job fits the mandate.",
		},
	},
	Required: []string{"pillar", "relevance_score", "justification"},
}

// SearchLeads asks the model for live job postings matching the query (and
// resume, when given). The raw text response goes through CleanJSON before
// parsing; the whole call is retried on the transient error set.
func (f *GeminiFinder) SearchLeads(ctx context.Context, query, resume string) ([]JobLead, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: searchSystemPrompt()}}},
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	prompt := searchUserPrompt(query, resume)

	return retryWithBackoff(ctx, maxAttempts, isRetryable, func() ([]JobLead, error) {
		resp, err := f.client.Models.GenerateContent(ctx, f.model, genai.Text(prompt), cfg)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, errNoCandidates
		}

		raw := resp.Text()
		if raw == "" {
			return nil, errEmptyResponse
		}
		cleaned := CleanJSON(raw)

		var leads []JobLead
		if err := json.Unmarshal([]byte(cleaned), &leads); err != nil {
			log.Printf("failed to decode model output: %v (raw: %s)", err, truncate(raw, 200))
			return nil, err
		}
		if err := validateLeads(leads); err != nil {
			log.Printf("model output failed validation: %v (raw: %s)", err, truncate(raw, 200))
			return nil, err
		}
		return leads, nil
	})
}

// AnalyzeJob scores a single posting against the mandate pillars. The API
// enforces the output shape, so no sanitizer pass is needed.
func (f *GeminiFinder) AnalyzeJob(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: analyzeSystemPrompt()}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    analysisSchema,
	}
	prompt := analyzeUserPrompt(req.JobTitle, req.Company, req.JobDetails)

	return retryWithBackoff(ctx, maxAttempts, isRetryable, func() (*AnalysisResult, error) {
		resp, err := f.client.Models.GenerateContent(ctx, f.model, genai.Text(prompt), cfg)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, errNoCandidates
		}

		raw := resp.Text()
		if raw == "" {
			return nil, errEmptyResponse
		}
		var result AnalysisResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			log.Printf("failed to decode analysis output: %v (raw: %s)", err, truncate(raw, 200))
			return nil, err
		}
		if result.RelevanceScore < 1 || result.RelevanceScore > 10 {
			return nil, fmt.Errorf("%w: relevance_score %d out of range", errMalformedOutput, result.RelevanceScore)
		}
		if result.Pillar == "" || result.Justification == "" {
			return nil, fmt.Errorf("%w: missing pillar or justification", errMalformedOutput)
		}
		return &result, nil
	})
}

// validateLeads checks the parsed value is a usable array of lead objects.
func validateLeads(leads []JobLead) error {
	if len(leads) == 0 {
		return fmt.Errorf("%w: empty lead array", errMalformedOutput)
	}
	for i, lead := range leads {
		if lead.Title == "" || lead.Company == "" || lead.Summary == "" || lead.URL == "" {
			return fmt.Errorf("%w: lead %d is missing required fields", errMalformedOutput, i)
		}
	}
	return nil
}

// isMalformed reports whether err is a data-shape failure (the model answered,
// but not with the expected structure) as opposed to a transport failure.
func isMalformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, errMalformedOutput) ||
		errors.Is(err, errEmptyResponse) ||
		errors.Is(err, errNoCandidates) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr)
}
