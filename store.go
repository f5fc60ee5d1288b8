package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// leadCollection must match the public path the React UI reads from.
const leadCollection = "artifacts/job-finder-app/public/data/job_leads"

// LeadStore writes accepted leads to Firestore. Write-only: each lead becomes
// its own document with a generated ID.
type LeadStore struct {
	client *firestore.Client
	userID string
}

// NewLeadStore builds a Firestore client from the FIREBASE_CREDENTIALS JSON
// blob. The project id is read out of the blob itself.
func NewLeadStore(ctx context.Context, credsJSON, userID string) (*LeadStore, error) {
	var creds struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(credsJSON), &creds); err != nil {
		return nil, fmt.Errorf("failed to parse FIREBASE_CREDENTIALS: %w", err)
	}
	if creds.ProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS is missing project_id")
	}

	client, err := firestore.NewClient(ctx, creds.ProjectID, option.WithCredentialsJSON([]byte(credsJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &LeadStore{client: client, userID: userID}, nil
}

// SaveLeads stamps each lead with the current time and the configured user id
// and writes it as its own document. A single failed write is logged and
// skipped, never fatal to the batch. Returns the number of leads saved.
func (s *LeadStore) SaveLeads(ctx context.Context, leads []JobLead) int {
	col := s.client.Collection(leadCollection)
	saved := 0
	for _, lead := range leads {
		docRef, _, err := col.Add(ctx, leadDoc(lead, s.userID))
		if err != nil {
			log.Printf("failed to save lead %q: %v", lead.Title, err)
			continue
		}
		log.Printf("saved lead %q at %s", lead.Title, docRef.ID)
		saved++
	}
	return saved
}

func (s *LeadStore) Close() error {
	return s.client.Close()
}

// leadDoc stamps a lead with the current time and the owning user and shapes
// it for Firestore. Field names must stay lowercase for the UI, so the
// document is a map rather than the struct (the SDK ignores json tags).
func leadDoc(lead JobLead, userID string) map[string]any {
	doc := map[string]any{
		"title":     lead.Title,
		"company":   lead.Company,
		"summary":   lead.Summary,
		"url":       lead.URL,
		"timestamp": time.Now().Format(time.RFC3339),
		"userId":    userID,
	}
	if lead.Location != "" {
		doc["location"] = lead.Location
	}
	if lead.Mandate != "" {
		doc["mandate"] = lead.Mandate
	}
	if lead.RelevanceScore != 0 {
		doc["relevance_score"] = lead.RelevanceScore
	}
	return doc
}
