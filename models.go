package main

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/vcaboara/jobleadfinder/internal/database"
)

// JobLead is the canonical lead record. The AI returns the first five fields;
// Mandate and RelevanceScore are filled when the lead came through the
// analyzer, Timestamp and UserID when it is persisted.
type JobLead struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location,omitempty"`
	Summary        string `json:"summary"`
	URL            string `json:"url"`
	Mandate        string `json:"mandate,omitempty"`
	RelevanceScore int    `json:"relevance_score,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	UserID         string `json:"userId,omitempty"`
}

type SearchRequest struct {
	Query  string `json:"query"`
	Resume string `json:"resume,omitempty"`
}

type SearchResponse struct {
	Jobs    []JobLead `json:"jobs"`
	Message string    `json:"message"`
}

type AnalyzeRequest struct {
	JobTitle   string `json:"job_title"`
	Company    string `json:"company"`
	JobDetails string `json:"job_details"`
}

type AnalysisResult struct {
	Pillar         string `json:"pillar"`
	RelevanceScore int    `json:"relevance_score"`
	Justification  string `json:"justification"`
}

// SearchJob is the queue message consumed by the worker pool. The resume is
// referenced by object key and fetched from R2, never inlined in the message.
type SearchJob struct {
	ID              uuid.UUID `json:"id"`
	Query           string    `json:"query"`
	ResumeObjectKey string    `json:"resume_object_key,omitempty"`
	ResumeMime      string    `json:"resume_mime,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// App bundles every dependency a handler or worker needs. Constructed once in
// main and passed explicitly; tests build their own with stubs.
type App struct {
	Config     *Config
	Finder     Finder
	Store      *LeadStore
	DB         *database.Queries
	AwsConfig  *aws.Config
	RabbitConn *amqp.Connection
}

// mockLeads seeds /api/leads when no database is configured.
var mockLeads = []JobLead{
	{
		Title:   "AI/ML Engineer - Platform",
		Company: "Arboreum Corp",
		Summary: "Build and operate the ML platform behind climate-risk models.",
		URL:     "#",
		Mandate: "Pillar 1: Climate Resilience",
	},
	{
		Title:   "DevOps Specialist - Infrastructure",
		Company: "Impact Fund X",
		Summary: "Own CI/CD and infrastructure automation for grant-management systems.",
		URL:     "#",
		Mandate: "Pillar 4: Systemic Reform (Including Immigrants, Orphans/Ages, Veterans, and Native American support)",
	},
	{
		Title:   "Data Scientist - Agricultural Robotics",
		Company: "Tech for Good Initiative",
		Summary: "Analyze field-robot telemetry to improve regenerative farming yields.",
		URL:     "#",
		Mandate: "Pillar 2: Sustainable Agriculture",
	},
}
