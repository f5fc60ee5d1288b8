package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidateLeads(t *testing.T) {
	ok := JobLead{Title: "t", Company: "c", Summary: "s", URL: "u"}

	if err := validateLeads([]JobLead{ok}); err != nil {
		t.Errorf("valid lead rejected: %v", err)
	}
	if err := validateLeads(nil); !errors.Is(err, errMalformedOutput) {
		t.Errorf("empty array: got %v", err)
	}

	missing := ok
	missing.URL = ""
	err := validateLeads([]JobLead{ok, missing})
	if !errors.Is(err, errMalformedOutput) {
		t.Fatalf("lead without url accepted: %v", err)
	}
	if !strings.Contains(err.Error(), "lead 1") {
		t.Errorf("error %q does not identify the bad lead", err)
	}
}

func TestIsMalformed(t *testing.T) {
	var decodeErr error
	if err := json.Unmarshal([]byte("Here you go: []"), &[]JobLead{}); err != nil {
		decodeErr = err
	}

	for _, err := range []error{
		errMalformedOutput,
		fmt.Errorf("%w: lead 0 is missing required fields", errMalformedOutput),
		errEmptyResponse,
		errNoCandidates,
		decodeErr,
		fmt.Errorf("after 5 attempts: %w", errEmptyResponse),
	} {
		if !isMalformed(err) {
			t.Errorf("isMalformed(%v) = false", err)
		}
	}

	for _, err := range []error{
		errors.New("connection refused"),
		errUnknownTransient,
	} {
		if isMalformed(err) {
			t.Errorf("isMalformed(%v) = true", err)
		}
	}
}

func TestSearchPromptsEmbedContext(t *testing.T) {
	system := searchSystemPrompt()
	for _, pillar := range aifMandates {
		if !strings.Contains(system, pillar) {
			t.Errorf("system prompt missing pillar %q", pillar)
		}
	}
	if !strings.Contains(system, "raw JSON array") {
		t.Error("system prompt missing the output-format directive")
	}

	bare := searchUserPrompt("climate tech remote", "")
	if !strings.Contains(bare, "climate tech remote") {
		t.Error("user prompt missing the query")
	}
	if strings.Contains(bare, "RESUME") {
		t.Error("bare user prompt mentions a resume it does not have")
	}

	withResume := searchUserPrompt("climate tech remote", "Kubernetes since 2016")
	if !strings.Contains(withResume, "Kubernetes since 2016") {
		t.Error("user prompt missing the resume text")
	}
	if !strings.Contains(withResume, "climate tech remote") {
		t.Error("resume user prompt missing the query")
	}
}

func TestAnalyzePromptEmbedsJob(t *testing.T) {
	prompt := analyzeUserPrompt("Grid Engineer", "GreenGrid", "Decarbonize the grid.")
	for _, want := range []string{"Grid Engineer", "GreenGrid", "Decarbonize the grid.", aifMandates[0]} {
		if !strings.Contains(prompt, want) {
			t.Errorf("analyze prompt missing %q", want)
		}
	}
}

func TestAnalysisSchemaRequiresAllFields(t *testing.T) {
	want := map[string]bool{"pillar": true, "relevance_score": true, "justification": true}
	if len(analysisSchema.Required) != len(want) {
		t.Fatalf("got %d required fields, want %d", len(analysisSchema.Required), len(want))
	}
	for _, field := range analysisSchema.Required {
		if !want[field] {
			t.Errorf("unexpected required field %q", field)
		}
		if _, ok := analysisSchema.Properties[field]; !ok {
			t.Errorf("required field %q has no property definition", field)
		}
	}
}
