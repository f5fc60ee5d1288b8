package main

import (
	"fmt"
	"strings"
)

// searchSystemPrompt is the persona for the grounded search path. Tool use
// and response schemas cannot be combined, so the output shape is enforced by
// instruction here and by CleanJSON on the way back.
func searchSystemPrompt() string {
	return fmt.Sprintf(`You are a specialized Job Search Analyst for an impact fund. Find the five most recent and highly relevant job listings based on the user's query. Prioritize roles related to the Arboreum Impact Foundation (AIF) mission pillars:
%s

You MUST use the Google Search tool to ground your answer in live postings.

Your entire response MUST be a raw JSON array of objects, and nothing else. DO NOT include any introductory text, markdown fences, or explanations outside of the JSON array itself.

JSON structure:
[
  {
    "title": "Job Title",
    "company": "Company Name",
    "location": "City, State or Remote",
    "summary": "1-2 sentence summary of the job and key requirements.",
    "url": "Source URL of the job post."
  }
]`, "- "+strings.Join(aifMandates, "\n- "))
}

// searchUserPrompt embeds the query and, when present, the resume text.
func searchUserPrompt(query, resume string) string {
	var sb strings.Builder
	if resume != "" {
		sb.WriteString("Given the following user RESUME and their desired JOB QUERY, use Google Search to find 5 to 8 open job leads that are a strong fit.\n\n--- RESUME ---\n")
		sb.WriteString(resume)
		sb.WriteString("\n\n--- JOB QUERY ---\n")
		sb.WriteString(query)
		return sb.String()
	}
	sb.WriteString("Find five highly relevant job listings for the query: '")
	sb.WriteString(query)
	sb.WriteString("'. Focus on recent postings that align with high social or environmental impact goals. Provide the title, company, location, a brief summary, and the source URL.")
	return sb.String()
}

// analyzeSystemPrompt is the persona for the schema-constrained analysis path.
func analyzeSystemPrompt() string {
	return "You are an expert AI Analyst for the Arboreum Impact Foundation (AIF). " +
		"Your task is to analyze job descriptions and determine their relevance and alignment " +
		"with the AIF Mandates. Output a concise JSON object."
}

func analyzeUserPrompt(jobTitle, company, jobDetails string) string {
	return fmt.Sprintf(`Analyze the following job and determine its alignment with one of the AIF Mandates: %s.
Job Title: %s
Company: %s
Job Description:
---
%s
---`, strings.Join(aifMandates, ", "), jobTitle, company, jobDetails)
}
