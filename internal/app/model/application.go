package model

import "time"

// JobDetails holds the job posting fields entered in the admin tool.
type JobDetails struct {
	Company            string `json:"company"`
	Position           string `json:"position"`
	JobDescription     string `json:"jobDescription"`
	Requirements       string `json:"requirements"`
	WhyInterested      string `json:"whyInterested"`
	RelevantExperience string `json:"relevantExperience"`
	CustomNotes        string `json:"customNotes"`
}

// GeneratedContent holds the generated texts for an application.
type GeneratedContent struct {
	CoverLetter     string `json:"coverLetter"`
	EmailTemplate   string `json:"emailTemplate"`
	LinkedinMessage string `json:"linkedinMessage"`
}

// Application is a saved cover-letter application.
type Application struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	JobDetails       JobDetails       `json:"jobDetails"`
	GeneratedContent GeneratedContent `json:"generatedContent"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ApplicationListItem is the lightweight index record stored next to the full
// application.
type ApplicationListItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	ApplicationPrefix     = "application:"
	ApplicationListPrefix = "application:list:"
)
