// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package sanitize

import "time"

// PersonalInfo holds the contact block of a resume. Everything except
// Name is stripped before an employer sees it.
type PersonalInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Location     string `json:"location,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Experience is one employment entry.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one education entry.
type Education struct {
	Degree         string  `json:"degree"`
	Institution    string  `json:"institution"`
	GraduationYear int     `json:"graduationYear,omitempty"`
	GPA            float64 `json:"gpa,omitempty"`
}

// Certification is a professional certification reference.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// ShiftFlexibility records which days and shifts a student can work.
type ShiftFlexibility struct {
	Days   []string `json:"days,omitempty"`
	Shifts []string `json:"shifts,omitempty"`
}

// SalaryExpectation is the student's stated salary range.
type SalaryExpectation struct {
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
}

// ExternalProfiles links out to the student's public profiles.
type ExternalProfiles struct {
	LinkedIn  string `json:"linkedIn,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

// EvidenceFile is one uploaded piece of work eligibility evidence.
type EvidenceFile struct {
	Section  string `json:"section"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName,omitempty"`
	PublicID string `json:"publicId,omitempty"`
}

// WorkEligibilityChecklist is the admin-reviewed eligibility state.
// It is never visible to employers.
type WorkEligibilityChecklist struct {
	VerificationStatusBySection map[string]string `json:"verificationStatusBySection,omitempty"`
	EvidenceFiles               []EvidenceFile    `json:"evidenceFiles,omitempty"`
}

// Resume is a student's full profile record as stored by the platform.
// Field names follow the legacy wire format.
type Resume struct {
	ID                       string                    `json:"id"`
	UserID                   string                    `json:"userId"`
	PersonalInfo             PersonalInfo              `json:"personalInfo"`
	Skills                   []string                  `json:"skills,omitempty"`
	Experience               []Experience              `json:"experience,omitempty"`
	Education                []Education               `json:"education,omitempty"`
	BackgroundInformation    string                    `json:"backgroundInformation,omitempty"`
	Certifications           []Certification           `json:"certifications,omitempty"`
	ResumeFileURL            string                    `json:"resumeFileUrl,omitempty"`
	ResumeFilePublicID       string                    `json:"resumeFilePublicId,omitempty"`
	WorkRestrictions         []string                  `json:"workRestrictions,omitempty"`
	TransportationStatus     string                    `json:"transportationStatus,omitempty"`
	ShiftFlexibility         *ShiftFlexibility         `json:"shiftFlexibility,omitempty"`
	PreferredWorkTypes       []string                  `json:"preferredWorkTypes,omitempty"`
	JobsToAvoid              []string                  `json:"jobsToAvoid,omitempty"`
	WorkAuthorized           *bool                     `json:"workAuthorized,omitempty"`
	AuthorizationDocuments   []string                  `json:"authorizationDocuments,omitempty"`
	BackgroundCheckRequired  *bool                     `json:"backgroundCheckRequired,omitempty"`
	WorkEligibilityChecklist *WorkEligibilityChecklist `json:"workEligibilityChecklist,omitempty"`
	CareerInterests          []string                  `json:"careerInterests,omitempty"`
	TargetIndustries         []string                  `json:"targetIndustries,omitempty"`
	SalaryExpectation        *SalaryExpectation        `json:"salaryExpectation,omitempty"`
	ExternalProfiles         *ExternalProfiles         `json:"externalProfiles,omitempty"`
	CreatedAt                time.Time                 `json:"createdAt"`
	UpdatedAt                time.Time                 `json:"updatedAt"`
}
