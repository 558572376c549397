package domain

// FileFormat is a supported input document format.
type FileFormat string

const (
	FormatText FileFormat = "txt"
	FormatPDF  FileFormat = "pdf"
	FormatDOC  FileFormat = "doc"
	FormatDOCX FileFormat = "docx"
)

// AllowedMediaTypes maps MIME media types to FileFormat.
var AllowedMediaTypes = map[string]FileFormat{
	"text/plain":         FormatText,
	"application/pdf":    FormatPDF,
	"application/msword": FormatDOC,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
}

// AllowedExtensions maps file extensions (without dot) to FileFormat.
var AllowedExtensions = map[string]FileFormat{
	"txt":  FormatText,
	"text": FormatText,
	"pdf":  FormatPDF,
	"doc":  FormatDOC,
	"docx": FormatDOCX,
}

// SectionType is the closed set of résumé section kinds.
type SectionType string

const (
	SectionPersonal   SectionType = "personal"
	SectionExperience SectionType = "experience"
	SectionEducation  SectionType = "education"
	SectionSkills     SectionType = "skills"
	SectionSummary    SectionType = "summary"
)

// SectionNames are the display names used for parsed sections.
var SectionNames = map[SectionType]string{
	SectionPersonal:   "Personal Information",
	SectionExperience: "Work Experience",
	SectionEducation:  "Education",
	SectionSkills:     "Skills",
	SectionSummary:    "Professional Summary",
}

// FieldStatus is the review state of a parsed field.
type FieldStatus string

const (
	FieldStatusPending   FieldStatus = "pending"
	FieldStatusValidated FieldStatus = "validated"
	FieldStatusCorrected FieldStatus = "corrected"
	FieldStatusUnknown   FieldStatus = "unknown"
)

// ReviewStatus is the persisted lifecycle state of a review.
type ReviewStatus string

const (
	ReviewStatusEditing   ReviewStatus = "editing"
	ReviewStatusCompleted ReviewStatus = "completed"
	ReviewStatusCancelled ReviewStatus = "cancelled"
)

// Field names produced by the extractors.
const (
	FieldFullName    = "fullName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldLocation    = "location"
	FieldLinkedIn    = "linkedin"
	FieldWebsite     = "website"
	FieldSummary     = "summary"
	FieldPosition    = "position"
	FieldCompany     = "company"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldAchievement = "achievement"
	FieldDegree      = "degree"
	FieldInstitution = "institution"
	FieldStudy       = "field"
	FieldGPA         = "gpa"
	FieldSkill       = "skill"
)

// Metadata keys carried on parsed fields.
const (
	MetaEntryID  = "entryId"
	MetaLevel    = "level"
	MetaCategory = "category"
)
