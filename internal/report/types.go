package report

import "time"

// Metadata contains report generation metadata.
type Metadata struct {
	Repository  string    `json:"repository"`
	GeneratedAt time.Time `json:"generated_at"`
	MoodVersion string    `json:"mood_version"`
	Paths       []string  `json:"paths"`
	Ref         string    `json:"ref,omitempty"`
}

// Recommendation represents a single recommendation item.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Recommendations groups recommendations by priority.
type Recommendations struct {
	HighPriority   []Recommendation `json:"high_priority"`
	MediumPriority []Recommendation `json:"medium_priority"`
	Ongoing        []Recommendation `json:"ongoing"`
}

// SummaryInsight contains executive summary and recommendations.
type SummaryInsight struct {
	ExecutiveSummary string          `json:"executive_summary"`
	KeyFindings      []string        `json:"key_findings"`
	Recommendations  Recommendations `json:"recommendations"`
}

// ClassAnnotation is a reviewer's comment on one class.
type ClassAnnotation struct {
	Class   string `json:"class"`
	Comment string `json:"comment"`
}

// SectionInsight is a reviewer's commentary on one report section.
type SectionInsight struct {
	SectionInsight  string            `json:"section_insight"`
	ItemAnnotations []ClassAnnotation `json:"item_annotations"`
}

// Annotation returns the comment on class, or "".
func (s *SectionInsight) Annotation(class string) string {
	if s == nil {
		return ""
	}
	for _, a := range s.ItemAnnotations {
		if a.Class == class {
			return a.Comment
		}
	}
	return ""
}

// Insights is the optional commentary file merged into a report, written
// by a person or an LLM after reading the JSON output.
type Insights struct {
	Summary       *SummaryInsight `json:"summary,omitempty"`
	Hierarchy     *SectionInsight `json:"hierarchy,omitempty"`
	Encapsulation *SectionInsight `json:"encapsulation,omitempty"`
}

// Distribution summarizes one integer metric across all classes.
type Distribution struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	Max float64 `json:"max"`
}

// Summary is the corpus overview at the top of the report.
type Summary struct {
	Classes int          `json:"classes"`
	Files   int          `json:"files"`
	Roots   int          `json:"roots"`
	Leaves  int          `json:"leaves"`
	DIT     Distribution `json:"dit"`
	NOC     Distribution `json:"noc"`
}

// ClassItem is one class row in the report.
type ClassItem struct {
	Class   string  `json:"cls"`
	Path    string  `json:"path"`
	Line    uint32  `json:"line"`
	DIT     int     `json:"dit"`
	NOC     int     `json:"noc"`
	MIF     float64 `json:"mif"`
	MHF     float64 `json:"mhf"`
	AIF     float64 `json:"aif"`
	AHF     float64 `json:"ahf"`
	Comment string  `json:"comment,omitempty"`
}
