// Package report renders a standalone HTML report of a MOOD analysis.
package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/pkg/analyzer/mood"
	"github.com/panbanda/mood/pkg/models"
	"github.com/panbanda/mood/pkg/stats"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed template.html
var templateFS embed.FS

// Hiding factors at or above these are shown as healthy; below the lower
// bound as a problem.
const (
	hidingGood    = 0.7
	hidingWarning = 0.4
)

// RenderData contains all data needed to render the report.
type RenderData struct {
	Metadata Metadata
	Summary  Summary
	Total    models.Factors
	Classes  []ClassItem
	// Deep and Wide list the classes past the DIT and NOC warning
	// thresholds, worst first.
	Deep    []ClassItem
	Wide    []ClassItem
	Skipped []output.SkippedFile
	// Mermaid is the inheritance diagram, "" when no graph was supplied.
	Mermaid string

	Insight       *SummaryInsight
	Hierarchy     *SectionInsight
	Encapsulation *SectionInsight
}

// BuildData assembles the report from an analysis. graph and insights may
// be nil.
func BuildData(meta Metadata, analysis *mood.Analysis, files int, skipped []output.SkippedFile, graph *models.InheritanceGraph, insights *Insights) *RenderData {
	data := &RenderData{
		Metadata: meta,
		Total:    analysis.Total,
		Skipped:  skipped,
	}
	if insights != nil {
		data.Insight = insights.Summary
		data.Hierarchy = insights.Hierarchy
		data.Encapsulation = insights.Encapsulation
	}
	if graph != nil {
		data.Mermaid = graph.ToMermaid()
	}

	dits := make([]int, 0, len(analysis.Classes))
	nocs := make([]int, 0, len(analysis.Classes))
	for _, c := range analysis.Classes {
		item := ClassItem{
			Class: c.ClassName,
			Path:  c.Path,
			Line:  c.Line,
			DIT:   c.DIT,
			NOC:   c.NOC,
			MIF:   c.MIF,
			MHF:   c.MHF,
			AIF:   c.AIF,
			AHF:   c.AHF,
		}
		if comment := data.Encapsulation.Annotation(c.ClassName); comment != "" {
			item.Comment = comment
		}
		data.Classes = append(data.Classes, item)

		if c.DIT >= output.DITWarn {
			deep := item
			deep.Comment = data.Hierarchy.Annotation(c.ClassName)
			data.Deep = append(data.Deep, deep)
		}
		if c.NOC >= output.NOCWarn {
			wide := item
			wide.Comment = data.Hierarchy.Annotation(c.ClassName)
			data.Wide = append(data.Wide, wide)
		}
		if c.DIT == 0 {
			data.Summary.Roots++
		}
		if c.NOC == 0 {
			data.Summary.Leaves++
		}
		dits = append(dits, c.DIT)
		nocs = append(nocs, c.NOC)
	}
	sort.SliceStable(data.Deep, func(i, j int) bool { return data.Deep[i].DIT > data.Deep[j].DIT })
	sort.SliceStable(data.Wide, func(i, j int) bool { return data.Wide[i].NOC > data.Wide[j].NOC })

	data.Summary.Classes = len(analysis.Classes)
	data.Summary.Files = files
	data.Summary.DIT = distribution(dits)
	data.Summary.NOC = distribution(nocs)
	return data
}

func distribution(values []int) Distribution {
	sorted := stats.SortedInts(values)
	return Distribution{
		P50: stats.Percentile(sorted, 50),
		P90: stats.Percentile(sorted, 90),
		Max: stats.Max(sorted),
	}
}

// Renderer renders HTML reports.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a new report renderer.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"hidingClass": func(v float64) string {
			if v >= hidingGood {
				return "good"
			}
			if v >= hidingWarning {
				return "warning"
			}
			return "danger"
		},
		"ditBadge": func(dit int) string {
			if dit >= output.DITError {
				return "critical"
			}
			if dit >= output.DITWarn {
				return "high"
			}
			return "low"
		},
		"nocBadge": func(noc int) string {
			if noc >= output.NOCError {
				return "critical"
			}
			if noc >= output.NOCWarn {
				return "high"
			}
			return "low"
		},
		"limit": func(items []ClassItem, n int) []ClassItem {
			if len(items) > n {
				return items[:n]
			}
			return items
		},
		"lower":  strings.ToLower,
		"title":  cases.Title(language.English).String,
		"factor": output.FormatFactor,
		"truncatePath": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			parts := strings.Split(s, "/")
			if len(parts) <= 2 {
				return s[:n-3] + "..."
			}
			filename := parts[len(parts)-1]
			if len(filename) >= n-3 {
				return "..." + filename[len(filename)-n+3:]
			}
			remaining := n - len(filename) - 4
			if remaining < 0 {
				remaining = 0
			}
			prefix := strings.Join(parts[:len(parts)-1], "/")
			if len(prefix) > remaining {
				prefix = prefix[len(prefix)-remaining:]
			}
			return ".../" + prefix + "/" + filename
		},
		"percent": func(v float64) string {
			return fmt.Sprintf("%.0f%%", v*100)
		},
		"json": func(v interface{}) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
		"num": func(n interface{}) string {
			p := message.NewPrinter(language.English)
			switch v := n.(type) {
			case int:
				return p.Sprintf("%d", v)
			case int64:
				return p.Sprintf("%d", v)
			case float64:
				return p.Sprintf("%d", int64(v))
			default:
				return "0"
			}
		},
	}

	tmplContent, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, err
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the HTML report for data to w.
func (r *Renderer) Render(data *RenderData, w io.Writer) error {
	return r.tmpl.Execute(w, data)
}

// RenderToFile writes the HTML report to a file.
func (r *Renderer) RenderToFile(data *RenderData, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := r.Render(data, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadInsights reads an insights file.
func LoadInsights(path string) (*Insights, error) {
	insights := &Insights{}
	if err := loadJSON(path, insights); err != nil {
		return nil, fmt.Errorf("load insights %s: %w", path, err)
	}
	return insights, nil
}

func loadJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(v)
}
