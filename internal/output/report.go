package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/panbanda/mood/pkg/analyzer/mood"
	"github.com/panbanda/mood/pkg/loader"
	"github.com/panbanda/mood/pkg/models"
)

// Thresholds above which DIT and NOC are highlighted in text output.
const (
	DITWarn  = 4
	DITError = 5
	NOCWarn  = 4
	NOCError = 6
)

// ClassRow is the serialized form of one class in structured formats.
type ClassRow struct {
	Class string  `json:"cls" yaml:"cls" toon:"cls"`
	Path  string  `json:"path,omitempty" yaml:"path,omitempty" toon:"path"`
	Line  uint32  `json:"line,omitempty" yaml:"line,omitempty" toon:"line"`
	DIT   int     `json:"dit" yaml:"dit" toon:"dit"`
	NOC   int     `json:"noc" yaml:"noc" toon:"noc"`
	MIF   float64 `json:"mif" yaml:"mif" toon:"mif"`
	MHF   float64 `json:"mhf" yaml:"mhf" toon:"mhf"`
	AIF   float64 `json:"aif" yaml:"aif" toon:"aif"`
	AHF   float64 `json:"ahf" yaml:"ahf" toon:"ahf"`
}

// SkippedFile names a file left out of the analysis.
type SkippedFile struct {
	Path   string `json:"path" yaml:"path" toon:"path"`
	Reason string `json:"reason" yaml:"reason" toon:"reason"`
}

// Skipped converts the loader's skipped files.
func Skipped(files []loader.SkippedFile) []SkippedFile {
	var out []SkippedFile
	for _, f := range files {
		out = append(out, SkippedFile{Path: f.Path, Reason: f.Reason})
	}
	return out
}

// MoodData is the structured report.
type MoodData struct {
	Classes []ClassRow     `json:"classes" yaml:"classes" toon:"classes"`
	Total   models.Factors `json:"total" yaml:"total" toon:"total"`
	Skipped []SkippedFile  `json:"skipped,omitempty" yaml:"skipped,omitempty" toon:"skipped"`
}

// MoodReport renders a mood.Analysis.
type MoodReport struct {
	Analysis *mood.Analysis
	Skipped  []SkippedFile
}

// NewMoodReport wraps an analysis for output.
func NewMoodReport(analysis *mood.Analysis, skipped []SkippedFile) *MoodReport {
	return &MoodReport{Analysis: analysis, Skipped: skipped}
}

func (r *MoodReport) RenderData() any {
	data := MoodData{
		Classes: make([]ClassRow, 0, len(r.Analysis.Classes)),
		Total:   r.Analysis.Total,
		Skipped: r.Skipped,
	}
	for _, c := range r.Analysis.Classes {
		data.Classes = append(data.Classes, ClassRow{
			Class: c.ClassName,
			Path:  c.Path,
			Line:  c.Line,
			DIT:   c.DIT,
			NOC:   c.NOC,
			MIF:   c.MIF,
			MHF:   c.MHF,
			AIF:   c.AIF,
			AHF:   c.AHF,
		})
	}
	return data
}

// RenderRecords writes one `key: value` block per record, each followed by a
// blank line. The total record has no dit or noc.
func (r *MoodReport) RenderRecords(w io.Writer) error {
	for _, rec := range r.Analysis.Records() {
		if err := WriteRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes a single record block.
func WriteRecord(w io.Writer, rec models.MetricRecord) error {
	pairs := [][2]string{{"cls", rec.ClassName}}
	if rec.DIT != nil {
		pairs = append(pairs, [2]string{"dit", strconv.Itoa(*rec.DIT)})
	}
	if rec.NOC != nil {
		pairs = append(pairs, [2]string{"noc", strconv.Itoa(*rec.NOC)})
	}
	pairs = append(pairs,
		[2]string{"mif", FormatFactor(rec.MIF)},
		[2]string{"mhf", FormatFactor(rec.MHF)},
		[2]string{"aif", FormatFactor(rec.AIF)},
		[2]string{"ahf", FormatFactor(rec.AHF)},
	)
	for _, kv := range pairs {
		if _, err := fmt.Fprintf(w, "%s: %s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// FormatFactor renders a factor in its shortest form: 0, 1, 0.5, 0.33.
func FormatFactor(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var moodHeaders = []string{"Class", "File", "DIT", "NOC", "MIF", "MHF", "AIF", "AHF"}

func (r *MoodReport) table(colored bool) *Table {
	rows := make([][]string, 0, len(r.Analysis.Classes))
	for _, c := range r.Analysis.Classes {
		file := c.Path
		if file != "" && c.Line > 0 {
			file = fmt.Sprintf("%s:%d", c.Path, c.Line)
		}
		rows = append(rows, []string{
			c.ClassName,
			file,
			thresholdColor(colored, c.DIT, DITWarn, DITError),
			thresholdColor(colored, c.NOC, NOCWarn, NOCError),
			FormatFactor(c.MIF),
			FormatFactor(c.MHF),
			FormatFactor(c.AIF),
			FormatFactor(c.AHF),
		})
	}
	total := r.Analysis.Total
	footer := []string{
		models.TotalRecordName,
		fmt.Sprintf("%d classes", len(r.Analysis.Classes)),
		"", "",
		FormatFactor(total.MIF),
		FormatFactor(total.MHF),
		FormatFactor(total.AIF),
		FormatFactor(total.AHF),
	}
	return NewTable("MOOD Metrics", moodHeaders, rows, footer, nil)
}

func (r *MoodReport) RenderText(w io.Writer, colored bool) error {
	if err := r.table(colored).RenderText(w, colored); err != nil {
		return err
	}
	r.renderSkipped(w, colored)
	return nil
}

func (r *MoodReport) RenderMarkdown(w io.Writer) error {
	return r.table(false).RenderMarkdown(w)
}

func (r *MoodReport) renderSkipped(w io.Writer, colored bool) {
	if len(r.Skipped) == 0 {
		return
	}
	header := fmt.Sprintf("Skipped %d file(s):", len(r.Skipped))
	if colored {
		color.New(color.FgYellow).Fprintln(w, header)
	} else {
		fmt.Fprintln(w, header)
	}
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "  %s: %s\n", s.Path, s.Reason)
	}
}

// thresholdColor renders n, yellow at warn and red at fail when colored.
func thresholdColor(colored bool, n, warn, fail int) string {
	text := strconv.Itoa(n)
	if !colored {
		return text
	}
	switch {
	case n >= fail:
		return color.RedString(text)
	case n >= warn:
		return color.YellowString(text)
	default:
		return text
	}
}

// GraphStyle selects the inheritance graph notation.
type GraphStyle string

const (
	GraphMermaid GraphStyle = "mermaid"
	GraphDOT     GraphStyle = "dot"
)

// ParseGraphStyle converts a string to GraphStyle.
func ParseGraphStyle(s string) (GraphStyle, error) {
	switch s {
	case "", "mermaid":
		return GraphMermaid, nil
	case "dot", "graphviz":
		return GraphDOT, nil
	default:
		return "", fmt.Errorf("unknown graph style %q: want mermaid or dot", s)
	}
}

// GraphReport renders an inheritance graph. Text and Markdown carry the
// diagram source; structured formats carry nodes and edges.
type GraphReport struct {
	Graph *models.InheritanceGraph
	Style GraphStyle
}

func (g *GraphReport) diagram() string {
	if g.Style == GraphDOT {
		return g.Graph.ToDOT()
	}
	return g.Graph.ToMermaid()
}

func (g *GraphReport) RenderText(w io.Writer, _ bool) error {
	_, err := io.WriteString(w, g.diagram())
	return err
}

func (g *GraphReport) RenderMarkdown(w io.Writer) error {
	lang := string(g.Style)
	if g.Style == "" {
		lang = string(GraphMermaid)
	}
	_, err := fmt.Fprintf(w, "```%s\n%s```\n", lang, g.diagram())
	return err
}

func (g *GraphReport) RenderData() any {
	return g.Graph
}
