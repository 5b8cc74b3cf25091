// Package analyzer walks a document and reports what is inside it: value
// counts, nesting depth, and the locations of strings worth a closer look.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mcncl/jsonlayer/internal/config"
	"github.com/mcncl/jsonlayer/internal/errors"
	"github.com/mcncl/jsonlayer/internal/models"
	"github.com/mcncl/jsonlayer/internal/parser"
)

// Regex patterns for special string classes
var (
	uriRegex  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns (ordered by specificity - most specific first)
	timestampRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),            // 2006-01-02T15:04:05Z
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`), // ISO8601 variants
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),                               // 2006-01-02 15:04:05
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),                                                         // 2006-01-02
	}
)

// StringClass is what a string value looks like.
type StringClass int

const (
	ClassPlain StringClass = iota
	ClassJSON
	ClassUUID
	ClassTimestamp
	ClassURI
	ClassCustom
)

// String returns a human-readable name for the class.
func (c StringClass) String() string {
	switch c {
	case ClassPlain:
		return "plain"
	case ClassJSON:
		return "json"
	case ClassUUID:
		return "uuid"
	case ClassTimestamp:
		return "timestamp"
	case ClassURI:
		return "uri"
	case ClassCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// IsURI reports whether s, once trimmed, is a single token that starts with
// a URI scheme.
func IsURI(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" || strings.ContainsAny(t, " \t\r\n") {
		return false
	}
	return uriRegex.MatchString(t)
}

// IsTimestamp reports whether s matches one of the recognised date or
// date-time layouts.
func IsTimestamp(s string) bool {
	for _, re := range timestampRegexes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Finding is one string or big integer of interest.
type Finding struct {
	Path  models.Path
	Class StringClass

	// Pattern names the configured scan pattern for ClassCustom findings.
	Pattern string
}

// Report summarises a document.
type Report struct {
	// Kinds counts every value, the root included.
	Kinds map[models.Kind]int

	// MaxDepth is the deepest container nesting; a scalar root has depth 0.
	MaxDepth int

	// Strings holds every non-plain string in document order.
	Strings []Finding

	// BigInts holds the paths of integers too large for a float64.
	BigInts []models.Path
}

// Paths returns the paths of string findings of the given class.
func (r Report) Paths(class StringClass) []models.Path {
	var out []models.Path
	for _, f := range r.Strings {
		if f.Class == class {
			out = append(out, f.Path)
		}
	}
	return out
}

// Total returns the number of values in the document.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Kinds {
		n += c
	}
	return n
}

// Analyzer classifies the values of a document
type Analyzer struct {
	// config holds the scan settings
	config *config.Config
}

// NewAnalyzer creates a new Analyzer instance with the default configuration.
func NewAnalyzer() *Analyzer {
	return &Analyzer{config: config.NewConfig()}
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Analyzer{config: cfg}
}

// Classify returns the class of a string value. JSON text wins over every
// other class; configured patterns are tried last.
func (a *Analyzer) Classify(s string) (StringClass, string) {
	switch {
	case parser.IsJSONString(models.String(s)):
		return ClassJSON, ""
	case a.config.Scan.UUIDs && uuidRegex.MatchString(s):
		return ClassUUID, ""
	case a.config.Scan.Timestamps && IsTimestamp(s):
		return ClassTimestamp, ""
	case IsURI(s):
		return ClassURI, ""
	}
	if name, ok := a.config.MatchPattern(s); ok {
		return ClassCustom, name
	}
	return ClassPlain, ""
}

// Analyze walks v depth first. A container that contains itself yields a
// cycle error.
func (a *Analyzer) Analyze(v models.Value) (Report, error) {
	w := &walker{
		a:       a,
		report:  Report{Kinds: make(map[models.Kind]int)},
		visited: make(map[models.Value]struct{}),
	}
	if err := w.walk(v, models.Path{}, 0); err != nil {
		return Report{}, err
	}
	return w.report, nil
}

type walker struct {
	a       *Analyzer
	report  Report
	visited map[models.Value]struct{}
}

func (w *walker) walk(v models.Value, path models.Path, depth int) error {
	w.report.Kinds[models.KindOf(v)]++

	switch x := v.(type) {
	case models.String:
		if class, name := w.a.Classify(string(x)); class != ClassPlain {
			w.report.Strings = append(w.report.Strings, Finding{Path: path, Class: class, Pattern: name})
		}
	case models.BigInt:
		w.report.BigInts = append(w.report.BigInts, path)
	case *models.Array:
		if err := w.enter(x, depth); err != nil {
			return err
		}
		defer delete(w.visited, x)
		for i, item := range x.Items {
			if err := w.walk(item, path.Append(models.Index(i)), depth+1); err != nil {
				return err
			}
		}
	case *models.Object:
		if err := w.enter(x, depth); err != nil {
			return err
		}
		defer delete(w.visited, x)
		var err error
		x.Range(func(key string, item models.Value) bool {
			err = w.walk(item, path.Append(models.Key(key)), depth+1)
			return err == nil
		})
		return err
	}
	return nil
}

func (w *walker) enter(v models.Value, depth int) error {
	if _, seen := w.visited[v]; seen {
		return errors.NewCycleError(fmt.Sprintf("%s contains itself", models.KindOf(v)))
	}
	w.visited[v] = struct{}{}
	w.report.MaxDepth = max(w.report.MaxDepth, depth+1)
	return nil
}
