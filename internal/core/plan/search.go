package plan

import (
	"strings"

	"github.com/example/planpilot/internal/apperr"
)

// Search modes.
const (
	SearchAny = "any"
	SearchAll = "all"
)

// Search fields. FieldPlan covers title, content and comment.
const (
	FieldPlan    = "plan"
	FieldTitle   = "title"
	FieldContent = "content"
	FieldComment = "comment"
	FieldSteps   = "steps"
	FieldGoals   = "goals"
	FieldAll     = "all"
)

// SearchQuery is a normalised plan search.
type SearchQuery struct {
	Terms     []string
	Mode      string
	Field     string
	MatchCase bool
}

// SearchDocument is the searchable text of one plan and its children.
type SearchDocument struct {
	Title   string
	Content string
	Comment string
	Steps   []string
	Goals   []string
}

// NewSearchQuery trims and drops blank terms, applies defaults (mode all,
// field plan) and lowercases terms unless matchCase is set.
func NewSearchQuery(terms []string, mode, field string, matchCase bool) (SearchQuery, error) {
	q := SearchQuery{Mode: SearchAll, Field: FieldPlan, MatchCase: matchCase}

	switch strings.ToLower(mode) {
	case "":
	case SearchAny, SearchAll:
		q.Mode = strings.ToLower(mode)
	default:
		return q, apperr.InvalidInput("invalid search mode '%s', expected any|all", mode)
	}

	switch strings.ToLower(field) {
	case "":
	case FieldPlan, FieldTitle, FieldContent, FieldComment, FieldSteps, FieldGoals, FieldAll:
		q.Field = strings.ToLower(field)
	default:
		return q, apperr.InvalidInput("invalid search field '%s', expected plan|title|content|comment|steps|goals|all", field)
	}

	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if !matchCase {
			term = strings.ToLower(term)
		}
		q.Terms = append(q.Terms, term)
	}
	return q, nil
}

// HasTerms reports whether any non-blank term survived normalisation.
func (q SearchQuery) HasTerms() bool {
	return len(q.Terms) > 0
}

func (q SearchQuery) includes(fields ...string) bool {
	for _, f := range fields {
		if q.Field == f {
			return true
		}
	}
	return false
}

// Matches reports whether doc satisfies the query.
func (q SearchQuery) Matches(doc SearchDocument) bool {
	var haystacks []string
	add := func(value string) {
		if !q.MatchCase {
			value = strings.ToLower(value)
		}
		haystacks = append(haystacks, value)
	}

	if q.includes(FieldTitle, FieldPlan, FieldAll) {
		add(doc.Title)
	}
	if q.includes(FieldContent, FieldPlan, FieldAll) {
		add(doc.Content)
	}
	if q.includes(FieldComment, FieldPlan, FieldAll) && doc.Comment != "" {
		add(doc.Comment)
	}
	if q.includes(FieldSteps, FieldAll) {
		for _, s := range doc.Steps {
			add(s)
		}
	}
	if q.includes(FieldGoals, FieldAll) {
		for _, g := range doc.Goals {
			add(g)
		}
	}

	if len(haystacks) == 0 || len(q.Terms) == 0 {
		return false
	}

	found := func(term string) bool {
		for _, h := range haystacks {
			if strings.Contains(h, term) {
				return true
			}
		}
		return false
	}

	if q.Mode == SearchAny {
		for _, term := range q.Terms {
			if found(term) {
				return true
			}
		}
		return false
	}
	for _, term := range q.Terms {
		if !found(term) {
			return false
		}
	}
	return true
}
