package index

import (
	"fmt"
	"sort"
	"strings"
)

// SearchOptions narrow a search. Zero values mean "any".
type SearchOptions struct {
	Kind    string
	Project string
	Limit   int
}

// Result is one search hit, ranked by FTS5 relevance.
type Result struct {
	ID      int64
	Path    string
	Kind    string
	Project string
	Title   string
	Snippet string
}

// snippetLen bounds the body excerpt carried in results.
const snippetLen = 240

// Search runs a keyword query against the FTS index. An empty query falls
// back to the most recently indexed documents so the tool never answers
// with nothing.
func (s *Store) Search(query string, opts SearchOptions) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	if strings.TrimSpace(query) == "" {
		return s.Recent(opts)
	}

	sqlStr := `
		SELECT d.id, d.path, d.kind, d.project, d.title, d.body
		FROM documents_fts fts
		JOIN documents d ON d.id = fts.rowid
		WHERE documents_fts MATCH ?
	`
	args := []any{sanitizeFTS(query)}

	if opts.Kind != "" {
		sqlStr += " AND d.kind = ?"
		args = append(args, opts.Kind)
	}
	if opts.Project != "" {
		sqlStr += " AND d.project = ?"
		args = append(args, opts.Project)
	}

	sqlStr += " ORDER BY fts.rank LIMIT ?"
	args = append(args, opts.Limit)

	return s.collect(sqlStr, args...)
}

// Similar finds documents resembling the given text: the most frequent
// informative words become an OR query ranked by FTS5. This is the local
// stand-in for an embeddings service.
func (s *Store) Similar(text string, opts SearchOptions) ([]Result, error) {
	keywords := ExtractKeywords(text, 12)
	if len(keywords) == 0 {
		return nil, nil
	}

	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = `"` + k + `"`
	}

	if opts.Limit <= 0 {
		opts.Limit = 5
	}

	sqlStr := `
		SELECT d.id, d.path, d.kind, d.project, d.title, d.body
		FROM documents_fts fts
		JOIN documents d ON d.id = fts.rowid
		WHERE documents_fts MATCH ?
	`
	args := []any{strings.Join(quoted, " OR ")}

	if opts.Project != "" {
		sqlStr += " AND d.project = ?"
		args = append(args, opts.Project)
	}

	sqlStr += " ORDER BY fts.rank LIMIT ?"
	args = append(args, opts.Limit)

	return s.collect(sqlStr, args...)
}

// Recent returns the most recently indexed documents.
func (s *Store) Recent(opts SearchOptions) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	sqlStr := `SELECT id, path, kind, project, title, body FROM documents WHERE 1=1`
	var args []any
	if opts.Kind != "" {
		sqlStr += " AND kind = ?"
		args = append(args, opts.Kind)
	}
	if opts.Project != "" {
		sqlStr += " AND project = ?"
		args = append(args, opts.Project)
	}
	sqlStr += " ORDER BY indexed_at DESC LIMIT ?"
	args = append(args, opts.Limit)

	return s.collect(sqlStr, args...)
}

func (s *Store) collect(sqlStr string, args ...any) ([]Result, error) {
	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Result
	for rows.Next() {
		var r Result
		var body string
		if err := rows.Scan(&r.ID, &r.Path, &r.Kind, &r.Project, &r.Title, &body); err != nil {
			return nil, err
		}
		r.Snippet = Truncate(strings.TrimSpace(body), snippetLen)
		results = append(results, r)
	}
	return results, rows.Err()
}

// sanitizeFTS wraps each word in quotes for safe FTS5 queries.
// This prevents special characters from being interpreted as FTS syntax.
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, ``) + `"`
	}
	return strings.Join(words, " ")
}

// stopwords are common words excluded from similarity keyword extraction.
var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"been": true, "were": true, "they": true, "their": true, "there": true,
	"would": true, "could": true, "should": true, "about": true, "which": true,
	"when": true, "what": true, "where": true, "will": true, "them": true,
	"then": true, "than": true, "into": true, "over": true, "only": true,
	"also": true, "some": true, "such": true, "more": true, "most": true,
	"other": true, "after": true, "before": true, "because": true, "while": true,
	"these": true, "those": true, "does": true, "done": true, "just": true,
}

// ExtractKeywords picks the most frequent informative words from text,
// lowercased, longest-standing first on ties. Words shorter than four
// characters and stopwords are ignored.
func ExtractKeywords(text string, max int) []string {
	freq := make(map[string]int)
	order := make(map[string]int)

	pos := 0
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if len(field) < 4 || stopwords[field] {
			continue
		}
		if _, seen := freq[field]; !seen {
			order[field] = pos
			pos++
		}
		freq[field]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return order[words[i]] < order[words[j]]
	})

	if len(words) > max {
		words = words[:max]
	}
	return words
}
