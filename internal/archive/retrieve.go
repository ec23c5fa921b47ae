// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query holds whitespace-separated terms. Every term must occur in the
	// section title or content, ignoring ASCII case.
	Query string

	RunID    string
	Document string
	Type     types.SectionType

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.RunID == "" && q.Document == "" && q.Type == ""
}

// QueryResult is an archived ranked section with its run.
type QueryResult struct {
	types.RankedSection `yaml:",inline"`

	RunID     string    `json:"run_id" yaml:"run_id"`
	Persona   string    `json:"persona" yaml:"persona"`
	Job       string    `json:"job_to_be_done" yaml:"job_to_be_done"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Retrieve returns archived sections matching opts, newest run first and
// by rank within a run.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT s.run_id, s.rank, s.score, s.document, s.page, s.title, s.content, s.type,
			r.persona, r.job, r.created_at
		FROM sections s
		JOIN runs r ON r.id = s.run_id
		WHERE 1=1`)

	for _, term := range strings.Fields(opts.Query) {
		pattern := "%" + escapeLike(term) + "%"
		qb.WriteString(` AND (s.title LIKE ? ESCAPE '\' OR s.content LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if opts.RunID != "" {
		qb.WriteString(` AND s.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if opts.Document != "" {
		qb.WriteString(` AND s.document = ?`)
		args = append(args, opts.Document)
	}

	if opts.Type != "" {
		qb.WriteString(` AND s.type = ?`)
		args = append(args, string(opts.Type))
	}

	qb.WriteString(` ORDER BY r.created_at DESC, s.run_id, s.rank LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr        QueryResult
			secType   string
			createdAt string
		)
		if err := rows.Scan(
			&qr.RunID, &qr.Rank, &qr.Score, &qr.Document, &qr.Page,
			&qr.Title, &qr.Content, &secType,
			&qr.Persona, &qr.Job, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		qr.Type = types.SectionType(secType)
		qr.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		results = append(results, qr)
	}

	return results, rows.Err()
}

// escapeLike escapes LIKE wildcards so terms match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
