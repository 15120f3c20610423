package docsystem

import (
	"fmt"
	"strings"

	models "filedesk/internal/domain/models/docsystem"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into an ILIKE substring pattern with
// the wildcard characters of the term itself escaped.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// ownerFilter renders the predicate shared by count and fetch queries.
// Name matching is always case-insensitive.
func ownerFilter(filter models.ListFilter) (string, []any) {
	clause := "user_id = $1"
	args := []any{filter.UserID}

	if filter.HasSearch() {
		clause += ` AND name ILIKE $2 ESCAPE '\'`
		args = append(args, containsPattern(filter.Search))
	}

	return clause, args
}

// recentQuery selects the newest rows matching filter, from the start of the
// ordering, capped at limit.
func recentQuery(table, columns string, filter models.ListFilter, limit int) (string, []any) {
	clause, args := ownerFilter(filter)
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d
	`, columns, table, clause, len(args))

	return query, args
}

// countQuery counts rows matching filter
func countQuery(table string, filter models.ListFilter) (string, []any) {
	clause, args := ownerFilter(filter)
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table, clause), args
}
