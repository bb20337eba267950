package port

import "lexis/internal/domain"

// History records shell queries.
type History interface {
	Append(entry domain.HistoryEntry) error

	Recent(limit int) ([]domain.HistoryEntry, error)

	Clear() error

	Close() error
}
