package repositories

import "github.com/vsinha/mrplog/pkg/domain/entities"

// RunRepository stores parsed run logs by run ID
type RunRepository interface {
	GetRun(runID string) (*entities.LogDocument, error)
	GetAllRunIDs() ([]string, error)
	SaveRun(runID string, doc *entities.LogDocument) error
	DeleteRun(runID string) error
}
