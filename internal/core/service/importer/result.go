package importer

import (
	"errors"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

func isAlreadyExists(err error) bool {
	return errors.Is(err, domain.ErrAlreadyExists)
}

func failed(name string, err error) domain.ImportResult {
	return domain.ImportResult{Name: name, Outcome: domain.OutcomeFailed, Err: err}
}

func skipped(name string) domain.ImportResult {
	return domain.ImportResult{Name: name, Outcome: domain.OutcomeSkipped}
}
