package service

import (
	"fmt"

	"github.com/jeroroldan/admin-panel-sub001/internal/apierror"
	"github.com/jeroroldan/admin-panel-sub001/internal/repository"

	"github.com/google/uuid"
)

// notFoundOr maps a record-not-found to a typed 404 and wraps anything else.
func notFoundOr(err error, entity string, key any) error {
	if repository.IsNotFound(err) {
		return apierror.NotFound("%s %v not found", entity, key)
	}
	return fmt.Errorf("load %s %v: %w", entity, key, err)
}

// parseID turns a client supplied identifier into a uuid or a 422 on field.
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.NewValidation([]apierror.FieldError{{Field: field, Message: "must be a valid UUID"}})
	}
	return id, nil
}
