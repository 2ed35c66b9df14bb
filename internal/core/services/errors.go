package services

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtube/internal/core/domain"
	apperrors "vidtube/pkg/errors"
	"vidtube/pkg/validation"
)

// repoError converts storage-layer sentinels into the application taxonomy.
// Everything unrecognized is an internal failure.
func repoError(err error, resource string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperrors.NewNotFoundError(resource)
	case errors.Is(err, domain.ErrDuplicateKey):
		return apperrors.NewConflictError(resource + " already exists")
	default:
		return apperrors.WrapError(err, apperrors.ErrCodeInternal, "storage operation failed", http.StatusInternalServerError)
	}
}

// parseID validates the canonical identifier format and parses it. Malformed
// identifiers fail fast before any storage round trip.
func parseID(id, fieldName string) (primitive.ObjectID, error) {
	if err := validation.ValidateObjectID(id, fieldName); err != nil {
		return primitive.NilObjectID, apperrors.NewInvalidArgumentError(err.Error())
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewInvalidArgumentError("invalid " + fieldName + " format")
	}
	return oid, nil
}
