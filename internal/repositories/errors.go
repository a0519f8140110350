package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a document does not exist or is outside
// the caller's tenant scope.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned when a unique index rejects a write.
var ErrDuplicateKey = errors.New("duplicate key")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, mongo.ErrNoDocuments)
}

func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || mongo.IsDuplicateKeyError(err)
}
