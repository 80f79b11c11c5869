// internal/repository/mongodb/db.go
package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo"

	xerrors "eventora-service/internal/pkg/errors"
)

// Collection names.
const (
	CollUsers      = "users"
	CollCompanies  = "companies"
	CollEvents     = "events"
	CollPlans      = "subscriptions"
	CollPayments   = "payments"
	CollCategories = "categories"
	CollLocations  = "locations"
)

// mapError converts driver errors to the application taxonomy. Unique index
// violations become duplicate errors, missing documents become not-found.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case err == mongo.ErrNoDocuments:
		return xerrors.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return xerrors.ErrDuplicate
	default:
		return xerrors.Wrap(err, "mongodb")
	}
}
