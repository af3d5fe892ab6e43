// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/shelfhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as your app evolves.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Verifier checks Firebase ID tokens for the auth middleware.
	Verifier auth.Verifier
}
