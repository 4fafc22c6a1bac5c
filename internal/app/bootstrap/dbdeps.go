// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/azubihub/internal/app/system/notify"
	"github.com/dalemusser/azubihub/internal/app/system/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as the app evolves.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Files holds uploaded report documents and avatars.
	Files storage.Store

	// Notifier delivers notifications off the request path. Created in
	// ConnectDB, started in Startup, stopped in Shutdown.
	Notifier *notify.Dispatcher
}
