// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body limits. AppConfig
// is everything specific to AzubiHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: azubihub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3-compatible object storage (only used if StorageType is "s3")
	StorageS3Endpoint  string // Endpoint host:port (e.g., s3.amazonaws.com, minio:9000)
	StorageS3AccessKey string // Access key ID
	StorageS3SecretKey string // Secret access key
	StorageS3Bucket    string // Bucket name
	StorageS3UseSSL    bool   // Use TLS for the S3 endpoint
	StorageS3BaseURL   string // Public base URL for stored objects (CDN or bucket URL)

	// Notification delivery
	NotifyQueueSize int // Buffered queue size for the notification dispatcher

	// Base URL of the deployment, used in notification links
	BaseURL string // e.g., "https://azubihub.example.com" or "http://localhost:3000"
}
