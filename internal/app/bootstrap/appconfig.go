// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig
// handles framework-level settings like ports, TLS, and log level.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Firebase authentication
	FirebaseServiceKey string // Base64-encoded Firebase service account JSON

	// CORS / websocket origin policy
	AllowedOrigins []string // Origins allowed for API and socket access (empty means allow all)

	// Lending policy and list sizing
	BorrowLimit     int // Max concurrent borrows per user
	DefaultPageSize int // Default page size for book listings
	TopListLimit    int // Row cap for top-rated books and top users
}
