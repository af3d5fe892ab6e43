// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ShelfHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, borrow_limit, etc.
//   - Environment variables: SHELFHUB_MONGO_URI, SHELFHUB_BORROW_LIMIT, etc.
//   - Command-line flags: --mongo_uri, --borrow_limit, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "shelf_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "firebase_service_key", Default: "", Desc: "Base64-encoded Firebase service account JSON"},

	{Name: "allowed_origins", Default: "", Desc: "Comma-separated list of allowed origins (blank allows all)"},

	{Name: "borrow_limit", Default: 3, Desc: "Max concurrent borrows per user"},
	{Name: "default_page_size", Default: 5, Desc: "Default page size for book listings"},
	{Name: "top_list_limit", Default: 10, Desc: "Row cap for top-rated books and top users"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SHELFHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		FirebaseServiceKey: appValues.String("firebase_service_key"),

		AllowedOrigins: splitOrigins(appValues.String("allowed_origins")),

		BorrowLimit:     appValues.Int("borrow_limit"),
		DefaultPageSize: appValues.Int("default_page_size"),
		TopListLimit:    appValues.Int("top_list_limit"),
	}

	return coreCfg, appCfg, nil
}

// splitOrigins parses the comma-separated allowed_origins value into a
// slice, dropping empty entries.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ValidateConfig performs app-specific config validation.
//
// ShelfHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and requires a Firebase
// service key because every write route depends on token verification.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.FirebaseServiceKey == "" {
		return fmt.Errorf("firebase_service_key is required (base64-encoded service account JSON)")
	}

	if appCfg.BorrowLimit < 1 {
		return fmt.Errorf("borrow_limit must be at least 1, got %d", appCfg.BorrowLimit)
	}

	return nil
}
