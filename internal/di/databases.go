package di

import (
	"fmt"

	"github.com/aristath/finsight/internal/clientdata"
	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens client_data.db and applies its schema.
// With caching disabled the container is returned without a database.
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	if !cfg.CacheEnabled {
		log.Info().Msg("Provider cache disabled")
		return container, nil
	}

	clientDataDB, err := database.New(database.Config{
		Path:    cfg.ClientDataPath(),
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client_data database: %w", err)
	}

	if err := clientDataDB.Migrate(); err != nil {
		clientDataDB.Close()
		return nil, fmt.Errorf("failed to migrate client_data database: %w", err)
	}

	container.ClientDataDB = clientDataDB
	container.ClientDataRepo = clientdata.NewRepository(clientDataDB.Conn())

	log.Info().Str("path", clientDataDB.Path()).Msg("Provider cache ready")
	return container, nil
}
