package catalog

import (
	"fmt"
	"lecturebot/internal/catalog/interfaces"
	"lecturebot/internal/providers"
	"lecturebot/internal/structures"
)

// NewBackend picks the storage driver configured under persistence.driver.
// The returned cleanup closes the backend and the compressor.
func NewBackend(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.BackendInterface, func(), error) {
	p := conf.Persistence

	var backend interfaces.BackendInterface
	switch p.Driver {
	case "", "file":
		logger.Infof(providers.TypeStorage, "Catalog stored in file %s (compress=%t)", p.FilePath, p.Compress)
		backend = NewFileManager(p.FilePath, p.Compress, compressor)
	case "redis":
		rm, err := NewRedisManager(p.RedisAddr, p.RedisPassword, p.RedisKey, p.Compress, compressor)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(providers.TypeStorage, "Catalog stored in redis %s key %s", p.RedisAddr, rm.key)
		backend = rm
	default:
		return nil, nil, fmt.Errorf("unknown persistence driver %q", p.Driver)
	}

	cleanup := func() {
		if err := backend.Close(); err != nil {
			logger.Errorf(providers.TypeStorage, "Error closing catalog backend: %s", err)
		}
		compressor.Close()
	}
	return backend, cleanup, nil
}
