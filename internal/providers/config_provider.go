package providers

import (
	"fmt"
	"lecturebot/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("persistence.driver", "file")
	viper.SetDefault("persistence.filePath", "lectures.json")
	viper.SetDefault("persistence.redisKey", "lecturebot:catalog")
	viper.SetDefault("bot.pollTimeout", 30*time.Second)
	viper.SetDefault("cache.ttl", 24*time.Hour)
	viper.SetDefault("webServer.host", "127.0.0.1")
	viper.SetDefault("webServer.port", 8090)

	viper.BindEnv("bot.token", "LECTUREBOT_TOKEN")
	viper.BindEnv("bot.sourceGroup", "LECTUREBOT_SOURCE_GROUP")
	viper.BindEnv("logger.level", "LECTUREBOT_LOG_LEVEL")
	viper.BindEnv("persistence.driver", "LECTUREBOT_STORAGE_DRIVER")
	viper.BindEnv("persistence.redisAddr", "LECTUREBOT_REDIS_ADDR")
	viper.BindEnv("cache.size", "LECTUREBOT_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "LectureBot"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
