package providers

import (
	"errors"
	"fmt"
	"lecturebot/internal/structures"
	"strings"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	p := cv.conf.Persistence
	switch p.Driver {
	case "file":
		if strings.TrimSpace(p.FilePath) == "" {
			return errors.New("invalid config: persistence.filePath is required for the file driver")
		}
	case "redis":
		if strings.TrimSpace(p.RedisAddr) == "" {
			return errors.New("invalid config: persistence.redisAddr is required for the redis driver")
		}
	}

	if cv.conf.RateLimit.Enabled {
		if cv.conf.RateLimit.Limit <= 0 || cv.conf.RateLimit.Window <= 0 {
			return errors.New("invalid config: rateLimit needs a positive limit and window")
		}
		if strings.TrimSpace(p.RedisAddr) == "" {
			return errors.New("invalid config: rateLimit requires persistence.redisAddr")
		}
	}

	if strings.HasPrefix(cv.conf.Bot.SourceGroup, "@") && len(cv.conf.Bot.SourceGroup) == 1 {
		return errors.New("invalid config: bot.sourceGroup username is empty")
	}
	return nil
}
