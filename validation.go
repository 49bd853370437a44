package logging

import (
	"sync"

	smerrors "github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

// configLevelNames are the level names a Config may use. The wider level
// table (http, silly, aliases) is only reachable from code.
var configLevelNames = map[string]struct{}{
	"error":   {},
	"warn":    {},
	"info":    {},
	"verbose": {},
	"debug":   {},
	"silent":  {},
}

var validate *validator.Validate
var once sync.Once

func isConfigLevel(fl validator.FieldLevel) bool {
	_, ok := configLevelNames[fl.Field().String()]
	return ok
}

func validateConfig(cfg *Config) error {
	const op smerrors.Op = "logging.validateConfig"
	if cfg == nil {
		return smerrors.New(op).Msg(errMsgNilConfig)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("loglevel", isConfigLevel)
	})

	if err := validate.Struct(cfg); err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgConfigInvalid)
	}
	return nil
}
