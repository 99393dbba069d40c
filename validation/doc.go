// Package validation checks hostkit configuration.
//
// Struct tag validation runs go-playground/validator with field names taken
// from mapstructure tags, so errors name the config key a user wrote:
//
//	type Config struct {
//	    Backend string `mapstructure:"backend" validate:"oneof=memory file sqlite redis"`
//	    Charset string `mapstructure:"default" validate:"omitempty,charset"`
//	}
//	err := validation.Validate(cfg)
//
// Cross-field rules use the programmatic Validator:
//
//	v := validation.New()
//	v.Required("preferences.file.path", cfg.File.Path)
//	return v.Validate()
package validation
