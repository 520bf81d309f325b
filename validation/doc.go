// Package validation validates configuration structs using struct tags.
//
//	type WebDAVConnection struct {
//	    PrivateEndpoint string `mapstructure:"private_endpoint" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// Field names in messages follow the mapstructure tag, so they match the
// keys an operator writes in config.yml.
package validation
