package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/scribe/internal/contract"
)

// Config error codes surfaced by the init command.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigParse    = "CONFIG_PARSE"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
)

// ConfigError represents an error that occurred during config loading.
type ConfigError struct {
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// instantiateConfig is the CUE shape of an instantiation config file.
// All fields are optional; zero values fall back to contract defaults.
//
//	owner:             "alice"
//	finality_enabled:  true
//	finality_provider: "babylon"
//	max_message_size:  1024
type instantiateConfig struct {
	Owner            string `json:"owner"`
	FinalityEnabled  bool   `json:"finality_enabled"`
	FinalityProvider string `json:"finality_provider"`
	MaxMessageSize   uint64 `json:"max_message_size"`
}

// LoadInstantiateConfig reads a CUE config file into an instantiation
// message. An empty path yields the all-defaults message.
func LoadInstantiateConfig(path string) (contract.InstantiateMsg, error) {
	if path == "" {
		return contract.InstantiateMsg{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return contract.InstantiateMsg{}, &ConfigError{
				Code:    ErrCodeConfigNotFound,
				Message: fmt.Sprintf("config file not found: %s", path),
			}
		}
		return contract.InstantiateMsg{}, &ConfigError{
			Code:    ErrCodeConfigNotFound,
			Message: fmt.Sprintf("error reading config file: %v", err),
		}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return contract.InstantiateMsg{}, &ConfigError{
			Code:    ErrCodeConfigParse,
			Message: fmt.Sprintf("parsing CUE config: %v", err),
		}
	}

	var cfg instantiateConfig
	if err := value.Decode(&cfg); err != nil {
		return contract.InstantiateMsg{}, &ConfigError{
			Code:    ErrCodeConfigInvalid,
			Message: fmt.Sprintf("decoding config: %v", err),
		}
	}

	if cfg.FinalityEnabled && cfg.FinalityProvider == "" {
		return contract.InstantiateMsg{}, &ConfigError{
			Code:    ErrCodeConfigInvalid,
			Message: "finality_enabled requires finality_provider",
		}
	}

	return contract.InstantiateMsg{
		Owner:            cfg.Owner,
		FinalityEnabled:  cfg.FinalityEnabled,
		FinalityProvider: cfg.FinalityProvider,
		MaxMessageSize:   cfg.MaxMessageSize,
	}, nil
}
