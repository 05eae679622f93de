package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/accrualworks/wd-accruals/internal/domain/repository"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	validate *validator.Validate
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{validate: validator.New()}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Keys missing from the file keep their default values.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	// Lê o arquivo
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := types.DefaultConfig()

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return config, nil
}

// Validate checks the struct tags of the configuration and a few cross-field rules.
func (r *ConfigRepositoryImpl) Validate(cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: configuration is nil", types.ErrInvalidConfig)
	}

	if err := r.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			problems := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				problems = append(problems, formatFieldError(fe))
			}
			return fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(problems, "; "))
		}
		return fmt.Errorf("%w: %v", types.ErrInvalidConfig, err)
	}

	sheets := map[int]string{}
	for name, idx := range map[string]int{
		"cost_center_sheet": cfg.Master.CostCenterSheet,
		"account_sheet":     cfg.Master.AccountSheet,
		"template_sheet":    cfg.Master.TemplateSheet,
	} {
		if other, dup := sheets[idx]; dup {
			return fmt.Errorf("%w: master %s and %s both point at sheet %d", types.ErrInvalidConfig, other, name, idx)
		}
		sheets[idx] = name
	}

	return nil
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "min", "gt":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"min": ">=", "gt": ">"}[fe.Tag()], fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
