package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config holds the options recognised by the detection pipelines.
type Config struct {
	CameraIndex             int     `validate:"gte=0"`
	CascadePath             string  `validate:"required"`
	ClassificationThreshold float64 `validate:"gt=0,lt=1"`
	InputWidth              int     `validate:"gt=0"`
	InputHeight             int     `validate:"gt=0"`
	LogDirectory            string  `validate:"required"`
	LogFile                 string  `validate:"required"`
	StopKey                 string  `validate:"len=1,printascii"`

	Mirror         bool
	MaskModelPath  string
	MaskConfigPath string
}

// Load reads configuration from the environment, loading a .env file first when present.
func Load() *Config {
	// Missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	return &Config{
		CameraIndex:             getEnvAsInt("CAMERA_INDEX", 0),
		Mirror:                  getEnvAsBool("MIRROR", true),
		CascadePath:             getEnv("CASCADE_PATH", filepath.Join(".", "models", "haarcascade_frontalface_default.xml")),
		MaskModelPath:           getEnv("MASK_MODEL_PATH", filepath.Join(".", "models", "mask_detector.onnx")),
		MaskConfigPath:          getEnv("MASK_CONFIG_PATH", ""),
		ClassificationThreshold: getEnvAsFloat("CLASSIFICATION_THRESHOLD", 0.5),
		InputWidth:              getEnvAsInt("INPUT_WIDTH", 224),
		InputHeight:             getEnvAsInt("INPUT_HEIGHT", 224),
		LogDirectory:            getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogFile:                 getEnv("LOG_FILE", "maskify.log"),
		StopKey:                 getEnv("STOP_KEY", "q"),
	}
}

// Validate checks ranges of the numeric options and presence of required paths.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), rule))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
}

// ValidateMask additionally requires a classifier model path.
func (c *Config) ValidateMask() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.MaskModelPath == "" {
		return fmt.Errorf("invalid configuration: MaskModelPath (required)")
	}
	return nil
}

// LogPath is the full path of the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogDirectory, c.LogFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
