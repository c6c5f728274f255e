package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type envOptions struct {
	RawDir         string
	CleanDir       string
	Workers        int
	MaxRetries     int
	RateLimitRPS   float64
	FailFast       bool
	DatasetsConfig string
	LogLevel       string
	LogFormat      string
}

func loadOptionsFromEnv() (envOptions, error) {
	opts := envOptions{
		RawDir:         envString("RAW_DIR", "data_raw"),
		CleanDir:       envString("CLEAN_DIR", "data_clean"),
		DatasetsConfig: envString("DATASETS_CONFIG", ""),
		LogLevel:       envString("LOG_LEVEL", "info"),
		LogFormat:      envString("LOG_FORMAT", "text"),
	}
	var err error
	if opts.Workers, err = envInt("WORKERS", 4); err != nil {
		return envOptions{}, err
	}
	if opts.MaxRetries, err = envInt("MAX_RETRIES", 2); err != nil {
		return envOptions{}, err
	}
	if opts.RateLimitRPS, err = envFloat("RATE_LIMIT_RPS", 0); err != nil {
		return envOptions{}, err
	}
	if opts.FailFast, err = envBool("FAIL_FAST"); err != nil {
		return envOptions{}, err
	}
	if opts.Workers < 1 {
		return envOptions{}, fmt.Errorf("invalid WORKERS=%d: must be at least 1", opts.Workers)
	}
	if opts.MaxRetries < 0 {
		return envOptions{}, fmt.Errorf("invalid MAX_RETRIES=%d: must not be negative", opts.MaxRetries)
	}
	return opts, nil
}

func envString(varName, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(varName)); v != "" {
		return v
	}
	return fallback
}

func envInt(varName string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envFloat(varName string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return fallback, nil
	}
	out, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}

func envBool(varName string) (bool, error) {
	v := strings.TrimSpace(os.Getenv(varName))
	if v == "" {
		return false, nil
	}
	out, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
