// Package config loads sync inputs from environment variables, an optional
// .env file, and command-line flags bound through viper. Names follow the
// original action inputs (ms_client_id, admina_org_id, ...), so the same
// environment drives both.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/moneyforward-i/admina-sso-sync/pkg/constants"
	"github.com/moneyforward-i/admina-sso-sync/pkg/errors"
)

// AzureAD holds the directory-side credentials.
type AzureAD struct {
	ClientID     string
	ClientSecret string
	TenantID     string
}

// Admina holds the destination-side credentials.
type Admina struct {
	Endpoint string
	OrgID    string
	APIKey   string
}

// Records holds the alternate record-source settings (Kintone-shaped API).
type Records struct {
	SubDomain    string
	AppID        string
	APIKey       string
	FieldMapping string
}

// Config is the full set of sync inputs.
type Config struct {
	AzureAD AzureAD
	Admina  Admina
	Records Records

	RegisterZeroUserApp bool
	RegisterDisabledApp bool
	PreloadCache        bool
	TargetServices      []string

	ChunkSize   int
	Concurrency int
	DryRun      bool
}

// Init wires viper to the process environment. An optional .env file is
// loaded first so local runs behave like CI.
func Init() {
	_ = godotenv.Load()
	viper.AutomaticEnv()
}

// GetString is a helper to get string values from viper.
// It checks both OS environment variables and viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GetBool reads a boolean flag the way the original inputs did: only the
// literal string "true" enables it.
func GetBool(key string) bool {
	return GetString(key) == "true"
}

// Load reads the full configuration from the environment.
func Load() *Config {
	cfg := &Config{
		AzureAD: AzureAD{
			ClientID:     GetString("ms_client_id"),
			ClientSecret: GetString("ms_client_secret"),
			TenantID:     GetString("ms_tenant_id"),
		},
		Admina: Admina{
			Endpoint: constants.AdminaEndpoint,
			OrgID:    GetString("admina_org_id"),
			APIKey:   GetString("admina_api_token"),
		},
		Records: Records{
			SubDomain:    GetString("kintone_sub_domain"),
			AppID:        GetString("kintone_app_id"),
			APIKey:       GetString("kintone_api_key"),
			FieldMapping: GetString("kintone_field_mapping"),
		},
		RegisterZeroUserApp: GetBool("register_zero_user_app"),
		RegisterDisabledApp: GetBool("register_disabled_app"),
		ChunkSize:           constants.ChunkSize,
		Concurrency:         constants.ConcurrentRequests,
	}

	// Preload defaults to on; set preload_cache=false to disable.
	if v := GetString("preload_cache"); v != "" {
		cfg.PreloadCache = v == "true"
	} else {
		cfg.PreloadCache = true
	}

	if endpoint := GetString("admina_endpoint"); endpoint != "" {
		cfg.Admina.Endpoint = endpoint
	}

	if targets := GetString("target_services"); targets != "" {
		for _, name := range strings.Split(targets, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.TargetServices = append(cfg.TargetServices, name)
			}
		}
	}

	return cfg
}

// Require verifies that every named input is present.
func Require(cfg map[string]string) error {
	for key, value := range cfg {
		if value == "" {
			return &errors.ConfigError{Key: key, Message: "environment variable is not set"}
		}
	}
	return nil
}

// ValidateAzureAD checks the directory credentials.
func (c *Config) ValidateAzureAD() error {
	return Require(map[string]string{
		"ms_client_id":     c.AzureAD.ClientID,
		"ms_client_secret": c.AzureAD.ClientSecret,
		"ms_tenant_id":     c.AzureAD.TenantID,
	})
}

// ValidateAdmina checks the destination credentials.
func (c *Config) ValidateAdmina() error {
	return Require(map[string]string{
		"admina_org_id":    c.Admina.OrgID,
		"admina_api_token": c.Admina.APIKey,
	})
}

// ValidateRecords checks the record-source settings.
func (c *Config) ValidateRecords() error {
	return Require(map[string]string{
		"kintone_sub_domain":    c.Records.SubDomain,
		"kintone_app_id":        c.Records.AppID,
		"kintone_api_key":       c.Records.APIKey,
		"kintone_field_mapping": c.Records.FieldMapping,
	})
}
