package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/puntos/internal/flagx"
	"github.com/dmitrijs2005/puntos/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "3s"
// or as integer nanoseconds. Pointer fields distinguish "absent" from
// "zero" so the overlay only touches what the file actually sets.
type JsonConfig struct {
	DatabasePath         *string         `json:"database_path"`
	DefaultUser          *string         `json:"default_user"`
	ClearHistoryPassword *string         `json:"clear_history_password"`
	HistoryLimit         *int            `json:"history_limit"`
	SyncEnabled          *bool           `json:"sync_enabled"`
	SyncKey              *string         `json:"sync_key"`
	PushTimeout          *timex.Duration `json:"push_timeout"`
	PushInterval         *timex.Duration `json:"push_interval"`
	WatchInterval        *timex.Duration `json:"watch_interval"`
	S3Region             *string         `json:"s3_region"`
	S3Bucket             *string         `json:"s3_bucket"`
	S3BaseEndpoint       *string         `json:"s3_base_endpoint"`
	S3AccessKey          *string         `json:"s3_access_key"`
	S3SecretKey          *string         `json:"s3_secret_key"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. No file means no overlay. Read or unmarshal errors
// panic; the process has no useful way to continue with half a config.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.DefaultUser, jc.DefaultUser)
	setString(&cfg.ClearHistoryPassword, jc.ClearHistoryPassword)
	if jc.HistoryLimit != nil {
		cfg.HistoryLimit = *jc.HistoryLimit
	}
	if jc.SyncEnabled != nil {
		cfg.SyncEnabled = *jc.SyncEnabled
	}
	setString(&cfg.SyncKey, jc.SyncKey)
	setDuration(&cfg.PushTimeout, jc.PushTimeout)
	setDuration(&cfg.PushInterval, jc.PushInterval)
	setDuration(&cfg.WatchInterval, jc.WatchInterval)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}
