package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		APIKey       string `json:"api_key"`
		TokenSignKey string `json:"token_sign_key"`
		APIVersion   int    `json:"api_version"`
		LogLevel     string `json:"log_level"`
		LogFile      string `json:"log_file"`
	} `json:"app,omitempty"`

	Collection struct {
		BaseDir string `json:"base_dir"`
		Create  bool   `json:"create"`
	} `json:"collection,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		CORSOrigins    []string `json:"cors_origins"`
	} `json:"server,omitempty"`

	Sync struct {
		HostKey       string   `json:"host_key"`
		Endpoint      string   `json:"endpoint"`
		DebounceDelay Duration `json:"debounce_delay"`
		PeriodicDelay Duration `json:"periodic_delay"`
		IOTimeout     Duration `json:"io_timeout"`
		Media         bool     `json:"media"`
	} `json:"sync,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			APIKey:       jsonCfg.App.APIKey,
			TokenSignKey: jsonCfg.App.TokenSignKey,
			APIVersion:   jsonCfg.App.APIVersion,
			LogLevel:     jsonCfg.App.LogLevel,
			LogFile:      jsonCfg.App.LogFile,
		},
		Collection: Collection{
			BaseDir: jsonCfg.Collection.BaseDir,
			Create:  jsonCfg.Collection.Create,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			CORSOrigins:    jsonCfg.Server.CORSOrigins,
		},
		Sync: Sync{
			HostKey:       jsonCfg.Sync.HostKey,
			Endpoint:      jsonCfg.Sync.Endpoint,
			DebounceDelay: time.Duration(jsonCfg.Sync.DebounceDelay),
			PeriodicDelay: time.Duration(jsonCfg.Sync.PeriodicDelay),
			IOTimeout:     time.Duration(jsonCfg.Sync.IOTimeout),
			Media:         jsonCfg.Sync.Media,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
