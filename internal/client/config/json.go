package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/farmlingo/farmlingo/internal/flagx"
	"github.com/farmlingo/farmlingo/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can spell timeouts either as strings like "15s" or
// as integer nanoseconds. Absent fields leave the current value untouched.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	TokenTimeout   *timex.Duration `json:"token_timeout"`
	StateDBPath    *string         `json:"state_db_path"`
	TokenFile      *string         `json:"token_file"`
}

// parseJson overlays Config with values loaded from a JSON file named via the
// -c/-config flags. When no file is named, nothing happens. Read or parse
// errors panic; configuration this broken should stop the program early.
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

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.TokenTimeout != nil {
		cfg.TokenTimeout = time.Duration(jc.TokenTimeout.Duration)
	}
	if jc.StateDBPath != nil {
		cfg.StateDBPath = *jc.StateDBPath
	}
	if jc.TokenFile != nil {
		cfg.TokenFile = *jc.TokenFile
	}
}
