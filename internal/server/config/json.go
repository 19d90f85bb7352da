package config

import (
	"encoding/json"
	"os"

	"github.com/avolkovs/accountd/internal/flagx"
	"github.com/avolkovs/accountd/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Durations use
// timex.Duration, which accepts both strings like "15s" and integer
// nanoseconds; values are copied into the runtime Config afterwards.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	MailSendTimeout timex.Duration `json:"mail_send_timeout"`
}

// parseJson overlays configuration from the JSON file named by the -c/-config
// flags. When neither flag is set, nothing is loaded. An unreadable or
// invalid file panics: a config file that was asked for but cannot be used is
// a startup error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.RequestTimeout = c.RequestTimeout.Duration
	config.MailSendTimeout = c.MailSendTimeout.Duration
}
