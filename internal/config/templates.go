package config

import (
	"fmt"
	"os"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const template = `[mpd]
network = "tcp"
addr = "localhost:6600"
password = ""
reconnect_max_delay = "30s"
# poll_interval = "10s"

[log]
level = "info"

[metrics]
# addr = "127.0.0.1:9101"

[output]
pretty = true
`
