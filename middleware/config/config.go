package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/freehandle/minddapp/client"
	"github.com/freehandle/minddapp/middleware/gateway"
	"github.com/freehandle/minddapp/middleware/questions"
)

type Configurable interface {
	Check() error
}

func LoadConfig[T Configurable](path string) (*T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open configuration file: %v", err)
	}
	defer file.Close()
	var config T
	err = json.NewDecoder(file).Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("could not parse configuration file: %v", err)
	}
	if err := config.Check(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return &config, nil
}

func ParseJSON[T any](config string) (*T, error) {
	var node T
	err := json.Unmarshal([]byte(config), &node)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// ServerConfig is the configuration of the minddapp gateway server
type ServerConfig struct {
	// Network node and chain parameters
	Network client.Config `json:"network"`
	// Question board parameters
	Board questions.Config `json:"board"`
	// Gateway listening address. Hostname should be a loopback address since
	// keys travel in request bodies.
	Gateway gateway.Configuration `json:"gateway"`
	// LogLevel is one of DEBUG, INFO, WARN, ERROR
	LogLevel slog.Level `json:"logLevel"`
}

// StandardServerConfig talks to the community testnet and listens on
// localhost:7000.
var StandardServerConfig = ServerConfig{
	Network:  client.TestnetConfig(),
	Board:    questions.DefaultConfig(),
	Gateway:  gateway.Configuration{Hostname: "localhost", Port: 7000},
	LogLevel: slog.LevelInfo,
}
