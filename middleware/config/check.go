package config

import (
	"fmt"
)

func (c ServerConfig) Check() error {
	if err := c.Network.Check(); err != nil {
		return fmt.Errorf("Network %v", err)
	}
	if err := c.Board.Check(); err != nil {
		return fmt.Errorf("Board %v", err)
	}
	if err := c.Gateway.Check(); err != nil {
		return fmt.Errorf("Gateway %v", err)
	}
	return nil
}
