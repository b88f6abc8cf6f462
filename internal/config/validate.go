package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateNetwork(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.RomsDir == "" {
		return errors.New("paths.roms_dir must be set")
	}
	if c.Paths.DatabaseCSV == "" {
		return errors.New("paths.database_csv must be set")
	}
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.GamelistPath == "" {
		return errors.New("paths.gamelist_path must be set")
	}
	return nil
}

func (c *Config) validateNaming() error {
	switch c.Naming.FolderOrganization {
	case "single", "multiple":
	default:
		return fmt.Errorf("naming.folder_organization must be \"single\" or \"multiple\", got %q", c.Naming.FolderOrganization)
	}
	switch c.Naming.FilenameCase {
	case "unchanged", "uppercase", "lowercase":
	default:
		return fmt.Errorf("naming.filename_case must be \"unchanged\", \"uppercase\", or \"lowercase\", got %q", c.Naming.FilenameCase)
	}
	return nil
}

func (c *Config) validateNetwork() error {
	if len(c.Network.IPFSGateways) == 0 {
		return errors.New("network.ipfs_gateways must include at least one gateway")
	}
	if c.Network.RequestTimeout <= 0 {
		return errors.New("network.request_timeout must be positive (seconds)")
	}
	return nil
}
