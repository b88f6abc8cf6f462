package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNetwork()
	c.normalizeLLM()
	c.normalizeNaming()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"paths.roms_dir", &c.Paths.RomsDir},
		{"paths.database_csv", &c.Paths.DatabaseCSV},
		{"paths.media_dir", &c.Paths.MediaDir},
		{"paths.gamelist_path", &c.Paths.GamelistPath},
		{"paths.backup_roms_dir", &c.Paths.BackupRomsDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.itch_header_path", &c.Paths.ItchHeaderPath},
		{"paths.source_code_dir", &c.Paths.SourceCodeDir},
		{"paths.describe_out_dir", &c.Paths.DescribeOutDir},
	}
	for _, field := range fields {
		expanded, err := expandPath(*field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeNetwork() {
	gateways := make([]string, 0, len(c.Network.IPFSGateways))
	seen := make(map[string]struct{}, len(c.Network.IPFSGateways))
	for _, gateway := range c.Network.IPFSGateways {
		normalized := strings.TrimSpace(gateway)
		normalized = strings.TrimPrefix(normalized, "https://")
		normalized = strings.TrimSuffix(normalized, "/")
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		gateways = append(gateways, normalized)
	}
	if len(gateways) == 0 {
		gateways = append(gateways, defaultIPFSGateways...)
	}
	c.Network.IPFSGateways = gateways

	if c.Network.RequestTimeout <= 0 {
		c.Network.RequestTimeout = defaultRequestTimeout
	}
	c.Network.UserAgent = strings.TrimSpace(c.Network.UserAgent)
	if c.Network.UserAgent == "" {
		c.Network.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("CARTSHELF_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.Workers <= 0 {
		c.LLM.Workers = defaultLLMWorkers
	}
}

func (c *Config) normalizeNaming() {
	c.Naming.FolderOrganization = strings.ToLower(strings.TrimSpace(c.Naming.FolderOrganization))
	if c.Naming.FolderOrganization == "" {
		c.Naming.FolderOrganization = defaultFolderOrganization
	}
	c.Naming.FilenameCase = strings.ToLower(strings.TrimSpace(c.Naming.FilenameCase))
	if c.Naming.FilenameCase == "" {
		c.Naming.FilenameCase = defaultFilenameCase
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
