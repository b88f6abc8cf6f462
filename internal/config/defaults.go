package config

const (
	defaultRomsDir        = "~/.local/share/cartshelf/roms"
	defaultDatabaseCSV    = "~/.local/share/cartshelf/database/games_info.csv"
	defaultMediaDir       = "~/.local/share/cartshelf/media"
	defaultGamelistPath   = "~/.local/share/cartshelf/gamelist.xml"
	defaultBackupRomsDir  = "~/.local/share/cartshelf/backuped-roms"
	defaultLogDir         = "~/.local/share/cartshelf/logs"
	defaultItchHeaderPath = "~/.local/share/cartshelf/itch_request_header.txt"
	defaultSourceCodeDir  = "~/.local/share/cartshelf/source-code"
	defaultDescribeOutDir = "~/.local/share/cartshelf/descriptions"

	defaultRequestTimeout = 30
	defaultUserAgent      = "cartshelf/1.0 (+https://github.com/cartshelf/cartshelf)"

	defaultLLMBaseURL        = "https://api.deepinfra.com/v1/openai"
	defaultLLMModel          = "openai/gpt-oss-120b"
	defaultLLMTimeoutSeconds = 120
	defaultLLMWorkers        = 5

	defaultFolderOrganization = "single"
	defaultFilenameCase       = "uppercase"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

var defaultIPFSGateways = []string{
	"gateway.ipfs.io",
	"ipfs.io",
	"gateway.pinata.cloud",
	"dweb.link",
	"cf-ipfs.com",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RomsDir:        defaultRomsDir,
			DatabaseCSV:    defaultDatabaseCSV,
			MediaDir:       defaultMediaDir,
			GamelistPath:   defaultGamelistPath,
			BackupRomsDir:  defaultBackupRomsDir,
			LogDir:         defaultLogDir,
			ItchHeaderPath: defaultItchHeaderPath,
			SourceCodeDir:  defaultSourceCodeDir,
			DescribeOutDir: defaultDescribeOutDir,
		},
		Network: Network{
			IPFSGateways:   append([]string{}, defaultIPFSGateways...),
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			Workers:        defaultLLMWorkers,
		},
		Naming: Naming{
			FolderOrganization:  defaultFolderOrganization,
			FilenameCase:        defaultFilenameCase,
			CategoryParenthesis: true,
			UseCustomFilenames:  true,
			UseCustomGamenames:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
