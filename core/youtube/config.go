package youtube

// Config holds configuration for the YouTube Data API collaborator.
type Config struct {
	// TokenDir holds one directory per archived account with its OAuth token.
	TokenDir string `mapstructure:"token_dir" default:"data/tokens"`
	// ClientSecrets is the OAuth client id JSON downloaded from the Cloud console.
	ClientSecrets string `mapstructure:"client_secrets" default:"data/tokens/client_secrets.json"`
	// CallbackPort is the loopback port receiving the OAuth redirect.
	CallbackPort int `mapstructure:"callback_port" default:"7020"`
	// RequestsPerSecond caps API calls made by one client.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// MaxRetries is the number of retries for a failed API call.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
}
