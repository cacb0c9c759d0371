package googlesearch

import genai "google.golang.org/genai"

type Option func(*Config)

func WithAPIKey(apiKey string) Option {
	return func(c *Config) {
		c.apiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = temperature
	}
}

func WithClient(clt *genai.Client) Option {
	return func(c *Config) {
		c.client = clt
	}
}
