package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	Port              string
	SourcesFile       string
	SchedulerInterval int
	WorkerCount       int
	APIAccessKey      string

	// Rewrite service configuration
	RewriteEndpoint string
	RewriteModel    string
	RewriteAPIKey   string
	SiteURL         string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// RewriteEnabled reports whether the external rewrite service is configured.
func (c *Cfg) RewriteEnabled() bool {
	return c.RewriteAPIKey != ""
}
