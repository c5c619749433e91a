package config

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewBackendForTest creates a Backend config for testing purposes
func NewBackendForTest(backend, restURL, projectID string) *Backend {
	return &Backend{backend: backend, restURL: restURL, projectID: projectID}
}

// NewNotifyForTest creates a Notify config for testing purposes
func NewNotifyForTest(console bool, webhookURL, botToken, channel string) *Notify {
	return &Notify{console: console, webhookURL: webhookURL, botToken: botToken, channel: channel}
}

// NewSchemaForTest creates a Schema config for testing purposes
func NewSchemaForTest(path string) *Schema {
	return &Schema{path: path}
}
