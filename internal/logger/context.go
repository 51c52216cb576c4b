package logger

// Component-specific logger functions

// HTTP returns a logger for request handling.
func HTTP() Logger {
	return WithField("component", "http")
}

// Store returns a logger for repository operations.
func Store() Logger {
	return WithField("component", "store")
}

// Migration returns a logger for schema migration operations.
func Migration() Logger {
	return WithField("component", "migration")
}

// CLI returns a logger for CLI operations.
func CLI() Logger {
	return WithField("component", "cli")
}

// DB returns a logger for database connection management.
func DB() Logger {
	return WithField("component", "db")
}
