package discord

// User-facing replies of the bot.
const (
	msgReloadNotChannel    = "This channel cannot be used to reload configuration."
	msgReloadNotRegistered = "This channel has not been registered for configuration."
	msgReloadFailed        = "Reload configuration failed."
	msgReloadSucceeded     = "Reload configuration succeeded."

	msgDumpNotChannel    = "This channel cannot be used to reload configuration."
	msgDumpNotRegistered = "This channel has not been registered for configuration."
	msgDumpSucceeded     = "Configuration dump succeeded."

	msgPuppetStatusLoaded = "Puppet status loaded successfully."

	msgBattleReportSummary = "Battle report summary."
)
