package constants

// Import triggers recorded on import_run rows
const (
	ImportTriggerCLI      = "CLI"
	ImportTriggerAPI      = "API"
	ImportTriggerSchedule = "SCHEDULE"
)
