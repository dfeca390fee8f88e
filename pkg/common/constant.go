package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyNotifyAPIBaseURL string = "NOTIFY_API_BASE_URL"
	EnvKeyNotifyDBType     string = "NOTIFY_DB_TYPE"
	EnvKeyNotifyDBPath     string = "NOTIFY_DB_PATH"

	EnvKeyNotifyPollPeriod    string = "NOTIFY_POLL_PERIOD"
	EnvKeyNotifyMutationRate  string = "NOTIFY_MUTATION_RATE"
	EnvKeyNotifyMutationBurst string = "NOTIFY_MUTATION_BURST"

	EnvKeySandboxHostPort string = "NOTIFY_SANDBOX_HOST_PORT"

	LoggerNameNotifyEngine string = "notify_engine"
	LoggerNameRemoteAPI    string = "remote_api"
	LoggerNameSandbox      string = "sandbox"

	LoggerFieldCategory      string = "category"
	LoggerCategoryFetch      string = "fetch"
	LoggerCategoryFilter     string = "filter"
	LoggerCategoryStore      string = "store"
	LoggerCategoryCleared    string = "cleared"
	LoggerCategoryUserConfig string = "user_config"
	LoggerCategoryMutate     string = "mutate"
	LoggerCategoryScheduler  string = "scheduler"
)
