package constants

const (
	DatabaseTypePostgreSQL = "postgresql"
	DatabaseTypeMySQL      = "mysql"
	DatabaseTypeClickhouse = "clickhouse"
)

// Collections and tables
const (
	ConversationCollection = "conversations"
	AgentsTable            = "agents"
	UsersTable             = "users"
	FeedbackTable          = "feedback"
)
