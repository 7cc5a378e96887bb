package execution

import (
	"fmt"
	"time"
)

// AgentExecution aggregates one agent's completed work units for a day.
type AgentExecution struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	AgentName        string         `json:"agent_name"`
	ExecutionDate    string         `json:"execution_date"`
	TotalExecutions  int            `json:"total_executions"`
	ExecutionsByType map[string]int `json:"executions_by_type"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func ID(userID, date string) string {
	return fmt.Sprintf("exec-%s-%s", userID, date)
}
