package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Tasks":                                  "tasks",
		"Average Unit Execution Time in Minutes": "average_unit_execution_time_in_minutes",
		" Number Treated ":                       "number_treated",
		"execution_date":                         "execution_date",
		"Agent-Name":                             "agent_name",
		"Target Daily (units)":                   "target_daily_units",
		"%%":                                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestParse(t *testing.T) {
	content := []byte("\xEF\xBB\xBFAgent Name,Task Name,Number Treated\r\n\r\nAlice,Sales Calls,50\n  \n\"Bob, Jr\",Emails,12\nCarol\n")

	doc, err := Parse(content, []string{"agent_name", "task_name", "number_treated"})
	require.NoError(t, err)
	assert.Equal(t, []string{"agent_name", "task_name", "number_treated"}, doc.Columns)
	require.Len(t, doc.Records, 3)

	assert.Equal(t, 2, doc.Records[0].Line)
	assert.Equal(t, "Alice", doc.Records[0].Get("agent_name"))
	assert.Equal(t, "50", doc.Records[0].Get("number_treated"))

	assert.Equal(t, 3, doc.Records[1].Line)
	assert.Equal(t, "Bob, Jr", doc.Records[1].Get("agent_name"))

	assert.Equal(t, 4, doc.Records[2].Line)
	assert.Equal(t, "", doc.Records[2].Get("task_name"))
	assert.True(t, doc.Records[2].Has("task_name"))
	assert.False(t, doc.Records[2].Has("execution_date"))
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := Parse([]byte("Tasks,Target Daily\nA,1\n"), []string{"tasks", "average_unit_execution_time_in_minutes", "target_daily"})

	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"average_unit_execution_time_in_minutes"}, missing.Columns)
}

func TestParse_WholeFileErrors(t *testing.T) {
	_, err := Parse([]byte(" \n\n"), nil)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = Parse([]byte{'a', 0xff, 0xfe, '\n'}, nil)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestParse_HeaderOnly(t *testing.T) {
	doc, err := Parse([]byte("email,target_date\n"), []string{"email"})
	require.NoError(t, err)
	assert.Empty(t, doc.Records)
}

func TestIsBinarySpreadsheet(t *testing.T) {
	assert.True(t, IsBinarySpreadsheet("targets.XLS", []byte("a,b")))
	assert.True(t, IsBinarySpreadsheet("targets.xlsx", nil))
	assert.True(t, IsBinarySpreadsheet("upload.csv", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00}))
	assert.True(t, IsBinarySpreadsheet("upload", []byte("PK\x03\x04rest")))
	assert.False(t, IsBinarySpreadsheet("upload.csv", []byte("email,target_date\n")))
}
