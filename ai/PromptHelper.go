package ai

import (
	"fmt"
	"strings"

	"askchart/models"
)

// BuildClassifyPrompt constructs the system prompt that asks the model to
// answer with a chart intent for the given table.
func BuildClassifyPrompt(table string, schema []models.Column) string {
	var promptBuilder strings.Builder
	promptBuilder.WriteString("You are a data analysis expert. Analyze the user's question and either write a SQLite query that answers it with a chart, or answer in plain text.\n\n")

	promptBuilder.WriteString(fmt.Sprintf("Table: %s\n", table))
	promptBuilder.WriteString("Columns:\n")
	for _, col := range schema {
		promptBuilder.WriteString(fmt.Sprintf("- %s (%s)\n", col.Name, col.Type))
	}

	promptBuilder.WriteString("\nRules:\n")
	promptBuilder.WriteString("- Only read data. Never modify the table.\n")
	promptBuilder.WriteString("- The first selected column becomes the chart labels; the remaining numeric columns become series.\n\n")

	promptBuilder.WriteString("Always respond with this JSON object:\n")
	promptBuilder.WriteString("{\n")
	promptBuilder.WriteString("    \"chart_request\": 1 or 0,\n")
	promptBuilder.WriteString("    \"sql_query\": \"SQL query string\",\n")
	promptBuilder.WriteString("    \"chart_type\": \"bar/line/pie/doughnut/scatter\",\n")
	promptBuilder.WriteString("    \"description\": \"explanation text\"\n")
	promptBuilder.WriteString("}")

	return promptBuilder.String()
}
