package ai

import (
	"fmt"
	"strings"

	"github.com/atinyakov/GophTasks/internal/models"
)

func tagNames() string {
	names := make([]string, len(models.PredefinedTags))
	for i, t := range models.PredefinedTags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func projectHeader(sb *strings.Builder, name, description string) {
	fmt.Fprintf(sb, "Project Name: %s\n", name)
	if description != "" {
		fmt.Fprintf(sb, "Description: %s\n", description)
	}
}

func tasksPrompt(name, description string) string {
	var sb strings.Builder

	sb.WriteString("As a software project manager, generate a comprehensive list of ")
	sb.WriteString("engineering tasks for the following project:\n\n")
	projectHeader(&sb, name, description)

	sb.WriteString("\nPlease generate 8-12 specific, actionable tasks that cover:\n")
	sb.WriteString("- Backend development tasks\n")
	sb.WriteString("- Frontend development tasks\n")
	sb.WriteString("- Testing requirements\n")
	sb.WriteString("- Design considerations if applicable\n")
	sb.WriteString("- Documentation needs\n\n")

	sb.WriteString("For each task, provide:\n")
	sb.WriteString("1. A short name (2-5 words)\n")
	sb.WriteString("2. A clear title describing the task\n")
	sb.WriteString("3. A detailed description of what needs to be done\n")
	sb.WriteString("4. Suggested status: URGENT or ONGOING\n")
	fmt.Fprintf(&sb, "5. Suggested tags: Choose from [%s]\n\n", tagNames())

	sb.WriteString("Return ONLY valid JSON array format with no markdown formatting, ")
	sb.WriteString("no code blocks, no explanations. Just the raw JSON array like this:\n")
	sb.WriteString(`[
  {
    "name": "Setup Database",
    "title": "Configure PostgreSQL database schema",
    "description": "Set up the database with required tables and relationships",
    "suggestedStatus": "URGENT",
    "suggestedTags": ["Backend", "Database"]
  }
]`)
	return sb.String()
}

func summaryPrompt(name, description string, tasks []TaskBrief) string {
	var sb strings.Builder

	sb.WriteString("You are a software project advisor. Provide a concise, ")
	sb.WriteString("well-structured summary for this project.\n\n")
	projectHeader(&sb, name, description)

	if len(tasks) > 0 {
		fmt.Fprintf(&sb, "\nCurrent Tasks (%d tasks):\n", len(tasks))
		for _, t := range tasks {
			fmt.Fprintf(&sb, "- %s: %s [%s]\n", t.Name, t.Title, t.Status)
		}
	}

	sb.WriteString("\nProvide your response in this EXACT format with these 3 sections:\n\n")
	sb.WriteString("OVERVIEW:\n[2-3 sentences about what this project is and its core purpose]\n\n")
	sb.WriteString("KEY RECOMMENDATIONS:\n")
	sb.WriteString("• [First actionable recommendation]\n")
	sb.WriteString("• [Second actionable recommendation]\n")
	sb.WriteString("• [Third actionable recommendation]\n\n")
	sb.WriteString("POTENTIAL CHALLENGES:\n")
	sb.WriteString("• [First challenge to watch out for]\n")
	sb.WriteString("• [Second challenge to consider]\n\n")
	sb.WriteString("KEEP IT:\n")
	sb.WriteString("- Concise and actionable\n")
	sb.WriteString("- Free of citations or reference numbers like [1] or [2]\n")
	sb.WriteString("- Professional but conversational\n")
	sb.WriteString("- Under 200 words total")
	return sb.String()
}
