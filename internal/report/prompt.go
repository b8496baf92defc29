package report

import (
	"fmt"
	"strings"
)

// Ratings is the overall-assessment scale, worst to best. The model picks
// one; nothing downstream checks that it did.
var Ratings = []string{"Fine", "Satisfactory", "Good", "Excellent"}

// DefaultReviewURL is where the report's call-to-action button points.
const DefaultReviewURL = "http://localhost:3000/hr/Interviews"

// PromptInput is the four request values, already rendered to text.
type PromptInput struct {
	InterviewID     string
	Emotions        string // indented JSON
	ConfidenceLevel string
	Average         string
}

// PromptTemplate holds the fixed parts of the prompt that come from
// configuration rather than the request.
type PromptTemplate struct {
	ReviewURL string
}

// BuildPrompt renders in with the default template.
func BuildPrompt(in PromptInput) string {
	return PromptTemplate{}.Build(in)
}

// Build renders the report-generation prompt. Output depends only on t and
// in: identical inputs give byte-identical prompts.
func (t PromptTemplate) Build(in PromptInput) string {
	reviewURL := t.ReviewURL
	if reviewURL == "" {
		reviewURL = DefaultReviewURL
	}

	var sb strings.Builder

	sb.WriteString("Generate a consistent, clean, professional HTML report for an interview using the following data:\n")
	fmt.Fprintf(&sb, "Interview ID: %s\n", in.InterviewID)
	fmt.Fprintf(&sb, "Confidence Level: %s%%\n", in.ConfidenceLevel)
	fmt.Fprintf(&sb, "Emotions: %s\n", in.Emotions)
	fmt.Fprintf(&sb, "Before And After Report: %s\n\n", in.Average)

	sb.WriteString("Structure:\n")
	sb.WriteString("1. Title: \"Interview Report\"\n")
	sb.WriteString("2. Section: Interview ID\n")
	sb.WriteString("3. Table: one row per distinct emotion with its count (columns: Emotion, Count)\n")
	sb.WriteString("4. Section: Confidence Level\n")
	sb.WriteString("5. Section: Before And After Report\n")
	fmt.Fprintf(&sb, "6. Section: Assessment (Overall rating, exactly one of: %s)\n", strings.Join(Ratings, ", "))
	sb.WriteString("7. Section: Reasoning\n")
	sb.WriteString("8. Section: Further Considerations\n\n")

	sb.WriteString("Use clean HTML with inline CSS only, no external stylesheets. Match this structure and design:\n\n")
	sb.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Interview Report</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 700px; margin: auto; background: #ffffff; padding: 30px; border-radius: 10px; box-shadow: 0 0 10px rgba(0,0,0,0.1);">
    <h2 style="text-align: center; color: #333333;">Interview Report</h2>
`)
	fmt.Fprintf(&sb, "    <p><strong>Interview ID:</strong> %s</p>\n", in.InterviewID)
	sb.WriteString(`
    <h3 style="color: #333;">Emotions Detected</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr style="background-color: #000; color: white;">
          <th style="padding: 10px; border: 1px solid #ccc;">Emotion</th>
          <th style="padding: 10px; border: 1px solid #ccc;">Count</th>
        </tr>
      </thead>
      <tbody>
        <!-- one <tr> per emotion from the data above -->
      </tbody>
    </table>

    <h3 style="color: #333;">Confidence Level</h3>
`)
	fmt.Fprintf(&sb, "    <p>%s%%</p>\n", in.ConfidenceLevel)
	sb.WriteString("    <h3 style=\"color: #333;\">Before And After Report</h3>\n")
	if in.Average == "N/A" {
		fmt.Fprintf(&sb, "    <p>%s</p>\n", in.Average)
	} else {
		fmt.Fprintf(&sb, "    <p>%s%%</p>\n", in.Average)
	}
	sb.WriteString(`
    <h3 style="color: #333;">Assessment</h3>
    <p><strong>Overall Rating:</strong> (chosen from the emotions and confidence level)</p>

    <h3 style="color: #333;">Reasoning</h3>
    <p>[Why the rating was given, based on confidence and emotions]</p>

    <h3 style="color: #333;">Further Considerations</h3>
    <p>[Any concerns or follow-ups]</p>

    <div style="text-align: center; margin-top: 30px;">
`)
	fmt.Fprintf(&sb, "      <a href=\"%s\" style=\"padding: 12px 25px; background: #000; color: white; text-decoration: none; border-radius: 5px;\">Review Briefing</a>\n", reviewURL)
	sb.WriteString(`    </div>
  </div>
</body>
</html>

Return the HTML document only: no code blocks, no triple backticks, no markdown, no explanation before or after it.
`)

	return sb.String()
}
