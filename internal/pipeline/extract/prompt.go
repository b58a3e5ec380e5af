// internal/pipeline/extract/prompt.go
package extract

import (
	"fmt"
	"strings"

	"ideas-pipeline/internal/models"
)

// promptTemplate is the single analysis prompt. The embedded "id: text"
// lines are the only post surface the model sees; IDs must round-trip
// verbatim for reconciliation to work.
const promptTemplate = `
You are an expert startup analyst and market researcher specializing in identifying unmet market needs from social media data. Your task is to analyze tweets and extract actionable product opportunities for entrepreneurs and product managers.

## TASK
Analyze the provided tweets to identify genuine product requests and market opportunities. Extract exactly 10 product requests that represent the most promising business opportunities.

## ANALYSIS CRITERIA
For each product request, identify:

1. **Product Category**: The specific type of tool, app, or service being requested
   - Examples: "Productivity Tool", "Social Media App", "Developer Tool", "Health App", "E-commerce Solution", "Educational Platform"
   - Be specific and descriptive

2. **Description**: A clear, concise description of the desired product functionality
   - Focus on what the user wants to accomplish
   - Include key features mentioned or implied

3. **Pain Point**: The specific problem, frustration, or unmet need the user is experiencing
   - Identify the root cause of their frustration
   - Describe the current workaround or limitation

4. **Target Audience**: The primary users who would benefit from this product
   - Examples: "Developers", "Content Creators", "Small Business Owners", "Students", "Remote Workers"
   - Be specific about demographics or professional groups

5. **Urgency Level**: Assess the urgency based on language intensity and context
   - **High**: Uses words like "desperately need", "frustrated", "annoying", "wish this existed"
   - **Medium**: Shows interest but less emotional language
   - **Low**: Casual mention or curiosity

6. **Tweet IDs**: List all tweet IDs that contribute to this product request
   - Use the EXACT tweet IDs as shown in the tweet list below
   - Include tweets that express similar needs or pain points
   - Group related requests together

## QUALITY FILTERS
- Focus on genuine product opportunities, not casual complaints
- Prioritize requests with clear use cases and target audiences
- Look for patterns and recurring themes across multiple tweets
- Exclude requests that are too vague or already have existing solutions
- Ensure each request represents a distinct product opportunity

## OUTPUT FORMAT
Return your analysis as a JSON object with exactly this structure:

{
    "product_requests": [
        {
            "category": "string",
            "description": "string",
            "pain_point": "string",
            "target_audience": "string",
            "urgency_level": "High|Medium|Low",
            "tweet_ids": ["string", "string", "string"]
        }
    ]
}

## IMPORTANT INSTRUCTIONS
- Return ONLY the JSON object, no additional text
- Do not include markdown formatting, code blocks, or explanatory text
- Ensure the JSON is valid and properly formatted
- Include exactly 10 product requests, no more, no less
- Each product request should be distinct and represent a different opportunity
- Use tweet IDs exactly as they appear in the list below

## TWEETS TO ANALYZE
%s
`

// BuildPrompt renders the analysis prompt for a batch of posts.
func BuildPrompt(posts []models.NormalizedPost) string {
	var b strings.Builder
	for i, post := range posts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(post.ID)
		b.WriteString(": ")
		b.WriteString(post.Text)
	}
	return fmt.Sprintf(promptTemplate, b.String())
}
