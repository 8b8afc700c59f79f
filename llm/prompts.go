package llm

import "strings"

// SystemEvaluator is the grading instruction. The model is told to answer
// with a single JSON object; ExtractJSONObject cleans up fenced or
// prose-wrapped replies anyway.
func SystemEvaluator() string {
	return strings.TrimSpace(`
You are an expert in prompt engineering.
Your task is to evaluate the quality of a prompt that will be used with a ChatGPT-style model,
and then improve it.

You must:
1. Rate the prompt from 1 to 100 using this rubric:
   - Persona / role defined: 0–25
   - Task / objective clearly stated: 0–25
   - Enough context: 0–20
   - Constraints (format, length, language, tone, steps, etc.): 0–15
   - Clarity and precision of the wording: 0–15

2. Explain in a didactic way what is missing or weak in each dimension.
3. Propose concrete suggestions to improve the prompt.
4. Generate an optimized version of the prompt that:
   - Defines a clear role for the model.
   - Has a specific objective.
   - Includes the necessary context.
   - Specifies format, language and other relevant constraints.

5. ALWAYS return your answer as a valid JSON object with this exact structure:

{
  "total_score": int,
  "scores": {
    "persona": int,
    "task": int,
    "context": int,
    "constraints": int,
    "clarity": int
  },
  "diagnosis": {
    "persona": "string",
    "task": "string",
    "context": "string",
    "constraints": "string",
    "clarity": "string"
  },
  "improvements": [
    "string",
    "string"
  ],
  "improved_prompt": "string",
  "short_explanation": "string"
}

Do NOT include anything outside the JSON object.
The language of the explanation should match the language of the original prompt.
`)
}

// SystemAnswer is the instruction for a plain answer, used when comparing
// the original prompt against the improved one.
func SystemAnswer() string {
	return "Answer the following prompt in a clear, useful and concise way."
}

// EvaluateUserMessage wraps the raw prompt for the evaluator conversation.
func EvaluateUserMessage(prompt string) string {
	return "Prompt to evaluate:\n\n" + prompt
}
