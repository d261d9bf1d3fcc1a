package openai

const alignmentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "is_valid_alignment": {
      "type": "boolean"
    },
    "confidence": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    },
    "reason": {
      "type": "string"
    }
  },
  "required": ["is_valid_alignment", "confidence", "reason"],
  "additionalProperties": false
}`

const alignmentPromptTemplate = `You judge sentence alignments between an English source text and an
Italian target text. Decide whether the target text is a retrievable
translation match for the source text: a reader searching for the source
passage should be satisfied to receive the target passage.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "is_valid_alignment" is true only when the two texts express the same content.
- "confidence" is a number from 0 (pure guess) to 1 (certain).
- "reason" is one short sentence justifying the verdict.
- Partial overlap with substantial missing or extra content is not a valid alignment.
- Differences in punctuation, casing, or formatting do not invalidate an alignment.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input:
SOURCE: Introduction
TARGET: Introduzione
Output:
{"is_valid_alignment": true, "confidence": 0.98, "reason": "Exact translation of the section heading."}

Example:
Input:
SOURCE: The train stopped at the frozen platform.
TARGET: La cena era ormai fredda da ore.
Output:
{"is_valid_alignment": false, "confidence": 0.95, "reason": "The texts describe unrelated scenes."}`

const relevanceResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "score": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    }
  },
  "required": ["score"],
  "additionalProperties": false
}`

const relevancePromptTemplate = `You grade how relevant a retrieved text passage is to a search query.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "score" is 1 when the passage directly answers or contains the query subject.
- "score" is 0 when the passage is unrelated to the query.
- Use intermediate values for partial relevance.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input:
QUERY: emergency
PASSAGE: AN EMERGENCY
Output:
{"score": 0.97}`
