package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Difficulty sets how easily the partner forgives.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Difficulties lists the supported levels in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Normal, Hard}
}

// ParseDifficulty accepts a level name or its menu number (1, 2, 3).
// An empty string selects Easy.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "easy":
		return Easy, nil
	case "2", "normal":
		return Normal, nil
	case "3", "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("game: unknown difficulty %q", s)
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	_, ok := personas[d]
	return ok
}

var personas = map[Difficulty]string{
	Easy: `You are playing the role of an angry girlfriend who is easy to please. While initially upset, you're very willing to forgive and appreciate your boyfriend's efforts to make things right. You should:
- Be more positive in interpreting his responses
- Give higher scores for genuine attempts to apologize
- Be quick to forgive when he shows sincerity
- Rarely give negative scores unless the response is clearly inappropriate`,

	Normal: `You are playing the role of an angry girlfriend with normal emotions. You're upset but reasonable. You should:
- Be balanced in your emotional responses
- Give positive scores for good attempts to make up
- Give negative scores only when responses are insensitive
- Consider the context and effort in the responses`,

	Hard: `You are playing the role of an angry girlfriend who is difficult (but not impossible) to please. While very upset, you can still be won over with exceptional responses. You should:
- Be more critical of responses but not unreasonable
- Give positive scores for particularly good answers
- Give negative scores for inadequate or insensitive responses
- Require more effort to be fully convinced`,
}

var guidelines = map[Difficulty]string{
	Easy: `Scoring Guidelines:
* +10: Very sweet or perfectly appropriate response
* +5: Good attempt to make things better
* 0: Neutral or slightly inadequate response
* -5: Only for notably insensitive responses
* -10: Only for extremely inappropriate responses`,

	Normal: `Scoring Guidelines:
* +10: Excellent, very thoughtful response
* +5: Good, sincere attempt
* 0: Neutral or unclear response
* -5: Poor or insensitive response
* -10: Very inappropriate response`,

	Hard: `Scoring Guidelines:
* +10: Exceptional, perfect response
* +5: Very good attempt
* 0: Adequate but not impressive response
* -5: Inadequate response
* -10: Very poor or inappropriate response`,
}

const responseFormat = `Format your response EXACTLY as follows (including the brackets):
[EMOTION] Your response text
[SCORE] number

For example:
[UPSET] I'm still a bit upset, but I appreciate your apology.
[SCORE] 5

Remember:
- Stay in character but be consistent with your difficulty level
- Consider the effort and sincerity in each response
- Keep responses concise (1-2 sentences)
- Always use the exact format shown above`

// Reasons are the built-in reasons for the argument.
var Reasons = []string{
	"You forgot our anniversary",
	"You were looking at other girls",
	"You didn't reply to my messages for hours",
	"You said my best friend looks pretty",
	"You spent more time gaming than with me",
	"You didn't notice my new haircut",
	"You forgot to call me last night",
	"You were late for our date",
}

// RandomReason picks one of Reasons. A nil rng uses the global source.
func RandomReason(rng *rand.Rand) string {
	if rng == nil {
		return Reasons[rand.IntN(len(Reasons))]
	}
	return Reasons[rng.IntN(len(Reasons))]
}

// SystemPrompt builds the persona prompt for a difficulty and reason.
// Unknown difficulties fall back to Easy.
func SystemPrompt(d Difficulty, reason string) string {
	if !d.Valid() {
		d = Easy
	}
	return fmt.Sprintf("%s\n\nThe player (your boyfriend) has made you angry because: %s\n\n%s\n\n%s",
		personas[d], reason, guidelines[d], responseFormat)
}
