package game

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	InitialScore  = 20
	WinThreshold  = 100
	LoseThreshold = 0
)

// ScoreMarker precedes the signed delta in an assistant turn.
const ScoreMarker = "[SCORE]"

var (
	scorePattern   = regexp.MustCompile(`\[SCORE\]\s*([-+]?\d+)`)
	emotionPattern = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*`)
)

// ParseDelta extracts the first signed integer following the score marker.
func ParseDelta(text string) (int, bool) {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	delta, err := strconv.Atoi(m[1])
	if err != nil {
		// Out of int range; treat like a missing marker.
		return 0, false
	}
	return delta, true
}

// Clamp bounds a score to [LoseThreshold, WinThreshold].
func Clamp(score int) int {
	return max(LoseThreshold, min(WinThreshold, score))
}

// ApplyTurn applies the delta found in text to score. When no delta is
// found the score is returned unchanged and found is false.
func ApplyTurn(text string, score int) (newScore int, found bool) {
	delta, found := ParseDelta(text)
	if !found {
		return score, false
	}
	return Clamp(score + delta), true
}

// ParseReply splits an assistant turn into its emotion tag and spoken line,
// dropping the score marker. Emotion is empty when the turn has no leading tag.
func ParseReply(text string) (emotion, line string) {
	body := text
	if loc := scorePattern.FindStringIndex(body); loc != nil {
		body = body[:loc[0]] + body[loc[1]:]
	}
	if m := emotionPattern.FindStringSubmatchIndex(body); m != nil {
		tag := body[m[2]:m[3]]
		if !strings.EqualFold(tag, "SCORE") {
			emotion = tag
			body = body[m[1]:]
		}
	}
	return emotion, strings.TrimSpace(body)
}
