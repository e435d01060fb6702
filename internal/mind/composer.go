package mind

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var greetings = map[string]bool{
	"oi": true, "olá": true, "ola": true, "hey": true,
	"e ai": true, "eae": true, "salve": true,
}

var goodbyeWords = []string{
	"tchau", "bye", "até", "adeus", "obrigado", "thanks", "flw", "falou", "vlw",
}

var shortResponses = map[string]bool{
	"ok": true, "entendi": true, "certo": true, "ta": true,
	"k": true, "blz": true, "beleza": true, "obg": true,
}

var pauseRe = regexp.MustCompile(`[.!?,:;]`)

// DecideMessageCount picks how many chat messages the reply becomes. Short
// punchy replies often split in two; long ones in up to four. The decision
// grows with word count and pause density.
func DecideMessageCount(prompt, response string, isCompanion bool, rnd Rand) int {
	_ = isCompanion
	promptLower := strings.ToLower(strings.TrimSpace(prompt))

	if greetings[promptLower] {
		return pick(rnd, []int{1, 2})
	}
	if containsAny(promptLower, goodbyeWords) {
		return 1
	}
	if shortResponses[promptLower] {
		return 1
	}

	pausePoints := len(pauseRe.FindAllString(response, -1))
	wordCount := len(strings.Fields(response))

	switch {
	case wordCount <= 8:
		if pausePoints <= 1 {
			return pick(rnd, []int{1, 2, 2, 2})
		}
		return 2
	case wordCount <= 15:
		return pick(rnd, []int{2, 2, 2, 1})
	case wordCount <= 30:
		switch {
		case pausePoints <= 2:
			return pick(rnd, []int{2, 2, 2, 3})
		case pausePoints <= 4:
			return pick(rnd, []int{2, 2, 3, 3})
		default:
			return pick(rnd, []int{2, 3, 3, 3})
		}
	default:
		switch {
		case pausePoints <= 3:
			return pick(rnd, []int{2, 2, 3})
		case pausePoints <= 5:
			return pick(rnd, []int{2, 3, 3, 3})
		default:
			return pick(rnd, []int{3, 3, 3, 4})
		}
	}
}

var (
	sentenceRe     = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)
	continuationRe = regexp.MustCompile(`^(de|com|em|se|sobre|para|que|e|ou|mas)\s`)
	connectiveRes  = []*regexp.Regexp{
		regexp.MustCompile(`\s+(mas|porém|contudo|todavia|entretanto)\s+`),
		regexp.MustCompile(`\s+(e também|além disso)\s+`),
	}
)

// SplitNaturally divides a reply into at most n fragments at natural pause
// points. Strategies degrade from sentence boundaries to comma clauses to
// contrastive connectives to word counts; when none applies the text comes
// back in fewer pieces rather than broken mid-expression.
func SplitNaturally(text string, n int) []string {
	if n <= 1 {
		return []string{text}
	}

	text = strings.TrimSpace(text)
	sentences := splitSentences(text)

	if len(sentences) >= n {
		return clamp(distribute(sentences, n, " "), n)
	}

	if len(sentences) == 1 {
		sentence := sentences[0]

		if parts := splitByCommas(sentence, n); parts != nil {
			return clamp(parts, n)
		}
		if parts := splitByConnectives(sentence, n); parts != nil {
			return clamp(parts, n)
		}
	}

	if parts := splitByWords(text, n); parts != nil {
		return clamp(parts, n)
	}

	if len(sentences) > 0 {
		return clamp(sentences, n)
	}
	return []string{text}
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// distribute spreads items over n chunks, earlier chunks of equal size and
// the last absorbing the remainder.
func distribute(items []string, n int, sep string) []string {
	chunkSize := len(items) / n
	if chunkSize < 1 {
		chunkSize = 1
	}

	var result []string
	for i := 0; i < n; i++ {
		start := i * chunkSize
		if start >= len(items) {
			break
		}
		end := (i + 1) * chunkSize
		if i == n-1 || end > len(items) {
			end = len(items)
		}
		msg := strings.TrimSpace(strings.Join(items[start:end], sep))
		if msg != "" {
			result = append(result, msg)
		}
	}
	return result
}

// splitByCommas cuts one long sentence at commas, but never strands a
// clause that starts with a continuation word (preposition/conjunction) from
// what it continues. Returns nil when the sentence has too few safe cuts.
func splitByCommas(sentence string, n int) []string {
	var chunks []string
	current := ""

	for _, part := range strings.Split(sentence, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if current != "" && !continuationRe.MatchString(strings.ToLower(part)) {
			chunks = append(chunks, current)
			current = part
		} else if current != "" {
			current += ", " + part
		} else {
			current = part
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	if len(chunks) < n {
		return nil
	}

	result := distribute(chunks, n, ", ")
	for i, msg := range result {
		if !strings.HasSuffix(msg, ".") && !strings.HasSuffix(msg, "!") && !strings.HasSuffix(msg, "?") {
			result[i] = msg + "."
		}
	}
	if len(result) != n {
		return nil
	}
	return result
}

// splitByConnectives cuts at contrastive connectives (mas, porém, ...),
// leaving the connective attached to the preceding fragment.
func splitByConnectives(sentence string, n int) []string {
	for _, re := range connectiveRes {
		seps := re.FindAllString(sentence, -1)
		if len(seps) == 0 {
			continue
		}
		texts := re.Split(sentence, -1)

		var chunks []string
		current := ""
		for i, txt := range texts {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			current = txt
			if i < len(seps) {
				current += seps[i]
			}
		}
		if current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
		}

		if len(chunks) < n {
			continue
		}
		result := distribute(chunks, n, " ")
		if len(result) == n {
			return result
		}
	}
	return nil
}

// splitByWords is the last resort: even word-count pieces, nudging each cut
// up to three tokens forward to land after a comma. Requires at least five
// words per piece.
func splitByWords(text string, n int) []string {
	words := strings.Fields(text)
	if len(words) < n*5 {
		return nil
	}

	wordsPerPart := len(words) / n
	var result []string
	for i := 0; i < n; i++ {
		start := i * wordsPerPart
		end := (i + 1) * wordsPerPart
		if i == n-1 {
			end = len(words)
		} else {
			for j := end; j < end+3 && j < len(words); j++ {
				if strings.HasSuffix(words[j], ",") {
					end = j + 1
					break
				}
			}
		}
		if start >= len(words) {
			break
		}
		msg := strings.TrimSpace(strings.Join(words[start:end], " "))
		if msg != "" {
			result = append(result, msg)
		}
	}
	if len(result) != n {
		return nil
	}
	return result
}

// clamp merges any overflow into the final fragment so callers always get
// at most n messages.
func clamp(parts []string, n int) []string {
	if len(parts) <= n {
		return parts
	}
	head := parts[:n-1]
	tail := strings.Join(parts[n-1:], " ")
	return append(append([]string{}, head...), tail)
}

// PacingDelay returns how long to wait after sending a fragment, scaled to
// how long the fragment would take to type.
func PacingDelay(words int, rnd Rand) time.Duration {
	var lo, hi float64
	switch {
	case words <= 3:
		lo, hi = 0.2, 0.5
	case words <= 8:
		lo, hi = 0.4, 0.9
	case words <= 15:
		lo, hi = 0.7, 1.3
	default:
		lo, hi = 1.0, 1.8
	}
	secs := lo + rnd.Float64()*(hi-lo)
	return time.Duration(math.Round(secs*1000)) * time.Millisecond
}
