package mind

import "strings"

// Participation is the engagement decision for a message the bot was not
// obligated to answer.
type Participation struct {
	ShouldRespond bool
	UseReply      bool
}

// interestTopics are the persona's conversation hooks.
var interestTopics = []string{
	// literatura
	"livro", "ler", "leitura", "autor", "edgar", "poe", "dostoevsky", "dazai",
	"kafka", "nietzsche", "camus", "poesia", "romance", "conto",

	// temas filosóficos
	"existência", "solidão", "morte", "mortalidade", "força", "fraqueza",
	"significado", "vazio", "caos", "escuridão", "sombra",

	// gatos
	"gato", "romeu", "felino", "pet", "animal de estimação",

	// ambientes
	"café", "chuva", "noite", "silêncio", "biblioteca", "shogi",

	// bungo stray dogs
	"bungo", "bsd", "port mafia", "atsushi", "gin", "habilidade",

	// arte e cultura
	"música", "arte", "filosofia", "estratégia", "poema",
}

var botAliases = []string{"akutagawa", "aku", "ryunosuke", "ryūnosuke"}

var questionMarkers = []string{"?", "por que", "porque", "como", "qual", "quando", "onde", "o que"}

var deepDiscussionMarkers = []string{"acha", "pensa", "concorda", "opinião", "acredita", "sente"}

// moodParticipation maps the current mood to the baseline random chance of
// jumping into a conversation.
var moodParticipation = map[string]float64{
	"feliz":      0.35,
	"reflexivo":  0.40,
	"sarcastico": 0.30,
	"neutro":     0.20,
	"triste":     0.15,
	"irritado":   0.10,
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// DecideParticipation decides whether to join a conversation the bot was
// not addressed in, and whether to thread the reply. Unknown moods use the
// neutral chance.
func DecideParticipation(content, mood string, rnd Rand) Participation {
	lower := strings.ToLower(content)

	mentioned := containsAny(lower, botAliases)
	hasTopic := containsAny(lower, interestTopics)
	isQuestion := containsAny(lower, questionMarkers)
	isDeep := containsAny(lower, deepDiscussionMarkers)

	chance, ok := moodParticipation[mood]
	if !ok {
		chance = moodParticipation["neutro"]
	}
	randomJoin := rnd.Float64() < chance

	shouldRespond := mentioned ||
		hasTopic ||
		(isQuestion && hasTopic) ||
		(isDeep && rnd.Float64() < 0.5) ||
		// random participation only on messages with some substance
		(randomJoin && len(strings.Fields(content)) > 8)

	useReply := mentioned ||
		(isQuestion && hasTopic) ||
		(isDeep && rnd.Float64() < 0.6)

	return Participation{ShouldRespond: shouldRespond, UseReply: useReply}
}

// disengageSignals are exact (trimmed, lower-cased) messages meaning the
// user wants out of the conversation.
var disengageSignals = map[string]bool{
	"ok.": true, "entendi.": true, "certo.": true, "ta.": true,
	"tá.": true, "k.": true, "blz.": true, "vlw.": true,
}

// ShouldDisengage reports whether the message signals total disinterest.
func ShouldDisengage(content string) bool {
	return disengageSignals[strings.ToLower(strings.TrimSpace(content))]
}

var acknowledgments = []string{"...", "certo.", "ok.", "entendi.", "hm."}

// ShortAcknowledgment picks the minimal reply for a disengaging user. No
// model call happens on this path.
func ShortAcknowledgment(rnd Rand) string {
	return pick(rnd, acknowledgments)
}
