package mind

import (
	"fmt"
	"regexp"
	"strings"
)

// Learned is one fact extracted from a chat message.
type Learned struct {
	Key   string
	Value string
}

// w matches a word the way users actually type Portuguese: letters with
// accents count.
const (
	w      = `[\p{L}\d_]`
	phrase = `[\p{L}\d_ ]`
)

type factPattern struct {
	re     *regexp.Regexp
	derive func(m []string) Learned
}

// factPatterns is ordered; every matching pattern contributes a fact.
var factPatterns = []factPattern{
	{
		re:     regexp.MustCompile(`tenho (\d+) anos?`),
		derive: func(m []string) Learned { return Learned{"idade", m[1] + " anos"} },
	},
	{
		re:     regexp.MustCompile(`(?:minha idade é|eu tenho) (\d+)`),
		derive: func(m []string) Learned { return Learned{"idade", m[1] + " anos"} },
	},
	{
		re: regexp.MustCompile(`nasci (?:em|no dia) (\d{1,2})\s*(?:de|/)\s*(` + w + `+)\s*(?:de|/)?\s*(\d{4})`),
		derive: func(m []string) Learned {
			return Learned{"data_nascimento", fmt.Sprintf("%s de %s de %s", m[1], m[2], m[3])}
		},
	},
	{
		re: regexp.MustCompile(`aniversário.*?(\d{1,2})\s*(?:de|/)\s*(` + w + `+)`),
		derive: func(m []string) Learned {
			return Learned{"aniversário", fmt.Sprintf("%s de %s", m[1], m[2])}
		},
	},
	{
		re:     regexp.MustCompile(`(?:minha comida favorita é|gosto de comer|amo) (?:a |o )?(` + w + `+)`),
		derive: func(m []string) Learned { return Learned{"comida_favorita", m[1]} },
	},
	{
		re:     regexp.MustCompile(`(?:meu jogo favorito é|jogo muito|gosto de jogar) (` + w + phrase + `*?)(?:\.|,|$)`),
		derive: func(m []string) Learned { return Learned{"jogo_favorito", strings.TrimSpace(m[1])} },
	},
	{
		re:     regexp.MustCompile(`(?:meu anime favorito é|assisto|gosto de) (` + w + phrase + `*?)(?:\.|,|$)`),
		derive: func(m []string) Learned { return Learned{"anime_favorito", strings.TrimSpace(m[1])} },
	},
	{
		re:     regexp.MustCompile(`(?:minha música favorita é|escuto muito|gosto de ouvir) (` + w + phrase + `*?)(?:\.|,|$)`),
		derive: func(m []string) Learned { return Learned{"musica_favorita", strings.TrimSpace(m[1])} },
	},
	{
		re:     regexp.MustCompile(`(?:meu artista favorito é|ouço muito) (` + w + phrase + `*?)(?:\.|,|$)`),
		derive: func(m []string) Learned { return Learned{"artista_favorito", strings.TrimSpace(m[1])} },
	},
	{
		re:     regexp.MustCompile(`(?:meu nome é|me chamo|pode me chamar de) (` + w + `+)`),
		derive: func(m []string) Learned { return Learned{"nome", m[1]} },
	},
	{
		re:     regexp.MustCompile(`(?:minha cor favorita é|gosto (?:da cor|do)) (` + w + `+)`),
		derive: func(m []string) Learned { return Learned{"cor_favorita", m[1]} },
	},
}

// ExtractFacts scans a message for personal information. Every matching
// pattern contributes one fact; later facts for the same key overwrite
// earlier ones when stored.
func ExtractFacts(message string) []Learned {
	lower := strings.ToLower(message)

	var out []Learned
	for _, p := range factPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		out = append(out, p.derive(m))
	}
	return out
}
