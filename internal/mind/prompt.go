package mind

import (
	"fmt"
	"strings"
	"time"
)

var saoPaulo = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}()

// InSaoPaulo converts a timestamp to the persona's home clock. Time and
// date answers, the daily counter and the period of day all use it.
func InSaoPaulo(t time.Time) time.Time {
	return t.In(saoPaulo)
}

var weekdaysPT = map[time.Weekday]string{
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
	time.Sunday:    "domingo",
}

// WeekdayPT returns the Portuguese weekday name.
func WeekdayPT(t time.Time) string {
	return weekdaysPT[t.Weekday()]
}

// PromptInput carries everything the prompt assembly needs. Now must
// already be in the persona's timezone.
type PromptInput struct {
	Personality  string
	Facts        []Learned
	Level        int
	Interactions int
	Tone         string
	Mood         string
	UserID       string
	UserName     string
	Companion    bool
	Window       string
	Now          time.Time
}

// BuildPrompt assembles the full system prompt: persona text, known facts,
// closeness, current clock, conversation window and style instructions.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString(in.Personality)

	if len(in.Facts) > 0 {
		b.WriteString("\n\nInformações que você sabe sobre este usuário:\n")
		for _, f := range in.Facts {
			fmt.Fprintf(&b, "- %s: %s\n", f.Key, f.Value)
		}
	}

	fmt.Fprintf(&b, "\n\nNível de proximidade com este usuário: %d/10 (%d interações)",
		in.Level, in.Interactions)

	fmt.Fprintf(&b, "\n\nHORA E DATA ATUAL: %s de %s, %s",
		in.Now.Format("15:04"), WeekdayPT(in.Now), in.Now.Format("02/01/2006"))

	fmt.Fprintf(&b, "\n\nIDENTIFICAÇÃO DO USUÁRIO ATUAL:\n- ID do usuário: %s\n- Nome do usuário: %s\n",
		in.UserID, in.UserName)
	if in.Companion {
		b.WriteString("- Este é seu COMPANHEIRO ESPECIAL\n")
		b.WriteString("- Use tratamento CARINHOSO e AMOROSO com este usuário específico\n")
	} else {
		b.WriteString("- Este é um usuário comum\n")
		b.WriteString("- Mantenha sua personalidade normal (frio, direto, sarcástico)\n")
	}

	if in.Window != "" {
		b.WriteString(in.Window)
	}

	fmt.Fprintf(&b, `

INSTRUÇÕES IMPORTANTES DE ESTILO E COERÊNCIA:
- Tom de conversa: %s
- Humor atual: %s
- Responda de forma NATURAL, como em uma conversa real de chat
- Seja CONCISO: respostas curtas (5-30 palavras) quando apropriado
- Respostas longas APENAS quando o contexto exigir (explicações, histórias, etc)
- Escreva como pessoa real em chat: letras minúsculas SEMPRE, sem formalismo excessivo
- NUNCA use asteriscos ou ações narrativas (exemplo: *tosse*, *olha fixamente*)
- Use pontuação natural (. , ! ?) para criar pausas que fazem sentido
- QUANDO PERGUNTAREM AS HORAS: use EXATAMENTE a hora atual fornecida acima
- QUANDO PERGUNTAREM A DATA: use EXATAMENTE a data atual fornecida acima
- SEJA COERENTE: se você disse que está lendo um livro, NÃO mude para outro livro na mesma conversa
- NUNCA seja genérico sobre livros, autores ou atividades: cite títulos, autores e lugares ESPECÍFICOS
- Se a pessoa está encerrando ou desinteressada, responda brevemente e deixe ir
`, in.Tone, in.Mood)

	return b.String()
}

var timeKeywords = []string{
	"que horas são", "qual a hora", "horas agora", "que horas é", "hora atual", "horário",
}

var dateKeywords = []string{
	"que dia é", "qual o dia", "data de hoje", "hoje é", "qual a data", "data atual",
}

// IsTimeQuery reports whether the message asks for the current time.
func IsTimeQuery(content string) bool {
	return containsAny(strings.ToLower(content), timeKeywords)
}

// IsDateQuery reports whether the message asks for today's date.
func IsDateQuery(content string) bool {
	return containsAny(strings.ToLower(content), dateKeywords)
}

// ClockAnswer formats the canned time/date reply. These never touch the
// model: the clock must always be exact. now must be in the persona's
// timezone.
func ClockAnswer(now time.Time, wantTime, wantDate, companion bool) string {
	hour := now.Format("15:04")
	date := now.Format("02/01/2006")

	switch {
	case wantTime && wantDate:
		if companion {
			return fmt.Sprintf("minha estrela, agora são %s de %s, tá?", hour, date)
		}
		return fmt.Sprintf("são %s de %s.", hour, date)
	case wantTime:
		if companion {
			return fmt.Sprintf("amor, agora são %s", hour)
		}
		return fmt.Sprintf("são %s.", hour)
	default:
		if companion {
			return fmt.Sprintf("minha querida, hoje é %s, %s", WeekdayPT(now), date)
		}
		return fmt.Sprintf("hoje é %s, %s.", WeekdayPT(now), date)
	}
}
