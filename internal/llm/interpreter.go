package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/freetogether/internal/config"
	"github.com/javiermolinar/freetogether/internal/daterange"
	"github.com/javiermolinar/freetogether/internal/slot"
)

// Interpreter errors.
var (
	ErrEmptyDescription = errors.New("availability description cannot be empty")
	ErrNoSlots          = errors.New("the description did not match any slot in the grid")
)

const interpreterPrompt = `You convert a person's description of when they are free into hour ranges on a calendar grid.

Grid days (use the key exactly as written):
%s

Named hour bands:
- business hours: %s to %s
- evening: %s to %s

Description: "%s"

Rules:
- Return JSON only (no markdown, no explanation).
- "day" must be one of the grid keys above, or "all" for every day.
- "from" and "to" are whole hours 0-23, both inclusive. "9am to 5pm" is from 9 to 16.
- Put firm availability in "available" and tentative ("maybe", "probably", "if needed") in "maybe".
- Omit days the person is not free.
- Use "notes" for anything you could not place.

JSON schema:
{
  "available": [{"day": "string", "from": 9, "to": 16}],
  "maybe": [{"day": "string", "from": 18, "to": 20}],
  "notes": ["string"]
}`

const interpreterPromptCompact = `Return JSON only. Map the description to hour ranges.
Days: %s
Business hours %s-%s, evening %s-%s.
Description: "%s"
Schema: {"available":[{"day":"<key or all>","from":0,"to":23}],"maybe":[...],"notes":["..."]}
from/to are inclusive hours.`

// Band is an inclusive hour range on one grid day.
type Band struct {
	Day  string `json:"day"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// Interpretation is the raw model answer.
type Interpretation struct {
	Available []Band   `json:"available"`
	Maybe     []Band   `json:"maybe"`
	Notes     []string `json:"notes"`
}

// InterpretRequest contains the input for the interpreter.
type InterpretRequest struct {
	Text    string
	Days    []daterange.Entry
	Hours   config.HoursConfig
	Compact bool // shorter prompt for local models
}

// InterpretResult is the slot selection derived from a description.
type InterpretResult struct {
	Available []slot.Key
	Maybe     []slot.Key
	Notes     []string
	Problems  []string // bands that could not be mapped after all retries
}

// Interpreter turns free text into slot keys using an LLM.
type Interpreter struct {
	client     Client
	maxRetries int
}

// NewInterpreter creates a new Interpreter with the given LLM client.
func NewInterpreter(client Client) *Interpreter {
	return &Interpreter{client: client, maxRetries: 2}
}

// Interpret asks the model for hour bands and converts them to slot keys.
// Bands that name unknown days or impossible hours are sent back to the model
// once per retry; whatever still fails is reported in Problems.
func (i *Interpreter) Interpret(ctx context.Context, req InterpretRequest) (*InterpretResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyDescription
	}
	if len(req.Days) == 0 {
		return nil, errors.New("interpret request has no grid days")
	}

	messages := []Message{
		{Role: "system", Content: buildPrompt(req, text)},
		{Role: "user", Content: text},
	}

	var result *InterpretResult
	for attempt := 0; ; attempt++ {
		var raw Interpretation
		if err := i.client.ChatJSON(ctx, messages, &raw); err != nil {
			return nil, fmt.Errorf("interpreting availability: %w", err)
		}

		result = ToSlots(raw, req.Days)
		if len(result.Problems) == 0 || attempt >= i.maxRetries {
			break
		}

		messages = append(messages,
			Message{Role: "assistant", Content: describe(raw)},
			Message{Role: "user", Content: "Fix these problems and answer again with the full JSON:\n- " +
				strings.Join(result.Problems, "\n- ")},
		)
	}

	if len(result.Available)+len(result.Maybe) == 0 {
		return result, ErrNoSlots
	}
	return result, nil
}

func buildPrompt(req InterpretRequest, text string) string {
	h := req.Hours
	if req.Compact {
		keys := make([]string, 0, len(req.Days))
		for _, d := range req.Days {
			keys = append(keys, d.Key)
		}
		return fmt.Sprintf(interpreterPromptCompact, strings.Join(keys, ", "),
			h.BusinessStart, h.BusinessEnd, h.EveningStart, h.EveningEnd, text)
	}

	var days strings.Builder
	for _, d := range req.Days {
		fmt.Fprintf(&days, "- %s (%s)\n", d.Key, d.DisplayName)
	}
	return fmt.Sprintf(interpreterPrompt, strings.TrimRight(days.String(), "\n"),
		h.BusinessStart, h.BusinessEnd, h.EveningStart, h.EveningEnd, text)
}

func describe(raw Interpretation) string {
	var b strings.Builder
	for _, band := range raw.Available {
		fmt.Fprintf(&b, "available %s %d-%d\n", band.Day, band.From, band.To)
	}
	for _, band := range raw.Maybe {
		fmt.Fprintf(&b, "maybe %s %d-%d\n", band.Day, band.From, band.To)
	}
	return b.String()
}

// ToSlots converts bands to slot keys on the given days. A slot named in
// both lists is kept as available.
func ToSlots(raw Interpretation, days []daterange.Entry) *InterpretResult {
	res := &InterpretResult{Notes: raw.Notes}
	seen := map[slot.Key]bool{}

	add := func(bands []Band, dst *[]slot.Key, label string) {
		for _, band := range bands {
			matched := matchDays(band.Day, days)
			if len(matched) == 0 {
				res.Problems = append(res.Problems, fmt.Sprintf("%s band: unknown day %q", label, band.Day))
				continue
			}
			if band.From < 0 || band.To >= slot.HoursPerDay || band.From > band.To {
				res.Problems = append(res.Problems, fmt.Sprintf("%s band on %s: invalid hours %d-%d", label, band.Day, band.From, band.To))
				continue
			}
			for _, dayKey := range matched {
				for h := band.From; h <= band.To; h++ {
					k := slot.MustEncode(dayKey, h)
					if seen[k] {
						continue
					}
					seen[k] = true
					*dst = append(*dst, k)
				}
			}
		}
	}
	add(raw.Available, &res.Available, "available")
	add(raw.Maybe, &res.Maybe, "maybe")

	slot.Sort(res.Available)
	slot.Sort(res.Maybe)
	return res
}

// matchDays resolves a band's day name to grid day keys. It accepts a full
// key, "all", a weekday name (every matching column) or a display name.
func matchDays(name string, days []daterange.Entry) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	var out []string
	for _, d := range days {
		weekday, _, _ := strings.Cut(d.Key, "_")
		switch {
		case name == "all", name == "*",
			name == d.Key,
			name == weekday,
			name == strings.ToLower(d.DisplayName):
			out = append(out, d.Key)
		}
	}
	return out
}
